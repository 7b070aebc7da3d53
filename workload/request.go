package workload

// StorageChurnRequest rewrites slots 0..Iterations-1 with fresh mixed words,
// folding each into the accumulator and logging each iteration.
type StorageChurnRequest struct {
	Iterations uint64
}

func (r StorageChurnRequest) Kind() Kind { return KindStorageChurn }

func (r StorageChurnRequest) Input() []byte {
	return encodeInput(funcStorageChurn, bigU64(r.Iterations))
}

// StorageOnlyRequest is churn without log emissions, writing to keys that
// drift with the accumulator instead of a fixed range.
type StorageOnlyRequest struct {
	Iterations uint64
}

func (r StorageOnlyRequest) Kind() Kind { return KindStorageOnly }

func (r StorageOnlyRequest) Input() []byte {
	return encodeInput(funcStorageOnly, bigU64(r.Iterations))
}

// ComputeMemoryRequest burns compute and transient memory over a scratch
// array, committing only the accumulator.
type ComputeMemoryRequest struct {
	Iterations uint64
	ArraySize  uint64
}

func (r ComputeMemoryRequest) Kind() Kind { return KindComputeMemory }

func (r ComputeMemoryRequest) Input() []byte {
	return encodeInput(funcComputeMemory, bigU64(r.Iterations), bigU64(r.ArraySize))
}

// HashOnlyRequest strips the compute profile down to pure hash chaining.
type HashOnlyRequest struct {
	Iterations uint64
}

func (r HashOnlyRequest) Kind() Kind { return KindHashOnly }

func (r HashOnlyRequest) Input() []byte {
	return encodeInput(funcHashOnly, bigU64(r.Iterations))
}

// LogBloatRequest emits Payload unchanged Count times.
type LogBloatRequest struct {
	Payload []byte
	Count   uint64
}

func (r LogBloatRequest) Kind() Kind { return KindLogBloat }

func (r LogBloatRequest) Input() []byte {
	return encodeInput(funcLogBloat, r.Payload, bigU64(r.Count))
}

// LogAndStorageRequest is log bloat with a storage tail over keys 1..Slots.
type LogAndStorageRequest struct {
	Payload []byte
	Count   uint64
	Slots   uint64
}

func (r LogAndStorageRequest) Kind() Kind { return KindLogAndStorage }

func (r LogAndStorageRequest) Input() []byte {
	return encodeInput(funcLogAndStorage, r.Payload, bigU64(r.Count), bigU64(r.Slots))
}

// AdaptiveFillRequest consumes whatever budget the call arrived with, down to
// the engine's safety margin.
type AdaptiveFillRequest struct {
	Payload []byte
}

func (r AdaptiveFillRequest) Kind() Kind { return KindAdaptiveFill }

func (r AdaptiveFillRequest) Input() []byte {
	return encodeInput(funcAdaptiveFill, r.Payload)
}

// InflateRequest carries an arbitrarily large payload and does nothing with
// it: all cost is input accounting.
type InflateRequest struct {
	Payload []byte
}

func (r InflateRequest) Kind() Kind { return KindInflate }

func (r InflateRequest) Input() []byte {
	return encodeInput(funcInflate, r.Payload)
}

// InflateValueRequest is the payable twin of InflateRequest; the attached
// call value is credited to the engine balance at commit.
type InflateValueRequest struct {
	Payload []byte
}

func (r InflateValueRequest) Kind() Kind { return KindInflateValue }

func (r InflateValueRequest) Input() []byte {
	return encodeInput(funcInflateValue, r.Payload)
}

// EmitRequest produces a single Ping entry carrying the caller and Tag.
type EmitRequest struct {
	Tag uint64
}

func (r EmitRequest) Kind() Kind { return KindEmit }

func (r EmitRequest) Input() []byte {
	return encodeInput(funcEmit, r.Tag)
}

// EmitBatchRequest produces one Ping entry per tag, in input order.
type EmitBatchRequest struct {
	Tags []uint64
}

func (r EmitBatchRequest) Kind() Kind { return KindEmitBatch }

func (r EmitBatchRequest) Input() []byte {
	return encodeInput(funcEmitBatch, r.Tags)
}

var (
	_ Request = StorageChurnRequest{}
	_ Request = StorageOnlyRequest{}
	_ Request = ComputeMemoryRequest{}
	_ Request = HashOnlyRequest{}
	_ Request = LogBloatRequest{}
	_ Request = LogAndStorageRequest{}
	_ Request = AdaptiveFillRequest{}
	_ Request = InflateRequest{}
	_ Request = InflateValueRequest{}
	_ Request = EmitRequest{}
	_ Request = EmitBatchRequest{}
)
