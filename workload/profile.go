package workload

import "fmt"

// Kind names one workload operation. Kinds are stable identifiers: they show
// up in receipts, metric labels and on the CLI.
type Kind string

const (
	KindStorageChurn  Kind = "storage-churn"
	KindStorageOnly   Kind = "storage-only"
	KindComputeMemory Kind = "compute-memory"
	KindHashOnly      Kind = "hash-only"
	KindLogBloat      Kind = "log-bloat"
	KindLogAndStorage Kind = "log-and-storage"
	KindAdaptiveFill  Kind = "adaptive-fill"
	KindInflate       Kind = "inflate"
	KindInflateValue  Kind = "inflate-value"
	KindEmit          Kind = "emit"
	KindEmitBatch     Kind = "emit-batch"
)

// Kinds lists every operation in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindStorageChurn, KindStorageOnly,
		KindComputeMemory, KindHashOnly,
		KindLogBloat, KindLogAndStorage,
		KindAdaptiveFill,
		KindInflate, KindInflateValue,
		KindEmit, KindEmitBatch,
	}
}

// ParseKind validates a kind string, typically from the CLI.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if s == string(k) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown workload kind %q", s)
}

// Request is one typed call into the engine. Dispatch is polymorphic on the
// concrete type; Input is the encoded calldata whose size the host meters.
type Request interface {
	Kind() Kind
	Input() []byte
}
