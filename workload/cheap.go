package workload

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/Treymsby/eth-network/host"
)

// runEmit is the cheapest profile: a single Ping entry carrying the caller
// and a tag. No slots, no hashing, no accumulator traffic.
func runEmit(f *host.Frame, r EmitRequest) error {
	return ping(f, r.Tag)
}

// runEmitBatch amortizes call overhead over many Ping entries. Emission order
// follows input order and iterations carry no state between them.
func runEmitBatch(f *host.Frame, r EmitBatchRequest) error {
	for _, tag := range r.Tags {
		if err := ping(f, tag); err != nil {
			return err
		}
	}
	return nil
}

func ping(f *host.Frame, tag uint64) error {
	caller := f.Caller()
	tagWord := U64Word(tag)
	return f.Emit([]common.Hash{EventPing.Topic0, common.BytesToHash(caller.Bytes())}, tagWord[:])
}
