package host

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// LogEntry is one committed broadcast-log record. Index is assigned at commit
// time and increases monotonically over the host's lifetime; entries from one
// call are contiguous and keep their emission order.
type LogEntry struct {
	Index   uint64         `json:"index"`
	Emitter common.Address `json:"emitter"`
	Topics  []common.Hash  `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
	Time    uint64         `json:"time"`
}

// Topic0 returns the event identity topic, or the zero hash for topicless
// entries.
func (e LogEntry) Topic0() common.Hash {
	if len(e.Topics) == 0 {
		return common.Hash{}
	}
	return e.Topics[0]
}

// Sink receives the entries committed by successful calls. Publish runs at
// most once per call, after state is applied, with entries in emission order.
// The host never reads entries back; capture is entirely the sink's business.
type Sink interface {
	Publish(entries []LogEntry)
}

// DiscardSink drops all entries.
type DiscardSink struct{}

func (DiscardSink) Publish([]LogEntry) {}
