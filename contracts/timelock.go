// Package contracts holds auxiliary metered components that live beside the
// workload engine: small pieces of contract-shaped logic priced with the same
// cost schedule the host charges. Like the engine they carry no locks of
// their own; callers serialize access.
//
// Every operation charges its flat cost up front, validates, and only then
// mutates, so a returned error always leaves the component unchanged.
package contracts

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/lmittmann/w3"

	"github.com/Treymsby/eth-network/host"
)

var (
	// EventReleased marks a deposit paid out to its beneficiary.
	EventReleased = w3.MustNewEvent("Released(uint256 indexed id, address indexed beneficiary, uint256 amount)")
	// EventCancelled marks a deposit returned to its depositor before unlock.
	EventCancelled = w3.MustNewEvent("Cancelled(uint256 indexed id, address indexed depositor, uint256 amount)")
)

// DefaultTimelockAddress is the emitter attached to timelock entries when no
// address is configured.
var DefaultTimelockAddress = common.BytesToAddress(crypto.Keccak256([]byte("timelock"))[12:])

// Deposit is one locked amount. Copies handed out by Get are detached from
// the timelock's book-keeping.
type Deposit struct {
	ID          uint64
	Depositor   common.Address
	Beneficiary common.Address
	Amount      *uint256.Int
	UnlockTime  uint64
	CreatedAt   uint64
}

// Timelock escrows amounts until a clock-determined unlock time. Deposits
// are released to the beneficiary at or after unlock, or cancelled back by
// the depositor strictly before it.
type Timelock struct {
	sched host.CostSchedule
	clock host.Clock
	sink  host.Sink
	addr  common.Address
	log   log.Logger

	nextID    uint64
	nextIndex uint64
	deposits  map[uint64]Deposit
	held      uint256.Int
}

type TimelockConfig struct {
	Schedule host.CostSchedule // zero value: host.DefaultCostSchedule
	Clock    host.Clock        // nil: host.DefaultClock
	Sink     host.Sink         // nil: entries are dropped
	Address  common.Address    // zero: DefaultTimelockAddress
	Log      log.Logger
}

func NewTimelock(cfg TimelockConfig) *Timelock {
	if cfg.Schedule == (host.CostSchedule{}) {
		cfg.Schedule = host.DefaultCostSchedule()
	}
	if cfg.Clock == nil {
		cfg.Clock = host.DefaultClock()
	}
	if cfg.Sink == nil {
		cfg.Sink = host.DiscardSink{}
	}
	if cfg.Address == (common.Address{}) {
		cfg.Address = DefaultTimelockAddress
	}
	if cfg.Log == nil {
		cfg.Log = log.Root()
	}
	return &Timelock{
		sched:    cfg.Schedule,
		clock:    cfg.Clock,
		sink:     cfg.Sink,
		addr:     cfg.Address,
		log:      cfg.Log,
		deposits: make(map[uint64]Deposit),
	}
}

// Deposit locks amount for beneficiary until unlockTime and returns the new
// deposit's id. The caller becomes the depositor and is the only party able
// to cancel.
func (t *Timelock) Deposit(m *host.Meter, caller, beneficiary common.Address, amount *uint256.Int, unlockTime uint64) (uint64, error) {
	const op = "timelock-deposit"
	cost := t.sched.CallBase + t.sched.ValueTransfer + 3*t.sched.SlotSet
	if err := m.Charge(op, cost); err != nil {
		return 0, err
	}
	now := t.clock.Now()
	if beneficiary == (common.Address{}) {
		return 0, host.InvalidParamf(op, "beneficiary", "must not be the zero address")
	}
	if amount == nil || amount.IsZero() {
		return 0, host.InvalidParamf(op, "amount", "must be positive")
	}
	if unlockTime <= now {
		return 0, host.InvalidParamf(op, "unlockTime", "%d is not after current time %d", unlockTime, now)
	}

	id := t.nextID
	t.nextID++
	t.deposits[id] = Deposit{
		ID:          id,
		Depositor:   caller,
		Beneficiary: beneficiary,
		Amount:      amount.Clone(),
		UnlockTime:  unlockTime,
		CreatedAt:   now,
	}
	t.held.Add(&t.held, amount)
	t.log.Debug("deposit locked", "id", id, "beneficiary", beneficiary, "amount", amount, "unlock", unlockTime)
	return id, nil
}

// Release pays deposit id out to its beneficiary. Only the beneficiary may
// release, and only at or after the unlock time.
func (t *Timelock) Release(m *host.Meter, caller common.Address, id uint64) (*uint256.Int, error) {
	const op = "timelock-release"
	cost := t.sched.CallBase + t.sched.SlotRead + t.sched.SlotUpdate + t.sched.ValueTransfer + t.sched.LogGas(3, 32)
	if err := m.Charge(op, cost); err != nil {
		return nil, err
	}
	now := t.clock.Now()
	dep, ok := t.deposits[id]
	if !ok {
		return nil, host.InvalidParamf(op, "id", "unknown deposit %d", id)
	}
	if caller != dep.Beneficiary {
		return nil, host.InvalidParamf(op, "caller", "only the beneficiary may release")
	}
	if now < dep.UnlockTime {
		return nil, host.InvalidParamf(op, "id", "locked until %d, current time %d", dep.UnlockTime, now)
	}

	delete(t.deposits, id)
	t.held.Sub(&t.held, dep.Amount)
	t.emit(EventReleased.Topic0, id, dep.Beneficiary, dep.Amount, now)
	t.log.Debug("deposit released", "id", id, "beneficiary", dep.Beneficiary, "amount", dep.Amount)
	return dep.Amount.Clone(), nil
}

// Cancel returns deposit id to its depositor. Only the depositor may cancel,
// and only strictly before the unlock time.
func (t *Timelock) Cancel(m *host.Meter, caller common.Address, id uint64) (*uint256.Int, error) {
	const op = "timelock-cancel"
	cost := t.sched.CallBase + t.sched.SlotRead + t.sched.SlotUpdate + t.sched.ValueTransfer + t.sched.LogGas(3, 32)
	if err := m.Charge(op, cost); err != nil {
		return nil, err
	}
	now := t.clock.Now()
	dep, ok := t.deposits[id]
	if !ok {
		return nil, host.InvalidParamf(op, "id", "unknown deposit %d", id)
	}
	if caller != dep.Depositor {
		return nil, host.InvalidParamf(op, "caller", "only the depositor may cancel")
	}
	if now >= dep.UnlockTime {
		return nil, host.InvalidParamf(op, "id", "unlocked at %d, current time %d", dep.UnlockTime, now)
	}

	delete(t.deposits, id)
	t.held.Sub(&t.held, dep.Amount)
	t.emit(EventCancelled.Topic0, id, dep.Depositor, dep.Amount, now)
	t.log.Debug("deposit cancelled", "id", id, "depositor", dep.Depositor, "amount", dep.Amount)
	return dep.Amount.Clone(), nil
}

func (t *Timelock) emit(topic0 common.Hash, id uint64, party common.Address, amount *uint256.Int, now uint64) {
	data := amount.Bytes32()
	entry := host.LogEntry{
		Index:   t.nextIndex,
		Emitter: t.addr,
		Topics: []common.Hash{
			topic0,
			common.Hash(new(uint256.Int).SetUint64(id).Bytes32()),
			common.BytesToHash(party.Bytes()),
		},
		Data: data[:],
		Time: now,
	}
	t.nextIndex++
	t.sink.Publish([]host.LogEntry{entry})
}

// Get returns a copy of deposit id, reporting whether it is still open.
func (t *Timelock) Get(id uint64) (Deposit, bool) {
	dep, ok := t.deposits[id]
	if !ok {
		return Deposit{}, false
	}
	dep.Amount = dep.Amount.Clone()
	return dep, true
}

// Held returns the total amount currently locked.
func (t *Timelock) Held() *uint256.Int {
	return t.held.Clone()
}

// Open reports how many deposits are outstanding.
func (t *Timelock) Open() int { return len(t.deposits) }
