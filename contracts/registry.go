package contracts

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/Treymsby/eth-network/host"
)

// OwnershipRegistry maps arbitrary keys to an owning address. Claims are
// first-writer-wins; once claimed, only the owner can move or drop a key.
type OwnershipRegistry struct {
	sched  host.CostSchedule
	log    log.Logger
	owners map[common.Hash]common.Address
}

func NewOwnershipRegistry(sched host.CostSchedule, logger log.Logger) *OwnershipRegistry {
	if sched == (host.CostSchedule{}) {
		sched = host.DefaultCostSchedule()
	}
	if logger == nil {
		logger = log.Root()
	}
	return &OwnershipRegistry{
		sched:  sched,
		log:    logger,
		owners: make(map[common.Hash]common.Address),
	}
}

// Claim assigns key to caller if nobody holds it yet.
func (r *OwnershipRegistry) Claim(m *host.Meter, caller common.Address, key common.Hash) error {
	const op = "registry-claim"
	if err := m.Charge(op, r.sched.CallBase+r.sched.SlotRead+r.sched.SlotSet); err != nil {
		return err
	}
	if caller == (common.Address{}) {
		return host.InvalidParamf(op, "caller", "must not be the zero address")
	}
	if owner, ok := r.owners[key]; ok {
		return host.InvalidParamf(op, "key", "%s already claimed by %s", key, owner)
	}
	r.owners[key] = caller
	r.log.Debug("key claimed", "key", key, "owner", caller)
	return nil
}

// Transfer moves key from caller to another owner.
func (r *OwnershipRegistry) Transfer(m *host.Meter, caller common.Address, key common.Hash, to common.Address) error {
	const op = "registry-transfer"
	if err := m.Charge(op, r.sched.CallBase+r.sched.SlotRead+r.sched.SlotUpdate); err != nil {
		return err
	}
	if to == (common.Address{}) {
		return host.InvalidParamf(op, "to", "must not be the zero address")
	}
	if err := r.requireOwner(op, caller, key); err != nil {
		return err
	}
	r.owners[key] = to
	r.log.Debug("key transferred", "key", key, "from", caller, "to", to)
	return nil
}

// Renounce drops caller's ownership of key, reopening it for claims.
func (r *OwnershipRegistry) Renounce(m *host.Meter, caller common.Address, key common.Hash) error {
	const op = "registry-renounce"
	if err := m.Charge(op, r.sched.CallBase+r.sched.SlotRead+r.sched.SlotUpdate); err != nil {
		return err
	}
	if err := r.requireOwner(op, caller, key); err != nil {
		return err
	}
	delete(r.owners, key)
	r.log.Debug("key renounced", "key", key, "owner", caller)
	return nil
}

func (r *OwnershipRegistry) requireOwner(op string, caller common.Address, key common.Hash) error {
	owner, ok := r.owners[key]
	if !ok {
		return host.InvalidParamf(op, "key", "%s is unclaimed", key)
	}
	if owner != caller {
		return host.InvalidParamf(op, "caller", "%s does not own %s", caller, key)
	}
	return nil
}

// OwnerOf returns key's owner, or the zero address when unclaimed.
func (r *OwnershipRegistry) OwnerOf(key common.Hash) common.Address {
	return r.owners[key]
}

// Owned reports how many keys are claimed.
func (r *OwnershipRegistry) Owned() int { return len(r.owners) }
