package vm

import "github.com/eth2030/evmcore/internal/types"

// storage.go implements per-account persistent storage with EIP-2929
// warm/cold access tracking and the original/current value pair SSTORE's
// gas cost classes are computed from. There is a single cache level, with
// no cross-block layer. Warm flags and original values live as long as the
// Storage does: ExecuteTransaction does not reset them, so a WorldState
// reused for a second transaction starts with the first transaction's warm
// accounts and slots and with originals taken when each slot was first
// touched.
type storageSlot struct {
	original Word
	value    Word
	warm     bool
}

// AccountStorage holds one account's slot storage plus its own warm/cold
// account-access flag (EIP-2929 applies to whole accounts too, via
// BALANCE/EXTCODESIZE/EXTCODECOPY/EXTCODEHASH/CALL-family).
type AccountStorage struct {
	slots     map[Word]*storageSlot
	warm      bool
	destroyed bool
}

func newAccountStorage() *AccountStorage {
	return &AccountStorage{slots: make(map[Word]*storageSlot)}
}

// Storage is the world state's full set of per-account slot storage,
// scoped to a single transaction's lifetime.
type Storage struct {
	accounts map[types.Address]*AccountStorage
}

// NewStorage returns an empty Storage with no accounts yet marked warm.
func NewStorage() *Storage {
	return &Storage{accounts: make(map[types.Address]*AccountStorage)}
}

func (s *Storage) account(addr types.Address) *AccountStorage {
	acc, ok := s.accounts[addr]
	if !ok {
		acc = newAccountStorage()
		s.accounts[addr] = acc
	}
	return acc
}

// AccessAccount marks addr warm, returning whether it was already warm
// (the EIP-2929 "cold access" signal gas_dynamic.go's accountAccessGas
// uses to pick GasBalanceCold vs GasBalanceWarm).
func (s *Storage) AccessAccount(addr types.Address) (wasWarm bool) {
	acc := s.account(addr)
	wasWarm = acc.warm
	acc.warm = true
	return wasWarm
}

// AccessSlot marks (addr, key) warm, seeding original/current from load if
// this is the slot's first touch. Returns whether it was already warm.
func (s *Storage) AccessSlot(addr types.Address, key Word, load func() Word) (wasWarm bool) {
	acc := s.account(addr)
	slot, ok := acc.slots[key]
	if !ok {
		v := load()
		slot = &storageSlot{original: v, value: v}
		acc.slots[key] = slot
	}
	wasWarm = slot.warm
	slot.warm = true
	return wasWarm
}

// Load returns the current value of (addr, key), treating an unseen slot
// as zero without marking it warm. SLOAD is what makes a slot warm; Load
// here is used for the seed step in AccessSlot itself and by callers that
// already resolved warmth separately.
func (s *Storage) Load(addr types.Address, key Word) Word {
	acc, ok := s.accounts[addr]
	if !ok {
		return Word{}
	}
	slot, ok := acc.slots[key]
	if !ok {
		return Word{}
	}
	return slot.value
}

// Store sets the current value of (addr, key). The slot must already have
// been accessed (via AccessSlot) so original/warm are populated.
func (s *Storage) Store(addr types.Address, key, value Word) {
	acc := s.account(addr)
	slot, ok := acc.slots[key]
	if !ok {
		slot = &storageSlot{original: value, warm: true}
		acc.slots[key] = slot
	}
	slot.value = value
}

// Seed installs (addr, key) = value as part of the account's starting
// storage, cold and with that value as the transaction's original baseline.
// Hosts use this to populate a WorldState before handing it to
// ExecuteTransaction; the interpreter itself never calls it.
func (s *Storage) Seed(addr types.Address, key, value Word) {
	acc := s.account(addr)
	acc.slots[key] = &storageSlot{original: value, value: value}
}

// Original returns the slot's value as of the start of the transaction,
// the baseline sstoreGas computes clean/dirty cost classes against.
func (s *Storage) Original(addr types.Address, key Word) Word {
	acc, ok := s.accounts[addr]
	if !ok {
		return Word{}
	}
	slot, ok := acc.slots[key]
	if !ok {
		return Word{}
	}
	return slot.original
}

// MarkDestroyed records that addr self-destructed during this transaction.
// Kept for completeness of the account model; SELFDESTRUCT itself is a
// reserved opcode here, so nothing currently sets this.
func (s *Storage) MarkDestroyed(addr types.Address) {
	s.account(addr).destroyed = true
}
