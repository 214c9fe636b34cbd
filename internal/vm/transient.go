package vm

import "github.com/eth2030/evmcore/internal/types"

// transient.go implements TLOAD/TSTORE (EIP-1153) transient storage: a
// per-account map cleared at the end of the transaction, with no warm/cold
// tracking and a flat gas cost (GasTload/GasTstore).
type TransientStorage struct {
	accounts map[types.Address]map[Word]Word
}

// NewTransientStorage returns an empty TransientStorage.
func NewTransientStorage() *TransientStorage {
	return &TransientStorage{accounts: make(map[types.Address]map[Word]Word)}
}

// Load returns the transient value at (addr, key), zero if never stored.
func (t *TransientStorage) Load(addr types.Address, key Word) Word {
	slots, ok := t.accounts[addr]
	if !ok {
		return Word{}
	}
	return slots[key]
}

// Store sets the transient value at (addr, key).
func (t *TransientStorage) Store(addr types.Address, key, value Word) {
	slots, ok := t.accounts[addr]
	if !ok {
		slots = make(map[Word]Word)
		t.accounts[addr] = slots
	}
	slots[key] = value
}
