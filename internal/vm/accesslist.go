package vm

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/eth2030/evmcore/internal/types"
)

// accesslist.go adds an EIP-2930-style access list: a transaction-level
// declaration of addresses and storage slots to pre-warm before execution
// starts, so their first touch inside the interpreter loop costs the warm
// rate (GasBalanceWarm/GasSloadWarm) instead of the EIP-2929 cold rate. This is a
// natural extension of the warm/cold model already built in
// internal/vm/storage.go. The set type models the list of (address, slot)
// pairs a transaction declares up front.
type slotKey struct {
	addr types.Address
	key  Word
}

// AccessList is the set of addresses and storage slots a transaction
// declares for pre-warming, matching EIP-2930's list shape.
type AccessList struct {
	addresses mapset.Set[types.Address]
	slots     mapset.Set[slotKey]
}

// NewAccessList returns an empty AccessList.
func NewAccessList() *AccessList {
	return &AccessList{
		addresses: mapset.NewThreadUnsafeSet[types.Address](),
		slots:     mapset.NewThreadUnsafeSet[slotKey](),
	}
}

// AddAddress declares addr for pre-warming.
func (a *AccessList) AddAddress(addr types.Address) {
	a.addresses.Add(addr)
}

// AddSlot declares (addr, key) for pre-warming; it implicitly adds addr too,
// matching EIP-2930's semantics that a listed slot's account is also warm.
func (a *AccessList) AddSlot(addr types.Address, key Word) {
	a.addresses.Add(addr)
	a.slots.Add(slotKey{addr: addr, key: key})
}

// Addresses returns the declared addresses in unspecified order.
func (a *AccessList) Addresses() []types.Address {
	return a.addresses.ToSlice()
}

// Apply pre-warms every declared address and slot in storage using the
// same warm/cold model SLOAD/SSTORE read: a declared slot's load function
// is passed through unchanged so its original value is seeded the same way
// a live SLOAD would seed it.
func (a *AccessList) Apply(storage *Storage, load func(addr types.Address, key Word) Word) {
	for _, addr := range a.addresses.ToSlice() {
		storage.AccessAccount(addr)
	}
	for _, sk := range a.slots.ToSlice() {
		addr, key := sk.addr, sk.key
		storage.AccessSlot(addr, key, func() Word { return load(addr, key) })
	}
}
