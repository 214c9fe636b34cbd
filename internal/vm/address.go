package vm

import (
	"github.com/eth2030/evmcore/internal/crypto"
	"github.com/eth2030/evmcore/internal/rlp"
	"github.com/eth2030/evmcore/internal/types"
)

// address.go implements the address validity rule and CREATE address
// derivation, via internal/rlp.

// validateAddress checks that w has no bits set above bit 159, returning
// the low-160-bit address or InvalidAddress. Every address-shaped stack
// pop routes through this single gate rather than duplicating the bit-159
// check per opcode.
func validateAddress(w *Word) (types.Address, error) {
	var shifted Word
	shifted.Rsh(w, 160)
	if !shifted.IsZero() {
		return types.Address{}, ErrInvalidAddress
	}
	b := w.Bytes20()
	return types.Address(b), nil
}

// addressToWord left-pads addr into a 256-bit word.
func addressToWord(addr types.Address) *Word {
	return WordFromBytes(addr[:])
}

// deriveContractAddress computes the CREATE contract address for a
// creation transaction from sender and nonce.
func deriveContractAddress(sender types.Address, nonce uint64) types.Address {
	var raw [20]byte
	copy(raw[:], sender[:])
	addr := rlp.ContractAddress(raw, nonce, func(b []byte) []byte { return crypto.Keccak256(b) })
	return types.Address(addr)
}
