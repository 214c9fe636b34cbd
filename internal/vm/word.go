package vm

// word.go implements the 256-bit word arithmetic the rest of the
// interpreter is built on: wrapping unsigned ops (delegated to uint256.Int,
// which is natively modulo 2^256), signed division/remainder, sign
// extension, arithmetic shift, bounded exponentiation, and the
// needed-size-in-bytes helper used by EXP's dynamic gas.

import (
	"github.com/holiman/uint256"

	"github.com/eth2030/evmcore/internal/crypto"
)

// Word is the atomic 256-bit unsigned integer of the stack, memory words,
// and storage values. All arithmetic wraps modulo 2^256 unless noted.
type Word = uint256.Int

// NewWord returns a zero-valued Word.
func NewWord() *Word { return new(uint256.Int) }

// WordFromUint64 returns a Word holding v.
func WordFromUint64(v uint64) *Word { return uint256.NewInt(v) }

// WordFromBytes interprets b as a big-endian integer, left-padding with
// zeros, truncating leading bytes beyond 32.
func WordFromBytes(b []byte) *Word {
	return new(uint256.Int).SetBytes(b)
}

// neededSizeInBytes returns the minimum number of bytes needed to represent
// x: 0 for zero, 1 for 1..255, and so on. Used by EXP's dynamic gas.
func neededSizeInBytes(x *Word) uint64 {
	bits := x.BitLen()
	if bits == 0 {
		return 0
	}
	return uint64((bits + 7) / 8)
}

// wrappingBigPow computes base^exp mod 2^256.
//
// If exp fits in 32 bits the result is computed directly. Otherwise the
// computation is split on 2^32-1: pow(pow(base, 2^32-1), exp/(2^32-1)) *
// pow(base, exp mod (2^32-1)), all wrapping mod 2^256. uint256.Int.Exp
// already performs modular exponentiation by squaring over the full
// 256-bit exponent range and would give the same answer directly; the
// split is kept explicit here because it is the construction the opcode
// semantics were specified against and it is worth exercising on its own.
func wrappingBigPow(base, exp *Word) *Word {
	const splitExp = uint64(1<<32 - 1)
	if exp.IsUint64() && exp.Uint64() <= 0xFFFFFFFF {
		return new(uint256.Int).Exp(base, exp)
	}

	splitter := uint256.NewInt(splitExp)
	quotient := new(uint256.Int).Div(exp, splitter)
	remainder := new(uint256.Int).Mod(exp, splitter)

	baseToSplit := new(uint256.Int).Exp(base, splitter)
	left := new(uint256.Int).Exp(baseToSplit, quotient)
	right := new(uint256.Int).Exp(base, remainder)
	return left.Mul(left, right)
}

// signExtend treats x as a (min(bitsArg,30)+1)-byte signed value and
// sign-extends it to a full 256-bit word, per SIGNEXTEND's semantics.
func signExtend(bitsArg, x *Word) *Word {
	byteNum := bitsArg
	if bitsArg.GtUint64(30) {
		byteNum = uint256.NewInt(30)
	}
	out := new(uint256.Int).Set(x)
	return out.ExtendSign(x, byteNum)
}

// arithmeticShiftRight implements SAR: shift right, preserving sign.
func arithmeticShiftRight(shift, value *Word) *Word {
	out := new(uint256.Int).Set(value)
	if shift.GtUint64(255) {
		if value.Sign() >= 0 {
			return out.Clear()
		}
		return out.SetAllOne()
	}
	return out.SRsh(value, uint(shift.Uint64()))
}

// shiftLeft implements SHL: shift >= 256 always yields 0.
func shiftLeft(shift, value *Word) *Word {
	out := new(uint256.Int).Set(value)
	if shift.GtUint64(255) {
		return out.Clear()
	}
	return out.Lsh(value, uint(shift.Uint64()))
}

// shiftRight implements SHR: shift >= 256 always yields 0.
func shiftRight(shift, value *Word) *Word {
	out := new(uint256.Int).Set(value)
	if shift.GtUint64(255) {
		return out.Clear()
	}
	return out.Rsh(value, uint(shift.Uint64()))
}

// keccak256Word hashes data and returns the digest as a big-endian Word.
func keccak256Word(data []byte) *Word {
	return new(uint256.Int).SetBytes(crypto.Keccak256(data))
}

// wordToHash32 writes w as 32 big-endian bytes.
func wordToHash32(w *Word) [32]byte {
	return w.Bytes32()
}
