package vm

import (
	"testing"

	"github.com/eth2030/evmcore/internal/types"
)

func TestWrappingBigPow(t *testing.T) {
	tests := []struct {
		base, exp uint64
		want      uint64
	}{
		{2, 10, 1024},
		{3, 0, 1},
		{0, 0, 1},
		{5, 3, 125},
	}
	for _, tt := range tests {
		got := wrappingBigPow(WordFromUint64(tt.base), WordFromUint64(tt.exp))
		if !got.Eq(WordFromUint64(tt.want)) {
			t.Errorf("wrappingBigPow(%d, %d) = %s, want %d", tt.base, tt.exp, got.String(), tt.want)
		}
	}
}

func TestWrappingBigPowLargeExponent(t *testing.T) {
	// exp beyond 2^32-1 exercises the split path; 1^anything == 1.
	exp := new(Word).Lsh(WordFromUint64(1), 40)
	got := wrappingBigPow(WordFromUint64(1), exp)
	if !got.Eq(WordFromUint64(1)) {
		t.Errorf("1^(2^40) = %s, want 1", got.String())
	}
}

func TestNeededSizeInBytes(t *testing.T) {
	tests := []struct {
		v    uint64
		want uint64
	}{
		{0, 0},
		{1, 1},
		{255, 1},
		{256, 2},
		{65535, 2},
		{65536, 3},
	}
	for _, tt := range tests {
		got := neededSizeInBytes(WordFromUint64(tt.v))
		if got != tt.want {
			t.Errorf("neededSizeInBytes(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestSignExtend(t *testing.T) {
	// Sign-extend 0xff (byte 0, negative) to a full negative word.
	x := WordFromUint64(0xff)
	got := signExtend(WordFromUint64(0), x)
	want := new(Word).SetAllOne()
	if !got.Eq(want) {
		t.Errorf("signExtend(0xff) = %s, want all-ones", got.String())
	}
}

func TestArithmeticShiftRightNegative(t *testing.T) {
	allOnes := new(Word).SetAllOne()
	got := arithmeticShiftRight(WordFromUint64(4), allOnes)
	if !got.Eq(allOnes) {
		t.Errorf("SAR(-1, 4) = %s, want all-ones (sign-preserving)", got.String())
	}
}

func TestArithmeticShiftRightOverflowingShift(t *testing.T) {
	allOnes := new(Word).SetAllOne()
	got := arithmeticShiftRight(WordFromUint64(256), allOnes)
	if !got.Eq(allOnes) {
		t.Errorf("SAR(-1, 256) = %s, want all-ones", got.String())
	}

	positive := WordFromUint64(5)
	got = arithmeticShiftRight(WordFromUint64(256), positive)
	if !got.IsZero() {
		t.Errorf("SAR(5, 256) = %s, want 0", got.String())
	}
}

func TestShiftLeftAndRightOverflow(t *testing.T) {
	v := WordFromUint64(1)
	if got := shiftLeft(WordFromUint64(256), v); !got.IsZero() {
		t.Errorf("SHL(1, 256) = %s, want 0", got.String())
	}
	if got := shiftRight(WordFromUint64(256), v); !got.IsZero() {
		t.Errorf("SHR(1, 256) = %s, want 0", got.String())
	}
}

func TestKeccak256Word(t *testing.T) {
	// keccak256("") is the well-known empty-code hash.
	got := keccak256Word(nil)
	want := WordFromBytes(types.EmptyCodeHash.Bytes())
	if !got.Eq(want) {
		t.Errorf("keccak256(\"\") = %s, want %s", got.String(), want.String())
	}
}
