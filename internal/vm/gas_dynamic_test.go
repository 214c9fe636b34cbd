package vm

import "testing"

func TestSstoreGasCostClasses(t *testing.T) {
	zero := NewWord()
	one := WordFromUint64(1)
	two := WordFromUint64(2)

	tests := []struct {
		name             string
		original, current, newVal *Word
		wasWarm          bool
		want             uint64
	}{
		{"cold clean zero to nonzero", zero, zero, one, false, GasSstoreSet + GasSloadCold},
		{"warm unchanged", one, one, one, true, GasSloadWarm},
		{"warm dirty write", one, two, one, true, GasSloadWarm},
		{"cold clean nonzero to nonzero", one, one, two, false, GasSstoreReset + GasSloadCold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sstoreGas(tt.original, tt.current, tt.newVal, tt.wasWarm)
			if got != tt.want {
				t.Errorf("sstoreGas() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAccountAccessGas(t *testing.T) {
	if got := accountAccessGas(false); got != GasBalanceCold {
		t.Errorf("cold = %d, want %d", got, GasBalanceCold)
	}
	if got := accountAccessGas(true); got != GasBalanceWarm {
		t.Errorf("warm = %d, want %d", got, GasBalanceWarm)
	}
}

func TestSlotAccessGas(t *testing.T) {
	if got := slotAccessGas(false); got != GasSloadCold {
		t.Errorf("cold = %d, want %d", got, GasSloadCold)
	}
	if got := slotAccessGas(true); got != GasSloadWarm {
		t.Errorf("warm = %d, want %d", got, GasSloadWarm)
	}
}

func TestKeccakGas(t *testing.T) {
	// One word of input: base cost plus one word's surcharge.
	got := keccakGas(32)
	want := GasKeccak256 + GasKeccak256Word
	if got != want {
		t.Errorf("keccakGas(32) = %d, want %d", got, want)
	}
}

func TestExpGas(t *testing.T) {
	// exp = 0 needs 0 bytes.
	if got := expGas(NewWord()); got != GasHigh {
		t.Errorf("expGas(0) = %d, want %d", got, GasHigh)
	}
	// exp = 256 needs 2 bytes.
	if got := expGas(WordFromUint64(256)); got != GasHigh+100 {
		t.Errorf("expGas(256) = %d, want %d", got, GasHigh+100)
	}
}

func TestLogGas(t *testing.T) {
	got := logGas(2, 10)
	want := GasLog*3 + GasLogData*10
	if got != want {
		t.Errorf("logGas(2, 10) = %d, want %d", got, want)
	}
}
