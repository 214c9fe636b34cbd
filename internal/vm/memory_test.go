package vm

import "testing"

func TestQuadraticCost(t *testing.T) {
	tests := []struct {
		words uint64
		want  uint64
	}{
		{0, 0},
		{1, 3},
		{2, 6},
		{32, 98},    // 32*3 + 32*32/512 = 96 + 2
		{1024, 5120}, // 1024*3 + 1024*1024/512 = 3072 + 2048
	}
	for _, tt := range tests {
		if got := quadraticCost(tt.words); got != tt.want {
			t.Errorf("quadraticCost(%d) = %d, want %d", tt.words, got, tt.want)
		}
	}
}

func TestMemoryEnsureChargesExpansionOnce(t *testing.T) {
	m := NewMemory()

	cost, err := m.ensure(0, 32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cost != quadraticCost(1) {
		t.Errorf("first expansion cost = %d, want %d", cost, quadraticCost(1))
	}

	cost, err = m.ensure(0, 32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cost != 0 {
		t.Errorf("re-accessing the same region should cost 0, got %d", cost)
	}
}

func TestMemoryZeroSizeNeverExpands(t *testing.T) {
	m := NewMemory()
	cost, err := m.ensure(1000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cost != 0 || m.Size() != 0 {
		t.Errorf("size-0 access should never expand memory, got cost=%d size=%d", cost, m.Size())
	}
}

func TestMemoryStoreAndLoadWord(t *testing.T) {
	m := NewMemory()
	v := WordFromUint64(42)
	if _, err := m.StoreWord(0, v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _, err := m.LoadWord(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Eq(v) {
		t.Errorf("LoadWord = %s, want %s", got.String(), v.String())
	}
}

func TestMemoryLoadPastContentIsZero(t *testing.T) {
	m := NewMemory()
	data, _, err := m.Load(0, 32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, b := range data {
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0", i, b)
		}
	}
}

func TestMemoryCopyOverlapping(t *testing.T) {
	m := NewMemory()
	if _, err := m.Store(0, []byte{1, 2, 3, 4, 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Shift the 5 bytes right by one, overlapping source and destination.
	if _, err := m.Copy(1, 0, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{1, 1, 2, 3, 4, 5}
	got := m.Data()[:6]
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMemoryOutOfBoundsOnOverflow(t *testing.T) {
	m := NewMemory()
	_, err := m.ensure(^uint64(0), 32)
	if err != ErrMemoryOutOfBounds {
		t.Errorf("ensure with overflowing bounds = %v, want ErrMemoryOutOfBounds", err)
	}
}
