package vm

import "math"

// memory.go implements byte-addressable memory that always has a length
// that is a multiple of 32 bytes, expanding lazily on access with a
// quadratic expansion cost (words(n)^2/512 + 3*words(n)). Every access
// that would expand memory returns its cost and a MemoryOutOfBounds error
// instead of panicking.
type Memory struct {
	store []byte
}

// NewMemory returns a new, empty Memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Size returns the current byte length, always a multiple of 32.
func (m *Memory) Size() uint64 {
	return uint64(len(m.store))
}

// Data returns the full backing slice.
func (m *Memory) Data() []byte {
	return m.store
}

// toWords rounds size up to the next 32-byte boundary, in words.
func toWords(size uint64) uint64 {
	if size == 0 {
		return 0
	}
	return (size + 31) / 32
}

// quadraticCost computes C(n) = n^2/512 + 3*n for n in 32-byte words.
func quadraticCost(words uint64) uint64 {
	if words == 0 {
		return 0
	}
	if words > 181_000 {
		// Beyond any attainable gas limit; avoids the words*words overflow.
		return math.MaxUint64
	}
	return words*3 + words*words/512
}

// checkedBounds validates that offset+size fits in uint64 and returns the
// exclusive end. A size of 0 is always accepted, regardless of offset. A
// range whose last byte is exactly at 2^64-1 is rejected as well, since its
// exclusive end does not fit in uint64.
func checkedBounds(offset, size uint64) (end uint64, err error) {
	if size == 0 {
		return offset, nil
	}
	end = offset + size
	if end < offset {
		return 0, ErrMemoryOutOfBounds
	}
	return end, nil
}

// ensure expands memory so [offset, offset+size) is addressable, returning
// the gas cost of any expansion performed. Size 0 never expands and costs
// nothing.
func (m *Memory) ensure(offset, size uint64) (extensionCost uint64, err error) {
	end, err := checkedBounds(offset, size)
	if err != nil {
		return 0, err
	}
	if size == 0 || end <= uint64(len(m.store)) {
		return 0, nil
	}

	oldWords := toWords(uint64(len(m.store)))
	newWords := toWords(end)
	oldCost := quadraticCost(oldWords)
	newCost := quadraticCost(newWords)
	if newCost == math.MaxUint64 {
		return 0, ErrOutOfGas
	}

	grown := make([]byte, newWords*32)
	copy(grown, m.store)
	m.store = grown
	return newCost - oldCost, nil
}

// StoreByte writes value at offset, size 1.
func (m *Memory) StoreByte(offset uint64, value byte) (uint64, error) {
	cost, err := m.ensure(offset, 1)
	if err != nil {
		return 0, err
	}
	m.store[offset] = value
	return cost, nil
}

// StoreWord writes value as 32 big-endian bytes at offset.
func (m *Memory) StoreWord(offset uint64, value *Word) (uint64, error) {
	cost, err := m.ensure(offset, 32)
	if err != nil {
		return 0, err
	}
	b := value.Bytes32()
	copy(m.store[offset:offset+32], b[:])
	return cost, nil
}

// Store writes data at offset. Bytes beyond len(data) up to size are zero.
func (m *Memory) Store(offset uint64, data []byte) (uint64, error) {
	cost, err := m.ensure(offset, uint64(len(data)))
	if err != nil {
		return 0, err
	}
	if len(data) > 0 {
		copy(m.store[offset:offset+uint64(len(data))], data)
	}
	return cost, nil
}

// LoadWord reads 32 big-endian bytes from offset. Expansion applies even
// when the region was never written.
func (m *Memory) LoadWord(offset uint64) (*Word, uint64, error) {
	cost, err := m.ensure(offset, 32)
	if err != nil {
		return nil, 0, err
	}
	return WordFromBytes(m.store[offset : offset+32]), cost, nil
}

// Load reads size bytes from offset. Reads past materialized content
// return zero bytes after expansion.
func (m *Memory) Load(offset, size uint64) ([]byte, uint64, error) {
	cost, err := m.ensure(offset, size)
	if err != nil {
		return nil, 0, err
	}
	out := make([]byte, size)
	if size > 0 {
		copy(out, m.store[offset:offset+size])
	}
	return out, cost, nil
}

// Copy performs an MCOPY-style in-memory copy; expansion is computed over
// the larger of the two touched regions. Go's built-in copy() implements
// memmove semantics so overlapping src/dst need no temporary buffer.
func (m *Memory) Copy(dst, src, size uint64) (uint64, error) {
	dstEnd, err := checkedBounds(dst, size)
	if err != nil {
		return 0, err
	}
	srcEnd, err := checkedBounds(src, size)
	if err != nil {
		return 0, err
	}
	if size == 0 {
		return 0, nil
	}
	maxEnd := dstEnd
	if srcEnd > maxEnd {
		maxEnd = srcEnd
	}
	cost, err := m.ensure(0, maxEnd)
	if err != nil {
		return 0, err
	}
	copy(m.store[dst:dstEnd], m.store[src:srcEnd])
	return cost, nil
}
