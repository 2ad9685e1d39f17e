package avrswap

import "fmt"

// Buffer is the fixed-length exchange array. It stores values at the float32
// width used on the wire so what the driver reads back is exactly what the
// controller saw.
type Buffer struct {
	data []float32
}

// NewBuffer allocates a zeroed buffer. Sizes below MinSize are rejected.
func NewBuffer(size int) (*Buffer, error) {
	if size < MinSize {
		return nil, fmt.Errorf("avrswap: buffer size %d below minimum %d", size, MinSize)
	}
	return &Buffer{data: make([]float32, size)}, nil
}

// Len reports the number of slots.
func (b *Buffer) Len() int {
	return len(b.data)
}

// At returns the value stored at index i.
func (b *Buffer) At(i int) (float64, error) {
	if i < 0 || i >= len(b.data) {
		return 0, fmt.Errorf("avrswap: index %d out of range [0,%d)", i, len(b.data))
	}
	return float64(b.data[i]), nil
}

// Set stores v at index i, narrowing to float32.
func (b *Buffer) Set(i int, v float64) error {
	if i < 0 || i >= len(b.data) {
		return fmt.Errorf("avrswap: index %d out of range [0,%d)", i, len(b.data))
	}
	b.data[i] = float32(v)
	return nil
}

// Get reads a contract slot. Slots are validated against MinSize, so this
// never fails for a buffer built by NewBuffer.
func (b *Buffer) Get(s Slot) float64 {
	return float64(b.data[s.Index])
}

// Put writes a contract slot.
func (b *Buffer) Put(s Slot, v float64) {
	b.data[s.Index] = float32(v)
}

// Floats exposes the live backing array. It is handed to the native call,
// which mutates it in place; callers must not retain it past the Buffer's
// lifetime.
func (b *Buffer) Floats() []float32 {
	return b.data
}

// Snapshot returns a copy of the current contents.
func (b *Buffer) Snapshot() []float32 {
	return append([]float32(nil), b.data...)
}

// Phase returns the call-phase marker.
func (b *Buffer) Phase() int {
	return int(b.data[SlotStatus.Index])
}

// SetPhase updates the call-phase marker. The marker may only stay put or move
// from first call to subsequent.
func (b *Buffer) SetPhase(phase int) error {
	if phase != PhaseFirstCall && phase != PhaseSubsequent {
		return fmt.Errorf("avrswap: invalid call phase %d", phase)
	}
	if phase < b.Phase() {
		return fmt.Errorf("avrswap: call phase cannot move from %d back to %d", b.Phase(), phase)
	}
	b.data[SlotStatus.Index] = float32(phase)
	return nil
}
