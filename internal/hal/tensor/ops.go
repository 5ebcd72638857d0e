package tensor

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Ops is the tensor arithmetic capability. Implementations own no shared
// mutable state and may be called from concurrent callers without
// synchronization.
type Ops interface {
	// Add performs element-wise addition. Both operands must share shape
	// and element kind.
	Add(a, b *Tensor) (*Tensor, error)
	// Zeros creates a zero-filled tensor of the given shape and kind.
	Zeros(shape []int, kind Kind) (*Tensor, error)
}

// CPU is the CPU-bound reference implementation of Ops.
type CPU struct{}

// NewCPU creates a CPU tensor backend.
func NewCPU() *CPU {
	return &CPU{}
}

// Zeros implements Ops.
func (*CPU) Zeros(shape []int, kind Kind) (*Tensor, error) {
	return Zeros(shape, kind)
}

// Add implements Ops. No partial result is ever produced: validation
// completes before the output tensor is allocated.
func (*CPU) Add(a, b *Tensor) (*Tensor, error) {
	if !sameShape(a.shape, b.shape) {
		return nil, &ShapeError{A: a.Shape(), B: b.Shape()}
	}
	if a.kind != b.kind {
		return nil, &KindError{A: a.kind, B: b.kind}
	}

	out, err := Zeros(a.shape, a.kind)
	if err != nil {
		return nil, err
	}

	switch a.kind {
	case F32:
		for i := 0; i < out.NumElements(); i++ {
			av := math.Float32frombits(binary.LittleEndian.Uint32(a.data[i*4:]))
			bv := math.Float32frombits(binary.LittleEndian.Uint32(b.data[i*4:]))
			binary.LittleEndian.PutUint32(out.data[i*4:], math.Float32bits(av+bv))
		}
	case I32:
		// Two's-complement wrap-around at 32 bits.
		for i := 0; i < out.NumElements(); i++ {
			av := int32(binary.LittleEndian.Uint32(a.data[i*4:]))
			bv := int32(binary.LittleEndian.Uint32(b.data[i*4:]))
			binary.LittleEndian.PutUint32(out.data[i*4:], uint32(av+bv))
		}
	case U8:
		// Wrap-around at 8 bits.
		for i := range out.data {
			out.data[i] = a.data[i] + b.data[i]
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, a.kind)
	}

	return out, nil
}
