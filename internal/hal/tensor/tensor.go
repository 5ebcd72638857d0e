// Package tensor defines the tensor arithmetic capability: a shape-and-kind
// typed byte buffer and an operations interface with a CPU reference
// implementation.
//
// A tensor's buffer length is always product(shape) * element size; the
// constructors enforce it and no operation can produce a mismatched buffer.
// Elements are encoded little-endian. Integer addition wraps at the native
// width of the element kind; F32 addition is IEEE-754 single precision with
// standard rounding.
package tensor

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Kind enumerates the supported element kinds.
type Kind int

const (
	F32 Kind = iota
	I32
	U8
)

// ErrUnsupportedKind reports an element kind outside the supported set.
var ErrUnsupportedKind = errors.New("unsupported element kind")

// maxKindSize is the widest element in bytes, used to bound shape products.
const maxKindSize = 4

// Size returns the element width in bytes, or 0 for an unknown kind.
func (k Kind) Size() int {
	switch k {
	case F32, I32:
		return 4
	case U8:
		return 1
	default:
		return 0
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case F32:
		return "f32"
	case I32:
		return "i32"
	case U8:
		return "u8"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a command argument into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "f32":
		return F32, nil
	case "i32":
		return I32, nil
	case "u8":
		return U8, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
	}
}

// ShapeError reports an element-wise operation over tensors of different
// shapes.
type ShapeError struct {
	A, B []int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("tensor shape mismatch: %v vs %v", e.A, e.B)
}

// KindError reports an element-wise operation over tensors of different
// element kinds.
type KindError struct {
	A, B Kind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("tensor element kind mismatch: %s vs %s", e.A, e.B)
}

// Tensor is a multi-dimensional array backed by a raw little-endian byte
// buffer. The zero value is not usable; construct tensors through Zeros or
// the FromXxx helpers so the buffer invariant holds.
type Tensor struct {
	shape []int
	kind  Kind
	data  []byte
}

func checkShape(shape []int) error {
	if len(shape) == 0 {
		return errors.New("tensor shape must have at least one dimension")
	}
	n := 1
	for _, dim := range shape {
		if dim <= 0 {
			return fmt.Errorf("tensor dimensions must be positive, got %v", shape)
		}
		// The element count and the byte length derived from it must stay
		// representable, or the buffer invariant silently breaks.
		if n > (math.MaxInt/maxKindSize)/dim {
			return fmt.Errorf("tensor shape %v is too large", shape)
		}
		n *= dim
	}
	return nil
}

func numElements(shape []int) int {
	n := 1
	for _, dim := range shape {
		n *= dim
	}
	return n
}

// Zeros creates a zero-filled tensor of the given shape and kind.
func Zeros(shape []int, kind Kind) (*Tensor, error) {
	if err := checkShape(shape); err != nil {
		return nil, err
	}
	if kind.Size() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
	return &Tensor{
		shape: append([]int(nil), shape...),
		kind:  kind,
		data:  make([]byte, numElements(shape)*kind.Size()),
	}, nil
}

// FromF32 creates an F32 tensor holding the given values.
func FromF32(shape []int, values []float32) (*Tensor, error) {
	t, err := Zeros(shape, F32)
	if err != nil {
		return nil, err
	}
	if len(values) != t.NumElements() {
		return nil, fmt.Errorf("shape %v needs %d values, got %d", shape, t.NumElements(), len(values))
	}
	for i, v := range values {
		binary.LittleEndian.PutUint32(t.data[i*4:], math.Float32bits(v))
	}
	return t, nil
}

// FromI32 creates an I32 tensor holding the given values.
func FromI32(shape []int, values []int32) (*Tensor, error) {
	t, err := Zeros(shape, I32)
	if err != nil {
		return nil, err
	}
	if len(values) != t.NumElements() {
		return nil, fmt.Errorf("shape %v needs %d values, got %d", shape, t.NumElements(), len(values))
	}
	for i, v := range values {
		binary.LittleEndian.PutUint32(t.data[i*4:], uint32(v))
	}
	return t, nil
}

// FromU8 creates a U8 tensor holding the given values.
func FromU8(shape []int, values []uint8) (*Tensor, error) {
	t, err := Zeros(shape, U8)
	if err != nil {
		return nil, err
	}
	if len(values) != t.NumElements() {
		return nil, fmt.Errorf("shape %v needs %d values, got %d", shape, t.NumElements(), len(values))
	}
	copy(t.data, values)
	return t, nil
}

// Shape returns a copy of the tensor's dimensions.
func (t *Tensor) Shape() []int {
	return append([]int(nil), t.shape...)
}

// Kind returns the element kind.
func (t *Tensor) Kind() Kind {
	return t.kind
}

// NumElements returns the total element count.
func (t *Tensor) NumElements() int {
	return numElements(t.shape)
}

// ByteLen returns the buffer length in bytes.
func (t *Tensor) ByteLen() int {
	return len(t.data)
}

// F32s decodes the buffer as float32 values.
func (t *Tensor) F32s() ([]float32, error) {
	if t.kind != F32 {
		return nil, fmt.Errorf("%w: tensor is %s, not f32", ErrUnsupportedKind, t.kind)
	}
	out := make([]float32, t.NumElements())
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(t.data[i*4:]))
	}
	return out, nil
}

// I32s decodes the buffer as int32 values.
func (t *Tensor) I32s() ([]int32, error) {
	if t.kind != I32 {
		return nil, fmt.Errorf("%w: tensor is %s, not i32", ErrUnsupportedKind, t.kind)
	}
	out := make([]int32, t.NumElements())
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(t.data[i*4:]))
	}
	return out, nil
}

// U8s decodes the buffer as uint8 values.
func (t *Tensor) U8s() ([]uint8, error) {
	if t.kind != U8 {
		return nil, fmt.Errorf("%w: tensor is %s, not u8", ErrUnsupportedKind, t.kind)
	}
	return append([]uint8(nil), t.data...), nil
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
