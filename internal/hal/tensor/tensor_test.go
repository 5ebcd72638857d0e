package tensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerosBufferInvariant(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		shape   []int
		kind    Kind
		byteLen int
	}{
		{[]int{2, 3}, F32, 24},
		{[]int{2, 3}, I32, 24},
		{[]int{2, 3}, U8, 6},
		{[]int{5}, F32, 20},
		{[]int{1, 1, 1}, U8, 1},
	} {
		tensor, err := Zeros(tc.shape, tc.kind)
		require.NoError(t, err)
		assert.Equal(t, tc.byteLen, tensor.ByteLen(), "shape %v kind %s", tc.shape, tc.kind)
		assert.Equal(t, tc.shape, tensor.Shape())
		assert.Equal(t, tc.kind, tensor.Kind())
	}
}

func TestZerosRejectsInvalidShape(t *testing.T) {
	t.Parallel()

	for _, shape := range [][]int{nil, {}, {0}, {-1}, {2, 0, 3}} {
		_, err := Zeros(shape, F32)
		assert.Error(t, err, "shape %v", shape)
	}
}

func TestZerosRejectsOverflowingShape(t *testing.T) {
	t.Parallel()

	// product(shape) wraps the int range; a successful allocation here would
	// produce a buffer shorter than product(shape) * element size.
	for _, shape := range [][]int{
		{3037000500, 3037000500},
		{math.MaxInt, 2},
		{math.MaxInt / 2, math.MaxInt / 2, math.MaxInt / 2},
	} {
		_, err := Zeros(shape, I32)
		assert.Error(t, err, "shape %v", shape)
	}
}

func TestAddF32(t *testing.T) {
	t.Parallel()

	ops := NewCPU()
	a, err := FromF32([]int{2, 2}, []float32{1, 2, 3, 4})
	require.NoError(t, err)
	b, err := FromF32([]int{2, 2}, []float32{10, 20, 30, 40})
	require.NoError(t, err)

	sum, err := ops.Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, sum.Shape())
	assert.Equal(t, F32, sum.Kind())

	values, err := sum.F32s()
	require.NoError(t, err)
	assert.Equal(t, []float32{11, 22, 33, 44}, values)
}

func TestAddI32WrapsAtNativeWidth(t *testing.T) {
	t.Parallel()

	ops := NewCPU()
	a, err := FromI32([]int{2}, []int32{math.MaxInt32, -5})
	require.NoError(t, err)
	b, err := FromI32([]int{2}, []int32{1, 2})
	require.NoError(t, err)

	sum, err := ops.Add(a, b)
	require.NoError(t, err)

	values, err := sum.I32s()
	require.NoError(t, err)
	assert.Equal(t, []int32{math.MinInt32, -3}, values)
}

func TestAddU8Wraps(t *testing.T) {
	t.Parallel()

	ops := NewCPU()
	a, err := FromU8([]int{3}, []uint8{250, 1, 100})
	require.NoError(t, err)
	b, err := FromU8([]int{3}, []uint8{10, 2, 100})
	require.NoError(t, err)

	sum, err := ops.Add(a, b)
	require.NoError(t, err)

	values, err := sum.U8s()
	require.NoError(t, err)
	assert.Equal(t, []uint8{4, 3, 200}, values)
}

func TestAddShapeMismatch(t *testing.T) {
	t.Parallel()

	ops := NewCPU()
	a, err := Zeros([]int{2, 2}, F32)
	require.NoError(t, err)
	b, err := Zeros([]int{3}, F32)
	require.NoError(t, err)

	_, err = ops.Add(a, b)
	require.Error(t, err)

	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, []int{2, 2}, shapeErr.A)
	assert.Equal(t, []int{3}, shapeErr.B)
}

func TestAddKindMismatch(t *testing.T) {
	t.Parallel()

	ops := NewCPU()
	a, err := Zeros([]int{2}, F32)
	require.NoError(t, err)
	b, err := Zeros([]int{2}, I32)
	require.NoError(t, err)

	_, err = ops.Add(a, b)
	require.Error(t, err)

	var kindErr *KindError
	require.ErrorAs(t, err, &kindErr)
}

func TestFromValuesLengthChecked(t *testing.T) {
	t.Parallel()

	_, err := FromF32([]int{2, 2}, []float32{1, 2, 3})
	assert.Error(t, err)

	_, err = FromU8([]int{2}, []uint8{1, 2, 3})
	assert.Error(t, err)
}

func TestDecodeWrongKind(t *testing.T) {
	t.Parallel()

	tensor, err := Zeros([]int{2}, F32)
	require.NoError(t, err)

	_, err = tensor.I32s()
	assert.ErrorIs(t, err, ErrUnsupportedKind)
	_, err = tensor.U8s()
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for s, want := range map[string]Kind{"f32": F32, "i32": I32, "u8": U8} {
		got, err := ParseKind(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseKind("f64")
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}
