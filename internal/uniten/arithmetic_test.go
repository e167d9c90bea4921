package uniten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSubMulDiv(t *testing.T) {
	a := sequential(t, []int{2, 2}, 1) // 0 1 2 3
	b := a.AddScalar(1)                // 1 2 3 4

	sum, err := Add(a, b)
	require.NoError(t, err)
	v, _ := sum.At(1, 1)
	assert.Equal(t, 7.0, v)

	diff, err := Sub(b, a)
	require.NoError(t, err)
	v, _ = diff.At(1, 0)
	assert.Equal(t, 1.0, v)

	prod, err := Mul(a, b)
	require.NoError(t, err)
	v, _ = prod.At(1, 1)
	assert.Equal(t, 12.0, v)

	quot, err := Div(a, b)
	require.NoError(t, err)
	v, _ = quot.At(0, 1)
	assert.Equal(t, 0.5, v)
}

func TestScalarOps(t *testing.T) {
	a := sequential(t, []int{3}, 1)
	v, _ := a.MulScalar(2).At(2)
	assert.Equal(t, 4.0, v)
	v, _ = a.SubScalar(1).At(0)
	assert.Equal(t, -1.0, v)
	v, _ = a.DivScalar(2).At(1)
	assert.Equal(t, 0.5, v)

	// Operand untouched.
	v, _ = a.At(2)
	assert.Equal(t, 2.0, v)
}

func TestArithmeticBondMismatch(t *testing.T) {
	a := sequential(t, []int{2, 2}, 1)
	b := sequential(t, []int{2, 3}, 1)
	_, err := Add(a, b)
	assert.ErrorIs(t, err, ErrBondMismatch)

	c := sequential(t, []int{2, 2}, 2)
	_, err = Add(a, c)
	assert.ErrorIs(t, err, ErrBondMismatch)
}

func TestArithmeticDiag(t *testing.T) {
	d1, err := New(plainBonds(t, 2, 2), 1, AsDiag())
	require.NoError(t, err)
	require.NoError(t, d1.SetElem(3, 0, 0))
	require.NoError(t, d1.SetElem(4, 1, 1))

	sum, err := Add(d1, d1)
	require.NoError(t, err)
	assert.Equal(t, DiagMode, sum.Mode())
	v, _ := sum.At(1, 1)
	assert.Equal(t, 8.0, v)
}

func TestArithmeticDiagDenseWidens(t *testing.T) {
	d, err := New(plainBonds(t, 2, 2), 1, AsDiag())
	require.NoError(t, err)
	require.NoError(t, d.SetElem(5, 0, 0))

	a := sequential(t, []int{2, 2}, 1)
	sum, err := Add(d, a)
	require.NoError(t, err)
	assert.Equal(t, DenseMode, sum.Mode())

	v, _ := sum.At(0, 0)
	assert.Equal(t, 5.0, v)
	v, _ = sum.At(0, 1)
	assert.Equal(t, 1.0, v)
}

func TestArithmeticBlockForm(t *testing.T) {
	a, err := New(abcBonds(t), 2, AsBlockForm())
	require.NoError(t, err)
	in := denseBlock(t, []float64{1, 2, 3}, 3, 1)
	require.NoError(t, a.PutBlock(in, 2))

	doubled, err := Add(a, a)
	require.NoError(t, err)
	assert.Equal(t, BlockMode, doubled.Mode())

	blk, err := doubled.GetBlock(2)
	require.NoError(t, err)
	v, _ := blk.At(2, 0)
	assert.Equal(t, 6.0, v)
}

func TestArithmeticBlockDenseMixFails(t *testing.T) {
	a, err := New(abcBonds(t), 2, AsBlockForm())
	require.NoError(t, err)
	// Same bonds (block-form construction normalized them), dense storage.
	b, err := New(a.Bonds(), 2)
	require.NoError(t, err)
	_, err = Add(a, b)
	assert.ErrorIs(t, err, ErrStorageMismatch)
}

func TestScalarOpsBlockForm(t *testing.T) {
	a, err := New(abcBonds(t), 2, AsBlockForm())
	require.NoError(t, err)
	shifted := a.AddScalar(1.5)

	blk, err := shifted.GetBlock(-1)
	require.NoError(t, err)
	v, _ := blk.At(0, 0)
	assert.Equal(t, 1.5, v)
}
