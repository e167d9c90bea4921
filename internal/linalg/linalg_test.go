package linalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symten-ml/symten/internal/bond"
	"github.com/symten-ml/symten/internal/tensor"
	"github.com/symten-ml/symten/internal/uniten"
)

func matrix(t *testing.T, data []float64, rows, cols int, labels ...int) *uniten.UniTensor {
	t.Helper()
	raw, err := tensor.FromFloat64(data, tensor.Shape{rows, cols})
	require.NoError(t, err)
	b0, err := bond.New(rows)
	require.NoError(t, err)
	b1, err := bond.New(cols)
	require.NoError(t, err)
	opts := []uniten.Option{}
	if len(labels) > 0 {
		opts = append(opts, uniten.WithLabels(labels...))
	}
	u, err := uniten.FromRaw(raw, []*bond.Bond{b0, b1}, 1, opts...)
	require.NoError(t, err)
	return u
}

func assertClose(t *testing.T, a, b *uniten.UniTensor, tol float64) {
	t.Helper()
	require.Equal(t, a.Shape(), b.Shape())
	shape := a.Shape()
	for i := 0; i < shape[0]; i++ {
		for j := 0; j < shape[1]; j++ {
			av, err := a.At(i, j)
			require.NoError(t, err)
			bv, err := b.At(i, j)
			require.NoError(t, err)
			assert.InDelta(t, av, bv, tol, "element (%d, %d)", i, j)
		}
	}
}

func TestSvdReconstructs(t *testing.T) {
	a := matrix(t, []float64{4, 0, 3, -5, 1, 2}, 3, 2, 7, 8)
	u, s, v, err := Svd(a)
	require.NoError(t, err)

	assert.Equal(t, []int{7, -1}, u.Labels())
	assert.Equal(t, []int{-1, -2}, s.Labels())
	assert.Equal(t, []int{-2, 8}, v.Labels())
	assert.Equal(t, uniten.DiagMode, s.Mode())

	us, err := Matmul(u, s)
	require.NoError(t, err)
	usv, err := Matmul(us, v)
	require.NoError(t, err)
	assertClose(t, a, usv, 1e-8)
}

func TestSvdFreshLabelsAvoidNegatives(t *testing.T) {
	a := matrix(t, []float64{1, 0, 0, 1}, 2, 2, -4, 2)
	u, s, v, err := Svd(a)
	require.NoError(t, err)
	assert.Equal(t, []int{-4, -5}, u.Labels())
	assert.Equal(t, []int{-5, -6}, s.Labels())
	assert.Equal(t, []int{-6, 2}, v.Labels())
}

func TestSvdRejectsSymmetric(t *testing.T) {
	b0, err := bond.NewSym(2, [][]int{{0}, {1}})
	require.NoError(t, err)
	a, err := uniten.New([]*bond.Bond{b0, b0.Clone()}, 1)
	require.NoError(t, err)
	_, _, _, err = Svd(a)
	assert.ErrorIs(t, err, ErrNotMatrix)
}

func TestSvdTruncate(t *testing.T) {
	a := matrix(t, []float64{
		10, 0, 0,
		0, 5, 0,
		0, 0, 0.001,
	}, 3, 3)
	u, s, v, err := SvdTruncate(a, 2)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 2}, u.Shape())
	assert.Equal(t, tensor.Shape{2, 2}, s.Shape())
	assert.Equal(t, tensor.Shape{2, 3}, v.Shape())

	sv, err := s.At(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 10, sv, 1e-8)
	sv, err = s.At(1, 1)
	require.NoError(t, err)
	assert.InDelta(t, 5, sv, 1e-8)
}

func TestQrReconstructs(t *testing.T) {
	a := matrix(t, []float64{12, -51, 4, 6, 167, -68, -4, 24, -41}, 3, 3, 1, 2)
	q, r, err := Qr(a)
	require.NoError(t, err)
	assert.Equal(t, []int{1, -1}, q.Labels())
	assert.Equal(t, []int{-1, 2}, r.Labels())

	qr, err := Matmul(q, r)
	require.NoError(t, err)
	assertClose(t, a, qr, 1e-8)
}

func TestDet(t *testing.T) {
	a := matrix(t, []float64{1, 2, 3, 4}, 2, 2)
	det, err := Det(a)
	require.NoError(t, err)
	assert.InDelta(t, -2, det, 1e-12)
}

func TestDetDiag(t *testing.T) {
	b0, err := bond.New(3)
	require.NoError(t, err)
	d, err := uniten.New([]*bond.Bond{b0, b0.Clone()}, 1, uniten.AsDiag())
	require.NoError(t, err)
	for i, v := range []float64{2, 3, 4} {
		require.NoError(t, d.SetElem(v, i, i))
	}
	det, err := Det(d)
	require.NoError(t, err)
	assert.Equal(t, 24.0, det)
}

func TestInverse(t *testing.T) {
	a := matrix(t, []float64{4, 7, 2, 6}, 2, 2, 3, 9)
	inv, err := Inverse(a)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 9}, inv.Labels())

	// Relabel so the chain a -> inv reads left to right.
	require.NoError(t, inv.SetLabels([]int{9, 5}))
	eye, err := Matmul(a, inv)
	require.NoError(t, err)
	want := matrix(t, []float64{1, 0, 0, 1}, 2, 2)
	assertClose(t, want, eye, 1e-9)
}

func TestInverseDiag(t *testing.T) {
	b0, err := bond.New(2)
	require.NoError(t, err)
	d, err := uniten.New([]*bond.Bond{b0, b0.Clone()}, 1, uniten.AsDiag())
	require.NoError(t, err)
	require.NoError(t, d.SetElem(2, 0, 0))
	require.NoError(t, d.SetElem(4, 1, 1))

	inv, err := Inverse(d)
	require.NoError(t, err)
	assert.Equal(t, uniten.DiagMode, inv.Mode())
	v, err := inv.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.25, v)
}

func TestInverseDiagSingular(t *testing.T) {
	b0, err := bond.New(2)
	require.NoError(t, err)
	d, err := uniten.New([]*bond.Bond{b0, b0.Clone()}, 1, uniten.AsDiag())
	require.NoError(t, err)
	_, err = Inverse(d)
	assert.ErrorIs(t, err, ErrSingular)
}

func TestNorm(t *testing.T) {
	a := matrix(t, []float64{3, 4, 0, 0}, 2, 2)
	assert.InDelta(t, 5, Norm(a), 1e-12)
}

func TestNormBlockForm(t *testing.T) {
	mk := func(qnums ...int) *bond.Bond {
		rows := make([][]int, len(qnums))
		for i, q := range qnums {
			rows[i] = []int{q}
		}
		b, err := bond.NewSym(len(qnums), rows)
		require.NoError(t, err)
		return b
	}
	u, err := uniten.New([]*bond.Bond{mk(0, 1), mk(0, 1)}, 1, uniten.AsBlockForm())
	require.NoError(t, err)

	blk := matrix(t, []float64{3}, 1, 1)
	require.NoError(t, u.PutBlock(blk, 0))
	blk2 := matrix(t, []float64{4}, 1, 1)
	require.NoError(t, u.PutBlock(blk2, 1))

	assert.InDelta(t, 5, Norm(u), 1e-12)
}

func TestMatmulDiagDiag(t *testing.T) {
	b0, err := bond.New(2)
	require.NoError(t, err)
	mkDiag := func(v0, v1 float64, l0, l1 int) *uniten.UniTensor {
		d, err := uniten.New([]*bond.Bond{b0.Clone(), b0.Clone()}, 1,
			uniten.AsDiag(), uniten.WithLabels(l0, l1))
		require.NoError(t, err)
		require.NoError(t, d.SetElem(v0, 0, 0))
		require.NoError(t, d.SetElem(v1, 1, 1))
		return d
	}
	a := mkDiag(2, 3, 0, 1)
	b := mkDiag(5, 7, 1, 2)

	c, err := Matmul(a, b)
	require.NoError(t, err)
	assert.Equal(t, uniten.DiagMode, c.Mode())
	assert.Equal(t, []int{0, 2}, c.Labels())
	v, err := c.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 21.0, v)
}

func TestMatmulDiagDense(t *testing.T) {
	b0, err := bond.New(2)
	require.NoError(t, err)
	d, err := uniten.New([]*bond.Bond{b0.Clone(), b0.Clone()}, 1,
		uniten.AsDiag(), uniten.WithLabels(0, 1))
	require.NoError(t, err)
	require.NoError(t, d.SetElem(2, 0, 0))
	require.NoError(t, d.SetElem(3, 1, 1))

	a := matrix(t, []float64{1, 2, 3, 4}, 2, 2, 1, 2)
	c, err := Matmul(d, a)
	require.NoError(t, err)
	want := matrix(t, []float64{2, 4, 9, 12}, 2, 2)
	assertClose(t, want, c, 1e-12)
}

func TestChainMatmul(t *testing.T) {
	a := matrix(t, []float64{1, 2, 3, 4}, 2, 2, 0, 1)
	b := matrix(t, []float64{1, 0, 0, 1}, 2, 2, 1, 2)
	c := matrix(t, []float64{2, 0, 0, 2}, 2, 2, 2, 3)

	out, err := ChainMatmul(a, b, c)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3}, out.Labels())
	want := matrix(t, []float64{2, 4, 6, 8}, 2, 2)
	assertClose(t, want, out, 1e-12)

	_, err = ChainMatmul()
	assert.Error(t, err)
}
