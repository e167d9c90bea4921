package uniten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symten-ml/symten/internal/bond"
	"github.com/symten-ml/symten/internal/tensor"
)

func plainBonds(t *testing.T, dims ...int) []*bond.Bond {
	t.Helper()
	bonds := make([]*bond.Bond, len(dims))
	for i, d := range dims {
		b, err := bond.New(d)
		require.NoError(t, err)
		bonds[i] = b
	}
	return bonds
}

func symBond(t *testing.T, qnums ...int) *bond.Bond {
	t.Helper()
	rows := make([][]int, len(qnums))
	for i, q := range qnums {
		rows[i] = []int{q}
	}
	b, err := bond.NewSym(len(qnums), rows)
	require.NoError(t, err)
	return b
}

// abcBonds is the running three-bond example: in-bonds a, b and
// out-bond c with one symmetry channel.
func abcBonds(t *testing.T) []*bond.Bond {
	t.Helper()
	return []*bond.Bond{
		symBond(t, 0, 1, 2),
		symBond(t, -1, 2, 0, 2),
		symBond(t, 4, 2, -1, 5, 1),
	}
}

func TestNewDense(t *testing.T) {
	u, err := New(plainBonds(t, 2, 3, 4), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, u.Rank())
	assert.Equal(t, 2, u.NInbond())
	assert.Equal(t, []int{0, 1, 2}, u.Labels())
	assert.Equal(t, tensor.Shape{2, 3, 4}, u.Shape())
	assert.Equal(t, DenseMode, u.Mode())
	assert.Equal(t, tensor.Float64, u.DType())
	assert.False(t, u.Symmetric())

	v, err := u.At(1, 2, 3)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestNewValidation(t *testing.T) {
	bonds := plainBonds(t, 2, 3)

	_, err := New(bonds, 3)
	assert.ErrorIs(t, err, ErrInvalidInbond)

	_, err = New(bonds, 1, WithLabels(7))
	assert.ErrorIs(t, err, ErrLabelCount)

	_, err = New(bonds, 1, WithLabels(7, 7))
	assert.ErrorIs(t, err, ErrDuplicateLabel)

	_, err = New(bonds, 1, AsDiag(), AsBlockForm())
	assert.ErrorIs(t, err, ErrDiagBlockForm)
}

func TestNewMixedSymmetryFails(t *testing.T) {
	b0, err := bond.New(2)
	require.NoError(t, err)
	_, err = New([]*bond.Bond{b0, symBond(t, 0, 1)}, 1)
	assert.ErrorIs(t, err, ErrMixedSymmetry)
}

func TestNewChannelMismatchFails(t *testing.T) {
	two, err := bond.NewSym(2, [][]int{{0, 0}, {1, 1}})
	require.NoError(t, err)
	_, err = New([]*bond.Bond{symBond(t, 0, 1), two}, 1)
	assert.ErrorIs(t, err, ErrChannelMismatch)
}

func TestNewDiag(t *testing.T) {
	u, err := New(plainBonds(t, 3, 3), 1, AsDiag())
	require.NoError(t, err)
	assert.Equal(t, DiagMode, u.Mode())

	require.NoError(t, u.SetElem(2.5, 1, 1))
	v, err := u.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	v, err = u.At(0, 1)
	require.NoError(t, err)
	assert.Zero(t, v, "off-diagonal reads as zero")

	assert.ErrorIs(t, u.SetElem(1, 0, 1), ErrDiagOp)
}

func TestNewDiagValidation(t *testing.T) {
	_, err := New(plainBonds(t, 3, 4), 1, AsDiag())
	assert.ErrorIs(t, err, ErrDiagShape)

	_, err = New(plainBonds(t, 3, 3), 2, AsDiag())
	assert.ErrorIs(t, err, ErrDiagShape)

	_, err = New(plainBonds(t, 2, 3, 4), 1, AsDiag())
	assert.ErrorIs(t, err, ErrDiagShape)

	_, err = New([]*bond.Bond{symBond(t, 0, 1), symBond(t, 0, 1)}, 1, AsDiag())
	assert.ErrorIs(t, err, ErrDiagShape)
}

func TestNewBlockFormValidation(t *testing.T) {
	_, err := New(plainBonds(t, 2, 2), 1, AsBlockForm())
	assert.ErrorIs(t, err, ErrBlockFormBonds, "plain bonds")

	_, err = New(abcBonds(t), 0, AsBlockForm())
	assert.ErrorIs(t, err, ErrBlockFormBonds, "no in-bond")

	_, err = New(abcBonds(t), 3, AsBlockForm())
	assert.ErrorIs(t, err, ErrBlockFormBonds, "no out-bond")
}

func TestNewBlockFormEmptyIntersectionFails(t *testing.T) {
	bonds := []*bond.Bond{symBond(t, 0, 0), symBond(t, 5, 5)}
	_, err := New(bonds, 1, AsBlockForm())
	assert.ErrorIs(t, err, ErrNoSectors)
}

func TestFromRaw(t *testing.T) {
	raw, err := tensor.FromFloat64([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	require.NoError(t, err)
	u, err := FromRaw(raw, plainBonds(t, 2, 3), 1, WithLabels(4, 9))
	require.NoError(t, err)

	v, err := u.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)
}

func TestFromRawShapeMismatch(t *testing.T) {
	raw, err := tensor.FromFloat64([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)
	_, err = FromRaw(raw, plainBonds(t, 2, 3), 1)
	assert.Error(t, err)
}

func TestSetLabel(t *testing.T) {
	u, err := New(plainBonds(t, 2, 3), 1)
	require.NoError(t, err)

	require.NoError(t, u.SetLabel(0, -5))
	assert.Equal(t, []int{-5, 1}, u.Labels())

	assert.ErrorIs(t, u.SetLabel(0, 1), ErrLabelInUse)
	assert.Error(t, u.SetLabel(5, 9))

	require.NoError(t, u.SetLabels([]int{10, 20}))
	assert.Equal(t, []int{10, 20}, u.Labels())
	assert.ErrorIs(t, u.SetLabels([]int{10, 10}), ErrDuplicateLabel)
	assert.ErrorIs(t, u.SetLabels([]int{10}), ErrLabelCount)
}

func TestCloneIsIndependent(t *testing.T) {
	u, err := New(plainBonds(t, 2, 2), 1)
	require.NoError(t, err)
	require.NoError(t, u.SetElem(7, 0, 0))

	cp := u.Clone()
	require.NoError(t, cp.SetElem(9, 0, 0))

	v, err := u.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
	assert.False(t, u.Eq(cp))
}

func TestEq(t *testing.T) {
	u, err := New(plainBonds(t, 2, 2), 1, WithLabels(3, 4))
	require.NoError(t, err)
	assert.True(t, u.Eq(u.Clone()))

	w, err := New(plainBonds(t, 2, 2), 1, WithLabels(3, 5))
	require.NoError(t, err)
	assert.False(t, u.Eq(w))
}

func TestRandPopulates(t *testing.T) {
	u, err := New(abcBonds(t), 2, AsBlockForm())
	require.NoError(t, err)
	require.NoError(t, u.Rand())

	blocks := u.Storage().(*Blocks)
	var nonzero int
	for _, blk := range blocks.Data {
		for i := 0; i < blk.NumElements(); i++ {
			if blk.At(i) != 0 {
				nonzero++
			}
		}
	}
	assert.Positive(t, nonzero)
}

func TestRandRejectsDenseSymmetric(t *testing.T) {
	u, err := New(abcBonds(t), 2)
	require.NoError(t, err)
	assert.ErrorIs(t, u.Rand(), ErrSymmetricOp)

	// Element (0, 0, 0) has in-qnum -1 and out-qnum 4, which belongs
	// to no allowed sector; it must stay zero.
	v, err := u.At(0, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestElementAccessOnBlockFormFails(t *testing.T) {
	u, err := New(abcBonds(t), 2, AsBlockForm())
	require.NoError(t, err)

	_, err = u.At(0, 0, 0)
	assert.ErrorIs(t, err, ErrElementOnBlockForm)
	assert.ErrorIs(t, u.SetElem(1, 0, 0, 0), ErrElementOnBlockForm)
}

func TestStringAndDiagram(t *testing.T) {
	u, err := New(plainBonds(t, 2, 3, 4), 2, WithName("theta"))
	require.NoError(t, err)
	assert.Contains(t, u.String(), "theta")
	assert.Contains(t, u.String(), "n_inbond=2")

	d := u.Diagram()
	assert.Contains(t, d, "theta")
	assert.Contains(t, d, "dense")
}
