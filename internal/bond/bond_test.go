package bond

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	b, err := New(3)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Dim())
	assert.False(t, b.HasSym())
	assert.Equal(t, 0, b.Nsym())
	assert.Nil(t, b.Qnums())
}

func TestNewRejectsNonPositiveDim(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)
	_, err = New(-2)
	assert.Error(t, err)
}

func TestNewSym(t *testing.T) {
	b, err := NewSym(3, [][]int{{0}, {1}, {2}})
	require.NoError(t, err)
	assert.Equal(t, 3, b.Dim())
	assert.True(t, b.HasSym())
	assert.Equal(t, 1, b.Nsym())
	assert.Equal(t, [][]int{{0}, {1}, {2}}, b.Qnums())
}

func TestNewSymValidation(t *testing.T) {
	_, err := NewSym(2, [][]int{{0}})
	assert.Error(t, err, "row count must match dim")

	_, err = NewSym(2, [][]int{{0, 1}, {0}})
	assert.Error(t, err, "ragged rows")

	_, err = NewSym(1, [][]int{{}})
	assert.Error(t, err, "empty channel vector")
}

func TestQnumsIsDeepCopy(t *testing.T) {
	b, err := NewSym(2, [][]int{{1}, {2}})
	require.NoError(t, err)
	q := b.Qnums()
	q[0][0] = 99
	assert.Equal(t, [][]int{{1}, {2}}, b.Qnums())
}

func TestCombineKronecker(t *testing.T) {
	a, err := NewSym(2, [][]int{{0}, {1}})
	require.NoError(t, err)
	b, err := NewSym(3, [][]int{{-1}, {0}, {2}})
	require.NoError(t, err)

	c, err := a.Combine(b)
	require.NoError(t, err)
	assert.Equal(t, 6, c.Dim())
	// Earlier bond varies slowest.
	want := [][]int{{-1}, {0}, {2}, {0}, {1}, {3}}
	assert.Empty(t, cmp.Diff(want, c.Qnums()))
}

func TestCombineLeftAssociative(t *testing.T) {
	a, _ := NewSym(2, [][]int{{0}, {1}})
	b, _ := NewSym(2, [][]int{{0}, {2}})
	c, _ := NewSym(2, [][]int{{0}, {4}})

	viaChain, err := a.Combine(b, c)
	require.NoError(t, err)

	ab, err := a.Combine(b)
	require.NoError(t, err)
	viaSteps, err := ab.Combine(c)
	require.NoError(t, err)

	assert.True(t, viaChain.Eq(viaSteps))
}

func TestCombinePlain(t *testing.T) {
	a, _ := New(2)
	b, _ := New(3)
	c, err := a.Combine(b)
	require.NoError(t, err)
	assert.Equal(t, 6, c.Dim())
	assert.False(t, c.HasSym())
}

func TestCombineMixedFails(t *testing.T) {
	a, _ := New(2)
	b, _ := NewSym(2, [][]int{{0}, {1}})
	_, err := a.Combine(b)
	assert.Error(t, err)
}

func TestCombineChannelMismatchFails(t *testing.T) {
	a, _ := NewSym(2, [][]int{{0}, {1}})
	b, _ := NewSym(2, [][]int{{0, 0}, {1, 1}})
	_, err := a.Combine(b)
	assert.Error(t, err)
}

func TestNormalized(t *testing.T) {
	b, err := NewSym(4, [][]int{{-1}, {2}, {0}, {2}})
	require.NoError(t, err)
	n := b.Normalized()
	assert.Equal(t, [][]int{{2}, {2}, {0}, {-1}}, n.Qnums())
	// Original untouched.
	assert.Equal(t, [][]int{{-1}, {2}, {0}, {2}}, b.Qnums())
}

func TestNormalizedMultiChannel(t *testing.T) {
	b, err := NewSym(3, [][]int{{1, -1}, {1, 2}, {0, 5}})
	require.NoError(t, err)
	n := b.Normalized()
	// Channel 0 most significant, then channel 1.
	assert.Equal(t, [][]int{{1, 2}, {1, -1}, {0, 5}}, n.Qnums())
}

func TestEq(t *testing.T) {
	a, _ := NewSym(2, [][]int{{0}, {1}})
	b, _ := NewSym(2, [][]int{{0}, {1}})
	c, _ := NewSym(2, [][]int{{0}, {2}})
	d, _ := New(2)

	assert.True(t, a.Eq(b))
	assert.False(t, a.Eq(c))
	assert.False(t, a.Eq(d))
}

func TestUniqueQnums(t *testing.T) {
	got := UniqueQnums([][]int{{2}, {0}, {2}, {-1}, {0}})
	assert.Equal(t, [][]int{{2}, {0}, {-1}}, got)
}

func TestCommonRows(t *testing.T) {
	a := [][]int{{4}, {2}, {1}, {-1}}
	b := [][]int{{5}, {4}, {2}, {1}, {-1}, {3}}
	got := CommonRows(a, b)
	assert.Equal(t, [][]int{{4}, {2}, {1}, {-1}}, got)

	assert.Empty(t, CommonRows([][]int{{7}}, [][]int{{8}}))
}

func TestRowsMatching(t *testing.T) {
	qs := [][]int{{2}, {0}, {2}, {-1}}
	assert.Equal(t, []int{0, 2}, RowsMatching(qs, []int{2}))
	assert.Nil(t, RowsMatching(qs, []int{9}))
}

func TestQnumCompare(t *testing.T) {
	assert.Equal(t, 1, QnumCompare([]int{1, 0}, []int{0, 9}))
	assert.Equal(t, -1, QnumCompare([]int{0, 1}, []int{0, 2}))
	assert.Equal(t, 0, QnumCompare([]int{3, 3}, []int{3, 3}))
}
