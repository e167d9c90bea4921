// Package bond implements tensor indices carrying U(1)-style quantum
// numbers. A Bond is an axis of known dimension; when symmetries are
// present it also carries, for each basis state, a vector of integer
// charges (one per symmetry channel).
package bond

import (
	"fmt"
	"sort"
)

// Bond is a tensor index. Dim is always positive. Qnums is either nil
// (no symmetry) or a Dim x Nsym matrix of per-state charges, stored
// row-major as one slice per basis state.
type Bond struct {
	dim   int
	qnums [][]int
}

// New creates a bond of the given dimension with no quantum numbers.
func New(dim int) (*Bond, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("bond dimension must be positive, got %d", dim)
	}
	return &Bond{dim: dim}, nil
}

// NewSym creates a bond whose basis states carry quantum numbers.
// qnums must have exactly dim rows, all of the same positive length.
func NewSym(dim int, qnums [][]int) (*Bond, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("bond dimension must be positive, got %d", dim)
	}
	if len(qnums) != dim {
		return nil, fmt.Errorf("got %d quantum number rows for dimension %d", len(qnums), dim)
	}
	nsym := len(qnums[0])
	if nsym == 0 {
		return nil, fmt.Errorf("quantum number rows must be non-empty")
	}
	cp := make([][]int, dim)
	for i, row := range qnums {
		if len(row) != nsym {
			return nil, fmt.Errorf("quantum number row %d has %d channels, row 0 has %d", i, len(row), nsym)
		}
		cp[i] = append([]int(nil), row...)
	}
	return &Bond{dim: dim, qnums: cp}, nil
}

// Dim returns the bond dimension.
func (b *Bond) Dim() int { return b.dim }

// Nsym returns the number of symmetry channels, 0 for a plain bond.
func (b *Bond) Nsym() int {
	if len(b.qnums) == 0 {
		return 0
	}
	return len(b.qnums[0])
}

// HasSym reports whether the bond carries quantum numbers.
func (b *Bond) HasSym() bool { return len(b.qnums) > 0 }

// Qnums returns a deep copy of the quantum number matrix, or nil.
func (b *Bond) Qnums() [][]int {
	if b.qnums == nil {
		return nil
	}
	cp := make([][]int, len(b.qnums))
	for i, row := range b.qnums {
		cp[i] = append([]int(nil), row...)
	}
	return cp
}

// Qnum returns the charge vector of basis state i without copying.
// Callers must not mutate the result.
func (b *Bond) Qnum(i int) []int { return b.qnums[i] }

// Clone returns a deep copy.
func (b *Bond) Clone() *Bond {
	return &Bond{dim: b.dim, qnums: b.Qnums()}
}

// Eq reports whether two bonds have the same dimension and identical
// quantum numbers.
func (b *Bond) Eq(other *Bond) bool {
	if b.dim != other.dim || len(b.qnums) != len(other.qnums) {
		return false
	}
	for i := range b.qnums {
		if !QnumEqual(b.qnums[i], other.qnums[i]) {
			return false
		}
	}
	return true
}

// Combine fuses b with others into a single bond via the Kronecker
// rule: the fused state (i, j) carries the channel-wise sum of the
// constituent charges, with earlier bonds varying slowest. All bonds
// must agree on symmetry presence and channel count.
func (b *Bond) Combine(others ...*Bond) (*Bond, error) {
	result := b.Clone()
	for _, o := range others {
		if result.HasSym() != o.HasSym() {
			return nil, fmt.Errorf("cannot combine a symmetric bond with a plain bond")
		}
		if result.HasSym() && result.Nsym() != o.Nsym() {
			return nil, fmt.Errorf("symmetry channel count mismatch: %d vs %d", result.Nsym(), o.Nsym())
		}
		dim := result.dim * o.dim
		var qnums [][]int
		if result.HasSym() {
			qnums = make([][]int, 0, dim)
			for _, qa := range result.qnums {
				for _, qb := range o.qnums {
					sum := make([]int, len(qa))
					for c := range qa {
						sum[c] = qa[c] + qb[c]
					}
					qnums = append(qnums, sum)
				}
			}
		}
		result = &Bond{dim: dim, qnums: qnums}
	}
	return result, nil
}

// Normalized returns a copy with quantum number rows sorted in
// descending lexicographic order, channel 0 most significant. Plain
// bonds are returned unchanged. This is the canonical state order used
// by block storage.
func (b *Bond) Normalized() *Bond {
	cp := b.Clone()
	if !cp.HasSym() {
		return cp
	}
	sort.SliceStable(cp.qnums, func(i, j int) bool {
		return QnumCompare(cp.qnums[i], cp.qnums[j]) > 0
	})
	return cp
}

// String renders the bond for diagnostics.
func (b *Bond) String() string {
	if !b.HasSym() {
		return fmt.Sprintf("Bond(dim=%d)", b.dim)
	}
	return fmt.Sprintf("Bond(dim=%d, nsym=%d, qnums=%v)", b.dim, b.Nsym(), b.qnums)
}
