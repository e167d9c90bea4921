package uniten

import (
	"fmt"
	"sort"

	"github.com/symten-ml/symten/internal/bond"
)

// Contract multiplies a and b over every label they share, in the
// order the labels appear on a. With no shared label the result is the
// outer product. Surviving axes keep a-before-b order, then in-bonds
// are moved before out-bonds with a stable re-sort; the in-bond count
// of the result is the number of surviving axes that sat on the in
// side of their origin tensor.
func Contract(a, b *UniTensor) (*UniTensor, error) {
	if a.Mode() == BlockMode || b.Mode() == BlockMode {
		return nil, fmt.Errorf("%w: Contract", ErrBlockFormOp)
	}

	if a.dtype != b.dtype {
		return nil, fmt.Errorf("%w: %s vs %s", ErrStorageMismatch, a.dtype, b.dtype)
	}

	common := commonLabels(a.labels, b.labels)
	if len(common) > 0 && a.Symmetric() != b.Symmetric() {
		return nil, ErrSymmetryMismatch
	}

	// A diagonal operand contributes its dense square equivalent.
	da, db := a, b
	if da.Mode() == DiagMode {
		da = da.ToDense()
	}
	if db.Mode() == DiagMode {
		db = db.ToDense()
	}

	axesA := make([]int, len(common))
	axesB := make([]int, len(common))
	for i, l := range common {
		ia, _ := da.labelIndex(l)
		ib, _ := db.labelIndex(l)
		axesA[i], axesB[i] = ia, ib

		ba, bb := da.bonds[ia], db.bonds[ib]
		if ba.Dim() != bb.Dim() {
			return nil, fmt.Errorf("%w: label %d has dims %d and %d", ErrBondMismatch, l, ba.Dim(), bb.Dim())
		}
		if ba.HasSym() && !ba.Eq(bb) {
			return nil, fmt.Errorf("%w: label %d", ErrQnumMismatch, l)
		}
	}

	type axis struct {
		b     *bond.Bond
		label int
		in    bool
	}
	var axes []axis
	for i := range da.bonds {
		if containsInt(axesA, i) {
			continue
		}
		axes = append(axes, axis{da.bonds[i].Clone(), da.labels[i], i < da.nIn})
	}
	for i := range db.bonds {
		if containsInt(axesB, i) {
			continue
		}
		axes = append(axes, axis{db.bonds[i].Clone(), db.labels[i], i < db.nIn})
	}
	for i := range axes {
		for j := i + 1; j < len(axes); j++ {
			if axes[i].label == axes[j].label {
				return nil, fmt.Errorf("%w: %d survives on both operands", ErrDuplicateLabel, axes[i].label)
			}
		}
	}

	raw := da.backend.TensorDot(da.storage.(*Dense).Raw, db.storage.(*Dense).Raw, axesA, axesB)

	// Stable in-before-out ordering.
	order := make([]int, len(axes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return axes[order[i]].in && !axes[order[j]].in
	})

	bonds := make([]*bond.Bond, len(axes))
	labels := make([]int, len(axes))
	nIn := 0
	for i, idx := range order {
		bonds[i] = axes[idx].b
		labels[i] = axes[idx].label
		if axes[idx].in {
			nIn++
		}
	}
	if len(axes) > 0 {
		raw = da.backend.Permute(raw, order)
	}

	result, err := FromRaw(raw, bonds, nIn, WithLabels(labels...), WithBackend(da.backend))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// commonLabels returns the labels shared by a and b, ordered by their
// appearance in a.
func commonLabels(a, b []int) []int {
	var out []int
	for _, la := range a {
		for _, lb := range b {
			if la == lb {
				out = append(out, la)
				break
			}
		}
	}
	return out
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
