package uniten

import (
	"fmt"
	"sort"

	"github.com/symten-ml/symten/internal/bond"
)

// Permute reorders the axes in place. mapper is a permutation of axis
// positions; newNIn sets the in-bond count of the permuted tensor.
// Diagonal tensors carry no axis order and block-form storage is tied
// to the current axis order, so both are rejected.
func (t *UniTensor) Permute(mapper []int, newNIn int) error {
	switch t.storage.(type) {
	case *Diag:
		return fmt.Errorf("%w: Permute", ErrDiagOp)
	case *Blocks:
		return fmt.Errorf("%w: Permute", ErrBlockFormOp)
	}
	rank := t.Rank()
	if len(mapper) != rank {
		return fmt.Errorf("got %d axes for rank %d", len(mapper), rank)
	}
	if newNIn < 0 || newNIn > rank {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidInbond, newNIn, rank)
	}
	seen := make([]bool, rank)
	for _, a := range mapper {
		if a < 0 || a >= rank {
			return fmt.Errorf("axis %d out of range for rank %d", a, rank)
		}
		if seen[a] {
			return fmt.Errorf("duplicate axis %d in permutation", a)
		}
		seen[a] = true
	}

	bonds := make([]*bond.Bond, rank)
	labels := make([]int, rank)
	for i, a := range mapper {
		bonds[i] = t.bonds[a]
		labels[i] = t.labels[a]
	}
	raw := t.backend.Permute(t.storage.(*Dense).Raw, mapper)
	t.replace(bonds, labels, newNIn, &Dense{Raw: raw})
	return nil
}

// PermuteByLabel is Permute with the new axis order given as labels.
func (t *UniTensor) PermuteByLabel(labels []int, newNIn int) error {
	mapper := make([]int, len(labels))
	for i, l := range labels {
		idx, err := t.labelIndex(l)
		if err != nil {
			return err
		}
		mapper[i] = idx
	}
	return t.Permute(mapper, newNIn)
}

// Reshape replaces the bonds wholesale with fresh plain bonds of the
// given dimensions. Quantum-number structure cannot survive an
// arbitrary reshape, so symmetric tensors are rejected, as are
// diagonal and block-form ones.
func (t *UniTensor) Reshape(dims []int, newNIn int, newLabels ...int) error {
	switch t.storage.(type) {
	case *Diag:
		return fmt.Errorf("%w: Reshape", ErrDiagOp)
	case *Blocks:
		return fmt.Errorf("%w: Reshape", ErrBlockFormOp)
	}
	if t.Symmetric() {
		return fmt.Errorf("%w: Reshape", ErrSymmetricOp)
	}
	if newNIn < 0 || newNIn > len(dims) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidInbond, newNIn, len(dims))
	}

	labels := newLabels
	if len(labels) == 0 {
		labels = make([]int, len(dims))
		for i := range labels {
			labels[i] = i
		}
	}
	if len(labels) != len(dims) {
		return fmt.Errorf("%w: %d labels for %d dimensions", ErrLabelCount, len(labels), len(dims))
	}
	if err := checkDistinct(labels); err != nil {
		return err
	}

	bonds := make([]*bond.Bond, len(dims))
	for i, d := range dims {
		b, err := bond.New(d)
		if err != nil {
			return err
		}
		bonds[i] = b
	}

	dense := t.storage.(*Dense)
	raw := t.backend.Reshape(dense.Raw, bondShape(bonds))
	t.replace(bonds, labels, newNIn, &Dense{Raw: raw})
	return nil
}

// CombineOption tweaks CombineBonds placement and naming.
type CombineOption func(*combineOptions)

type combineOptions struct {
	forceSide bool
	toIn      bool
	newLabel  *int
}

// CombineToIn forces the merged axis onto the in side.
func CombineToIn() CombineOption {
	return func(o *combineOptions) { o.forceSide, o.toIn = true, true }
}

// CombineToOut forces the merged axis onto the out side.
func CombineToOut() CombineOption {
	return func(o *combineOptions) { o.forceSide, o.toIn = true, false }
}

// CombineWithLabel names the merged axis. The label must not collide
// with any surviving label.
func CombineWithLabel(label int) CombineOption {
	return func(o *combineOptions) { o.newLabel = &label }
}

// CombineBonds merges the axes carrying the given labels into one
// axis, Kronecker-composing their quantum numbers when symmetric. The
// merged axis sits on the side of the highest-positioned merged bond
// unless a side is forced; it takes that bond's label unless renamed.
// The merged axis lands first on the in side or last on the out side.
func (t *UniTensor) CombineBonds(labels []int, opts ...CombineOption) error {
	var o combineOptions
	for _, opt := range opts {
		opt(&o)
	}

	switch t.storage.(type) {
	case *Diag:
		return fmt.Errorf("%w: CombineBonds", ErrDiagOp)
	case *Blocks:
		return fmt.Errorf("%w: CombineBonds", ErrBlockFormOp)
	}
	if len(labels) < 2 {
		return ErrTooFewLabels
	}
	if err := checkDistinct(labels); err != nil {
		return err
	}

	merged := make([]int, len(labels))
	for i, l := range labels {
		idx, err := t.labelIndex(l)
		if err != nil {
			return err
		}
		merged[i] = idx
	}
	sort.Ints(merged)
	anchor := merged[len(merged)-1]

	inSide := anchor < t.nIn
	if o.forceSide {
		inSide = o.toIn
	}

	mergedLabel := t.labels[anchor]
	if o.newLabel != nil {
		mergedLabel = *o.newLabel
		isMerged := make(map[int]bool, len(merged))
		for _, idx := range merged {
			isMerged[idx] = true
		}
		for i, l := range t.labels {
			if !isMerged[i] && l == mergedLabel {
				return fmt.Errorf("%w: %d", ErrLabelInUse, mergedLabel)
			}
		}
	}

	newBond, err := t.bonds[merged[0]].Combine(pick(t.bonds, merged[1:])...)
	if err != nil {
		return err
	}

	isMerged := make([]bool, t.Rank())
	for _, idx := range merged {
		isMerged[idx] = true
	}
	rest := make([]int, 0, t.Rank()-len(merged))
	mergedOnIn := 0
	for i := 0; i < t.Rank(); i++ {
		if isMerged[i] {
			if i < t.nIn {
				mergedOnIn++
			}
			continue
		}
		rest = append(rest, i)
	}

	var mapper []int
	if inSide {
		mapper = append(append([]int{}, merged...), rest...)
	} else {
		mapper = append(append([]int{}, rest...), merged...)
	}

	newNIn := t.nIn - mergedOnIn
	if inSide {
		newNIn++
	}

	raw := t.backend.Permute(t.storage.(*Dense).Raw, mapper)

	newBonds := make([]*bond.Bond, 0, len(rest)+1)
	newLabels := make([]int, 0, len(rest)+1)
	if inSide {
		newBonds = append(newBonds, newBond)
		newLabels = append(newLabels, mergedLabel)
	}
	for _, idx := range rest {
		newBonds = append(newBonds, t.bonds[idx])
		newLabels = append(newLabels, t.labels[idx])
	}
	if !inSide {
		newBonds = append(newBonds, newBond)
		newLabels = append(newLabels, mergedLabel)
	}

	raw = t.backend.Reshape(raw, bondShape(newBonds))
	t.replace(newBonds, newLabels, newNIn, &Dense{Raw: raw})
	return nil
}

func pick(bonds []*bond.Bond, idxs []int) []*bond.Bond {
	out := make([]*bond.Bond, len(idxs))
	for i, idx := range idxs {
		out[i] = bonds[idx]
	}
	return out
}

// ToDense converts diagonal or block-form storage to the equivalent
// dense tensor. Dense tensors are deep-copied.
func (t *UniTensor) ToDense() *UniTensor {
	out := t.Clone()
	switch s := out.storage.(type) {
	case *Dense:
		return out
	case *Diag:
		out.storage = &Dense{Raw: out.backend.Diag(s.Raw)}
		return out
	case *Blocks:
		raw, err := New(out.bonds, out.nIn, WithDType(out.dtype), WithBackend(out.backend))
		if err != nil {
			// Bonds came from a valid tensor, so construction cannot fail.
			panic(fmt.Sprintf("to_dense: %v", err))
		}
		mat := out.backend.Reshape(raw.storage.(*Dense).Raw, out.matrixShape())
		for i, blk := range s.Data {
			out.backend.WriteSubmatrix(mat, s.MapperIn[i], s.MapperOut[i], blk)
		}
		out.storage = &Dense{Raw: out.backend.Reshape(mat, bondShape(out.bonds))}
		return out
	}
	return out
}
