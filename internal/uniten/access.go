package uniten

import (
	"fmt"

	"github.com/symten-ml/symten/internal/bond"
	"github.com/symten-ml/symten/internal/tensor"
)

// At reads one element by per-bond indices. Off-diagonal reads from a
// diagonal tensor return 0. Block-form tensors reject element access.
func (t *UniTensor) At(indices ...int) (float64, error) {
	if len(indices) != t.Rank() {
		return 0, fmt.Errorf("got %d indices for rank %d", len(indices), t.Rank())
	}
	switch s := t.storage.(type) {
	case *Dense:
		return s.Raw.At(s.Raw.Offset(indices...)), nil
	case *Diag:
		if err := t.checkDiagIndices(indices); err != nil {
			return 0, err
		}
		if indices[0] != indices[1] {
			return 0, nil
		}
		return s.Raw.At(indices[0]), nil
	default:
		return 0, ErrElementOnBlockForm
	}
}

// SetElem writes one element by per-bond indices. Writing off the
// diagonal of a diagonal tensor is rejected.
func (t *UniTensor) SetElem(v float64, indices ...int) error {
	if len(indices) != t.Rank() {
		return fmt.Errorf("got %d indices for rank %d", len(indices), t.Rank())
	}
	switch s := t.storage.(type) {
	case *Dense:
		s.Raw.SetAt(s.Raw.Offset(indices...), v)
		return nil
	case *Diag:
		if err := t.checkDiagIndices(indices); err != nil {
			return err
		}
		if indices[0] != indices[1] {
			return fmt.Errorf("%w: cannot write off-diagonal element (%d, %d)", ErrDiagOp, indices[0], indices[1])
		}
		s.Raw.SetAt(indices[0], v)
		return nil
	default:
		return ErrElementOnBlockForm
	}
}

func (t *UniTensor) checkDiagIndices(indices []int) error {
	dim := t.bonds[0].Dim()
	for _, i := range indices {
		if i < 0 || i >= dim {
			return fmt.Errorf("index %d out of range [0, %d)", i, dim)
		}
	}
	return nil
}

// GetBlock extracts the sector identified by q as a plain rank-2
// tensor. The quantum number must carry one value per symmetry
// channel.
func (t *UniTensor) GetBlock(q ...int) (*UniTensor, error) {
	if err := t.checkBlockAccess(q); err != nil {
		return nil, err
	}

	switch s := t.storage.(type) {
	case *Blocks:
		i, err := s.sectorIndex(q)
		if err != nil {
			return nil, err
		}
		return wrapBlock(s.Data[i].Clone(), t.backend, t.name)

	case *Dense:
		rows, cols, err := t.sectorIndices(q)
		if err != nil {
			return nil, err
		}
		mat := t.backend.Reshape(s.Raw, t.matrixShape())
		return wrapBlock(t.backend.ReadSubmatrix(mat, rows, cols), t.backend, t.name)

	default:
		return nil, fmt.Errorf("%w: GetBlock", ErrDiagOp)
	}
}

// PutBlock overwrites the sector identified by q with the dense
// rank-2 tensor blk, which must match the sector's shape.
func (t *UniTensor) PutBlock(blk *UniTensor, q ...int) error {
	if err := t.checkBlockAccess(q); err != nil {
		return err
	}
	src, ok := blk.storage.(*Dense)
	if !ok {
		return fmt.Errorf("%w: PutBlock takes a dense tensor", ErrStorageMismatch)
	}
	if blk.Rank() != 2 {
		return fmt.Errorf("%w: PutBlock takes a rank-2 block", ErrNotRank2)
	}

	switch s := t.storage.(type) {
	case *Blocks:
		i, err := s.sectorIndex(q)
		if err != nil {
			return err
		}
		if !src.Raw.Shape().Equal(s.Data[i].Shape()) {
			return fmt.Errorf("%w: got %v, sector %v needs %v", ErrBlockShape, src.Raw.Shape(), q, s.Data[i].Shape())
		}
		s.Data[i] = src.Raw.Clone()
		return nil

	case *Dense:
		rows, cols, err := t.sectorIndices(q)
		if err != nil {
			return err
		}
		want := tensor.Shape{len(rows), len(cols)}
		if !src.Raw.Shape().Equal(want) {
			return fmt.Errorf("%w: got %v, sector %v needs %v", ErrBlockShape, src.Raw.Shape(), q, want)
		}
		mat := t.backend.Reshape(s.Raw, t.matrixShape())
		t.backend.WriteSubmatrix(mat, rows, cols, src.Raw)
		s.Raw = t.backend.Reshape(mat, s.Raw.Shape())
		return nil

	default:
		return fmt.Errorf("%w: PutBlock", ErrDiagOp)
	}
}

func (t *UniTensor) checkBlockAccess(q []int) error {
	if !t.Symmetric() {
		return ErrNotSymmetric
	}
	if len(q) != t.Nsym() {
		return fmt.Errorf("%w: got %d channels, bonds carry %d", ErrQnumLength, len(q), t.Nsym())
	}
	return nil
}

// sectorIndices locates the rows and columns of sector q in the
// combined in and out spaces of a symmetric dense tensor. The combined
// spaces follow the bonds as stored (no normalization), so the result
// maps directly onto the matrix view of the dense buffer.
func (t *UniTensor) sectorIndices(q []int) (rows, cols []int, err error) {
	cbIn, cbOut, err := t.TotalQnums()
	if err != nil {
		return nil, nil, err
	}
	rows = bond.RowsMatching(cbIn.Qnums(), q)
	cols = bond.RowsMatching(cbOut.Qnums(), q)
	if len(rows) == 0 || len(cols) == 0 {
		return nil, nil, fmt.Errorf("%w: %v", ErrNoSuchSector, q)
	}
	return rows, cols, nil
}

// matrixShape is the (prod in-dims, prod out-dims) view of the bonds.
func (t *UniTensor) matrixShape() tensor.Shape {
	rows, cols := 1, 1
	for i, b := range t.bonds {
		if i < t.nIn {
			rows *= b.Dim()
		} else {
			cols *= b.Dim()
		}
	}
	return tensor.Shape{rows, cols}
}

// wrapBlock lifts a raw rank-2 buffer into a plain tensor with fresh
// labels 0 and 1.
func wrapBlock(raw *tensor.RawTensor, backend tensor.Backend, name string) (*UniTensor, error) {
	shape := raw.Shape()
	b0, err := bond.New(shape[0])
	if err != nil {
		return nil, err
	}
	b1, err := bond.New(shape[1])
	if err != nil {
		return nil, err
	}
	return FromRaw(raw, []*bond.Bond{b0, b1}, 1, WithBackend(backend), WithName(name))
}
