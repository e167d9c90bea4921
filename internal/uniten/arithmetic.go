package uniten

import (
	"fmt"

	"github.com/symten-ml/symten/internal/tensor"
)

// binaryOp applies a backend elementwise kernel across matching
// storage. Diagonal storage mixed with dense is widened to dense
// first; block-form operands must share the identical block layout.
func binaryOp(a, b *UniTensor, f func(x, y *tensor.RawTensor) *tensor.RawTensor) (*UniTensor, error) {
	if a.Rank() != b.Rank() || a.nIn != b.nIn {
		return nil, fmt.Errorf("%w: rank/in-bond split differs", ErrBondMismatch)
	}
	for i := range a.bonds {
		if !a.bonds[i].Eq(b.bonds[i]) {
			return nil, fmt.Errorf("%w: axis %d", ErrBondMismatch, i)
		}
	}
	if a.dtype != b.dtype {
		return nil, fmt.Errorf("%w: %s vs %s", ErrStorageMismatch, a.dtype, b.dtype)
	}

	am, bm := a.Mode(), b.Mode()
	if (am == BlockMode) != (bm == BlockMode) {
		return nil, fmt.Errorf("%w: %s vs %s", ErrStorageMismatch, am, bm)
	}
	// diag/dense mixes widen to dense.
	if am != bm {
		return binaryOp(a.ToDense(), b.ToDense(), f)
	}

	out := a.Clone()
	switch s := out.storage.(type) {
	case *Dense:
		s.Raw = f(a.storage.(*Dense).Raw, b.storage.(*Dense).Raw)
	case *Diag:
		s.Raw = f(a.storage.(*Diag).Raw, b.storage.(*Diag).Raw)
	case *Blocks:
		other := b.storage.(*Blocks)
		if len(s.Data) != len(other.Data) {
			return nil, fmt.Errorf("%w: block layouts differ", ErrStorageMismatch)
		}
		for i := range s.Data {
			s.Data[i] = f(a.storage.(*Blocks).Data[i], other.Data[i])
		}
	}
	return out, nil
}

func (t *UniTensor) scalarOp(f func(x *tensor.RawTensor) *tensor.RawTensor) *UniTensor {
	out := t.Clone()
	switch s := out.storage.(type) {
	case *Dense:
		s.Raw = f(s.Raw)
	case *Diag:
		s.Raw = f(s.Raw)
	case *Blocks:
		for i := range s.Data {
			s.Data[i] = f(s.Data[i])
		}
	}
	return out
}

// Add returns the elementwise sum.
func Add(a, b *UniTensor) (*UniTensor, error) {
	return binaryOp(a, b, a.backend.Add)
}

// Sub returns the elementwise difference.
func Sub(a, b *UniTensor) (*UniTensor, error) {
	return binaryOp(a, b, a.backend.Sub)
}

// Mul returns the elementwise product.
func Mul(a, b *UniTensor) (*UniTensor, error) {
	return binaryOp(a, b, a.backend.Mul)
}

// Div returns the elementwise quotient.
func Div(a, b *UniTensor) (*UniTensor, error) {
	return binaryOp(a, b, a.backend.Div)
}

// AddScalar adds s to every stored element.
func (t *UniTensor) AddScalar(s float64) *UniTensor {
	return t.scalarOp(func(x *tensor.RawTensor) *tensor.RawTensor { return t.backend.AddScalar(x, s) })
}

// SubScalar subtracts s from every stored element.
func (t *UniTensor) SubScalar(s float64) *UniTensor {
	return t.scalarOp(func(x *tensor.RawTensor) *tensor.RawTensor { return t.backend.SubScalar(x, s) })
}

// MulScalar multiplies every stored element by s.
func (t *UniTensor) MulScalar(s float64) *UniTensor {
	return t.scalarOp(func(x *tensor.RawTensor) *tensor.RawTensor { return t.backend.MulScalar(x, s) })
}

// DivScalar divides every stored element by s.
func (t *UniTensor) DivScalar(s float64) *UniTensor {
	return t.scalarOp(func(x *tensor.RawTensor) *tensor.RawTensor { return t.backend.DivScalar(x, s) })
}
