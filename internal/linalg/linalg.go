// Package linalg provides matrix factorizations and products on
// rank-2 tensors. Inputs must have one in-bond and plain bonds; a
// symmetric tensor is decomposed per sector by the caller via GetBlock
// first.
package linalg

import (
	"fmt"
	"math"

	"github.com/symten-ml/symten/internal/bond"
	"github.com/symten-ml/symten/internal/tensor"
	"github.com/symten-ml/symten/internal/uniten"
)

// ErrNotMatrix is returned when an operand is not a plain rank-2
// tensor with one in-bond.
var ErrNotMatrix = fmt.Errorf("operand is not a plain rank-2 matrix")

// ErrSingular is returned when a matrix has no inverse.
var ErrSingular = fmt.Errorf("matrix is singular")

func checkMatrix(a *uniten.UniTensor) error {
	if a.Rank() != 2 || a.NInbond() != 1 {
		return fmt.Errorf("%w: rank %d with %d in-bonds", ErrNotMatrix, a.Rank(), a.NInbond())
	}
	if a.Symmetric() {
		return fmt.Errorf("%w: bonds carry quantum numbers, extract a block first", ErrNotMatrix)
	}
	return nil
}

func denseRaw(a *uniten.UniTensor) (*tensor.RawTensor, error) {
	switch s := a.Storage().(type) {
	case *uniten.Dense:
		return s.Raw, nil
	default:
		return nil, fmt.Errorf("%w: %s storage", ErrNotMatrix, a.Mode())
	}
}

// freshLabel picks a label below every label in use, so factorization
// outputs never collide with the operand's labels.
func freshLabel(labels []int) int {
	base := -1
	for _, l := range labels {
		if l <= base {
			base = l - 1
		}
	}
	return base
}

func wrapMatrix(raw *tensor.RawTensor, labels [2]int, backend tensor.Backend) (*uniten.UniTensor, error) {
	shape := raw.Shape()
	b0, err := bond.New(shape[0])
	if err != nil {
		return nil, err
	}
	b1, err := bond.New(shape[1])
	if err != nil {
		return nil, err
	}
	return uniten.FromRaw(raw, []*bond.Bond{b0, b1}, 1,
		uniten.WithLabels(labels[0], labels[1]), uniten.WithBackend(backend))
}

func diagFromVector(vec *tensor.RawTensor, labels [2]int, backend tensor.Backend) (*uniten.UniTensor, error) {
	n := vec.Shape()[0]
	b0, err := bond.New(n)
	if err != nil {
		return nil, err
	}
	d, err := uniten.New([]*bond.Bond{b0, b0.Clone()}, 1,
		uniten.AsDiag(), uniten.WithDType(vec.DType()),
		uniten.WithLabels(labels[0], labels[1]), uniten.WithBackend(backend))
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if err := d.SetElem(vec.At(i), i, i); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Svd factors a into u * s * v with s diagonal and the singular values
// in descending order. The three results chain over fresh labels, so
// Matmul(Matmul(u, s), v) reproduces a.
func Svd(a *uniten.UniTensor) (u, s, v *uniten.UniTensor, err error) {
	if err := checkMatrix(a); err != nil {
		return nil, nil, nil, err
	}
	raw, err := denseRaw(a)
	if err != nil {
		return nil, nil, nil, err
	}
	ru, rs, rv, err := a.Backend().Svd(raw)
	if err != nil {
		return nil, nil, nil, err
	}

	labels := a.Labels()
	base := freshLabel(labels)
	u, err = wrapMatrix(ru, [2]int{labels[0], base}, a.Backend())
	if err != nil {
		return nil, nil, nil, err
	}
	s, err = diagFromVector(rs, [2]int{base, base - 1}, a.Backend())
	if err != nil {
		return nil, nil, nil, err
	}
	v, err = wrapMatrix(rv, [2]int{base - 1, labels[1]}, a.Backend())
	if err != nil {
		return nil, nil, nil, err
	}
	return u, s, v, nil
}

// SvdTruncate is Svd keeping only the keep largest singular values.
func SvdTruncate(a *uniten.UniTensor, keep int) (u, s, v *uniten.UniTensor, err error) {
	if keep < 1 {
		return nil, nil, nil, fmt.Errorf("keep must be positive, got %d", keep)
	}
	u, s, v, err = Svd(a)
	if err != nil {
		return nil, nil, nil, err
	}
	k := s.Shape()[0]
	if keep >= k {
		return u, s, v, nil
	}

	backend := a.Backend()
	ur, _ := denseRaw(u)
	vr, _ := denseRaw(v)
	uRows := iota(ur.Shape()[0])
	vCols := iota(vr.Shape()[1])
	kept := iota(keep)

	tu, err := wrapMatrix(backend.ReadSubmatrix(ur, uRows, kept), [2]int{u.Labels()[0], u.Labels()[1]}, backend)
	if err != nil {
		return nil, nil, nil, err
	}
	tv, err := wrapMatrix(backend.ReadSubmatrix(vr, kept, vCols), [2]int{v.Labels()[0], v.Labels()[1]}, backend)
	if err != nil {
		return nil, nil, nil, err
	}

	sv := s.Storage().(*uniten.Diag).Raw
	trunc, err := tensor.NewRaw(tensor.Shape{keep}, sv.DType(), backend.Device())
	if err != nil {
		return nil, nil, nil, err
	}
	for i := 0; i < keep; i++ {
		trunc.SetAt(i, sv.At(i))
	}
	ts, err := diagFromVector(trunc, [2]int{s.Labels()[0], s.Labels()[1]}, backend)
	if err != nil {
		return nil, nil, nil, err
	}
	return tu, ts, tv, nil
}

// Qr factors a into an orthonormal q and an upper-triangular r chained
// over a fresh label.
func Qr(a *uniten.UniTensor) (q, r *uniten.UniTensor, err error) {
	if err := checkMatrix(a); err != nil {
		return nil, nil, err
	}
	raw, err := denseRaw(a)
	if err != nil {
		return nil, nil, err
	}
	rq, rr, err := a.Backend().Qr(raw)
	if err != nil {
		return nil, nil, err
	}

	labels := a.Labels()
	base := freshLabel(labels)
	q, err = wrapMatrix(rq, [2]int{labels[0], base}, a.Backend())
	if err != nil {
		return nil, nil, err
	}
	r, err = wrapMatrix(rr, [2]int{base, labels[1]}, a.Backend())
	if err != nil {
		return nil, nil, err
	}
	return q, r, nil
}

// Det computes the determinant of a square matrix. A diagonal operand
// reduces to the product of its stored entries.
func Det(a *uniten.UniTensor) (float64, error) {
	if err := checkMatrix(a); err != nil {
		return 0, err
	}
	switch s := a.Storage().(type) {
	case *uniten.Diag:
		det := 1.0
		for i := 0; i < s.Raw.NumElements(); i++ {
			det *= s.Raw.At(i)
		}
		return det, nil
	case *uniten.Dense:
		return a.Backend().Det(s.Raw)
	default:
		return 0, fmt.Errorf("%w: %s storage", ErrNotMatrix, a.Mode())
	}
}

// Inverse computes the matrix inverse, keeping the operand's bonds and
// labels. A diagonal operand inverts entrywise and stays diagonal.
func Inverse(a *uniten.UniTensor) (*uniten.UniTensor, error) {
	if err := checkMatrix(a); err != nil {
		return nil, err
	}
	switch s := a.Storage().(type) {
	case *uniten.Diag:
		out := a.Clone()
		raw := out.Storage().(*uniten.Diag).Raw
		for i := 0; i < raw.NumElements(); i++ {
			v := raw.At(i)
			if v == 0 {
				return nil, fmt.Errorf("diagonal entry %d is zero: %w", i, ErrSingular)
			}
			raw.SetAt(i, 1/v)
		}
		return out, nil
	case *uniten.Dense:
		inv, err := a.Backend().Inverse(s.Raw)
		if err != nil {
			return nil, err
		}
		labels := a.Labels()
		return wrapMatrix(inv, [2]int{labels[0], labels[1]}, a.Backend())
	default:
		return nil, fmt.Errorf("%w: %s storage", ErrNotMatrix, a.Mode())
	}
}

// Norm computes the Frobenius norm over every stored element; for
// block-form tensors that is the norm over all allowed sectors.
func Norm(a *uniten.UniTensor) float64 {
	switch s := a.Storage().(type) {
	case *uniten.Dense:
		return a.Backend().Norm(s.Raw)
	case *uniten.Diag:
		return a.Backend().Norm(s.Raw)
	case *uniten.Blocks:
		var sum float64
		for _, blk := range s.Data {
			n := a.Backend().Norm(blk)
			sum += n * n
		}
		return math.Sqrt(sum)
	}
	return 0
}

// Matmul multiplies two matrices, contracting a's out-bond with b's
// in-bond. The result takes a's row label and b's column label. Two
// diagonal operands stay diagonal.
func Matmul(a, b *uniten.UniTensor) (*uniten.UniTensor, error) {
	if err := checkMatrix(a); err != nil {
		return nil, err
	}
	if err := checkMatrix(b); err != nil {
		return nil, err
	}
	if a.Shape()[1] != b.Shape()[0] {
		return nil, fmt.Errorf("inner dimensions do not match: %v x %v", a.Shape(), b.Shape())
	}

	da, aDiag := a.Storage().(*uniten.Diag)
	dbs, bDiag := b.Storage().(*uniten.Diag)
	if aDiag && bDiag {
		prod := a.Backend().Mul(da.Raw, dbs.Raw)
		return diagFromVector(prod, [2]int{a.Labels()[0], b.Labels()[1]}, a.Backend())
	}

	ad, bd := a, b
	if aDiag {
		ad = a.ToDense()
	}
	if bDiag {
		bd = b.ToDense()
	}
	ra, err := denseRaw(ad)
	if err != nil {
		return nil, err
	}
	rb, err := denseRaw(bd)
	if err != nil {
		return nil, err
	}
	return wrapMatrix(a.Backend().MatMul(ra, rb), [2]int{a.Labels()[0], b.Labels()[1]}, a.Backend())
}

// ChainMatmul multiplies a sequence of matrices left to right.
func ChainMatmul(ts ...*uniten.UniTensor) (*uniten.UniTensor, error) {
	if len(ts) == 0 {
		return nil, fmt.Errorf("chain requires at least one matrix")
	}
	out := ts[0]
	for _, next := range ts[1:] {
		var err error
		out, err = Matmul(out, next)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func iota(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
