package cpu

import (
	"fmt"

	"github.com/symten-ml/symten/internal/tensor"
)

func checkSubmatrix(op string, x *tensor.RawTensor, rows, cols []int) {
	shape := x.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("%s: expected rank-2 tensor, got rank %d", op, len(shape)))
	}
	for _, r := range rows {
		if r < 0 || r >= shape[0] {
			panic(fmt.Sprintf("%s: row index %d out of range [0, %d)", op, r, shape[0]))
		}
	}
	for _, c := range cols {
		if c < 0 || c >= shape[1] {
			panic(fmt.Sprintf("%s: col index %d out of range [0, %d)", op, c, shape[1]))
		}
	}
}

// ReadSubmatrix gathers the outer product of the row and column index
// sets from a rank-2 tensor into a new (len(rows), len(cols)) tensor.
func (cpu *CPUBackend) ReadSubmatrix(x *tensor.RawTensor, rows, cols []int) *tensor.RawTensor {
	checkSubmatrix("read_submatrix", x, rows, cols)
	ncols := x.Shape()[1]

	result := newResult("read_submatrix", tensor.Shape{len(rows), len(cols)}, x.DType(), cpu.device)
	for i, r := range rows {
		base := r * ncols
		for j, c := range cols {
			result.SetAt(i*len(cols)+j, x.At(base+c))
		}
	}
	return result
}

// WriteSubmatrix scatters blk into the outer product of the row and
// column index sets of a rank-2 tensor, in place.
func (cpu *CPUBackend) WriteSubmatrix(x *tensor.RawTensor, rows, cols []int, blk *tensor.RawTensor) {
	checkSubmatrix("write_submatrix", x, rows, cols)
	bs := blk.Shape()
	if len(bs) != 2 || bs[0] != len(rows) || bs[1] != len(cols) {
		panic(fmt.Sprintf("write_submatrix: block shape %v does not match (%d, %d)", bs, len(rows), len(cols)))
	}
	ncols := x.Shape()[1]

	for i, r := range rows {
		base := r * ncols
		for j, c := range cols {
			x.SetAt(base+c, blk.At(i*len(cols)+j))
		}
	}
}
