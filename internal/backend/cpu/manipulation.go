package cpu

import (
	"fmt"

	"github.com/symten-ml/symten/internal/tensor"
)

// Permute reorders the axes of x according to axes and materializes a
// contiguous row-major copy of the result.
func (cpu *CPUBackend) Permute(x *tensor.RawTensor, axes []int) *tensor.RawTensor {
	rank := len(x.Shape())
	if len(axes) != rank {
		panic(fmt.Sprintf("permute: got %d axes for rank-%d tensor", len(axes), rank))
	}
	seen := make([]bool, rank)
	for _, a := range axes {
		if a < 0 || a >= rank {
			panic(fmt.Sprintf("permute: axis %d out of range for rank %d", a, rank))
		}
		if seen[a] {
			panic(fmt.Sprintf("permute: duplicate axis %d", a))
		}
		seen[a] = true
	}

	oldShape := x.Shape()
	newShape := make(tensor.Shape, rank)
	for i, a := range axes {
		newShape[i] = oldShape[a]
	}

	result := newResult("permute", newShape, x.DType(), cpu.device)
	if rank == 0 {
		result.SetAt(0, x.At(0))
		return result
	}

	oldStrides := x.Strides()
	// Stride of output position i, expressed in the input's layout.
	srcStrides := make([]int, rank)
	for i, a := range axes {
		srcStrides[i] = oldStrides[a]
	}

	n := result.NumElements()
	idx := make([]int, rank)
	src := 0
	for dst := 0; dst < n; dst++ {
		result.SetAt(dst, x.At(src))
		for d := rank - 1; d >= 0; d-- {
			idx[d]++
			src += srcStrides[d]
			if idx[d] < newShape[d] {
				break
			}
			idx[d] = 0
			src -= newShape[d] * srcStrides[d]
		}
	}
	return result
}

// Reshape returns a copy of x with the given shape. The element count
// must be preserved.
func (cpu *CPUBackend) Reshape(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	result, err := x.WithShape(shape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return result
}

// Diag converts between a diagonal vector and a square matrix. A rank-1
// input of length n yields an n x n matrix with the vector on the main
// diagonal; a rank-2 input yields the vector of its main diagonal.
func (cpu *CPUBackend) Diag(x *tensor.RawTensor) *tensor.RawTensor {
	shape := x.Shape()
	switch len(shape) {
	case 1:
		n := shape[0]
		result := newResult("diag", tensor.Shape{n, n}, x.DType(), cpu.device)
		for i := 0; i < n; i++ {
			result.SetAt(i*n+i, x.At(i))
		}
		return result
	case 2:
		rows, cols := shape[0], shape[1]
		n := rows
		if cols < n {
			n = cols
		}
		result := newResult("diag", tensor.Shape{n}, x.DType(), cpu.device)
		for i := 0; i < n; i++ {
			result.SetAt(i, x.At(i*cols+i))
		}
		return result
	default:
		panic(fmt.Sprintf("diag: expected rank 1 or 2, got rank %d", len(shape)))
	}
}
