package cpu

import (
	"fmt"

	"github.com/symten-ml/symten/internal/tensor"
)

// MatMul performs matrix multiplication of two rank-2 tensors.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	as, bs := a.Shape(), b.Shape()
	if len(as) != 2 || len(bs) != 2 {
		panic(fmt.Sprintf("matmul: expected rank-2 tensors, got ranks %d and %d", len(as), len(bs)))
	}
	if as[1] != bs[0] {
		panic(fmt.Sprintf("matmul: inner dimensions do not match: %v x %v", as, bs))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("matmul: dtype mismatch %s vs %s", a.DType(), b.DType()))
	}

	m, k, n := as[0], as[1], bs[1]
	result := newResult("matmul", tensor.Shape{m, n}, a.DType(), cpu.device)

	switch a.DType() {
	case tensor.Float64:
		av, bv, rv := a.AsFloat64(), b.AsFloat64(), result.AsFloat64()
		matmulFloat64(av, bv, rv, m, k, n)
	case tensor.Float32:
		av, bv, rv := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
		matmulFloat32(av, bv, rv, m, k, n)
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s", a.DType()))
	}
	return result
}

// ikj loop order keeps the inner loop sequential over both b and the output.
func matmulFloat64(a, b, out []float64, m, k, n int) {
	for i := 0; i < m; i++ {
		for p := 0; p < k; p++ {
			aip := a[i*k+p]
			if aip == 0 {
				continue
			}
			brow := b[p*n : p*n+n]
			orow := out[i*n : i*n+n]
			for j := range brow {
				orow[j] += aip * brow[j]
			}
		}
	}
}

func matmulFloat32(a, b, out []float32, m, k, n int) {
	for i := 0; i < m; i++ {
		for p := 0; p < k; p++ {
			aip := a[i*k+p]
			if aip == 0 {
				continue
			}
			brow := b[p*n : p*n+n]
			orow := out[i*n : i*n+n]
			for j := range brow {
				orow[j] += aip * brow[j]
			}
		}
	}
}

// TensorDot contracts a and b over the paired axes axesA and axesB.
// The result carries a's free axes followed by b's free axes, in their
// original order. Empty axis lists produce the outer product.
func (cpu *CPUBackend) TensorDot(a, b *tensor.RawTensor, axesA, axesB []int) *tensor.RawTensor {
	if len(axesA) != len(axesB) {
		panic(fmt.Sprintf("tensordot: axis count mismatch: %d vs %d", len(axesA), len(axesB)))
	}
	as, bs := a.Shape(), b.Shape()
	for i := range axesA {
		if as[axesA[i]] != bs[axesB[i]] {
			panic(fmt.Sprintf("tensordot: contracted dimensions differ: a[%d]=%d vs b[%d]=%d",
				axesA[i], as[axesA[i]], axesB[i], bs[axesB[i]]))
		}
	}

	freeA := freeAxes(len(as), axesA)
	freeB := freeAxes(len(bs), axesB)

	// a -> (free..., contracted...), b -> (contracted..., free...)
	permA := append(append([]int{}, freeA...), axesA...)
	permB := append(append([]int{}, axesB...), freeB...)
	pa := cpu.Permute(a, permA)
	pb := cpu.Permute(b, permB)

	m, k, n := 1, 1, 1
	outShape := make(tensor.Shape, 0, len(freeA)+len(freeB))
	for _, ax := range freeA {
		m *= as[ax]
		outShape = append(outShape, as[ax])
	}
	for _, ax := range axesA {
		k *= as[ax]
	}
	for _, ax := range freeB {
		n *= bs[ax]
		outShape = append(outShape, bs[ax])
	}

	prod := cpu.MatMul(cpu.Reshape(pa, tensor.Shape{m, k}), cpu.Reshape(pb, tensor.Shape{k, n}))
	return cpu.Reshape(prod, outShape)
}

func freeAxes(rank int, contracted []int) []int {
	used := make([]bool, rank)
	for _, a := range contracted {
		used[a] = true
	}
	free := make([]int, 0, rank-len(contracted))
	for i := 0; i < rank; i++ {
		if !used[i] {
			free = append(free, i)
		}
	}
	return free
}
