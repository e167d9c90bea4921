// Package cpu implements the tensor.Backend interface with plain Go kernels.
package cpu

import (
	"fmt"
	"math/rand"

	"github.com/symten-ml/symten/internal/tensor"
)

// CPUBackend implements tensor operations on the host CPU.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// checkBinary validates that a and b are elementwise-compatible.
func checkBinary(op string, a, b *tensor.RawTensor) {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("%s: shape mismatch %v vs %v", op, a.Shape(), b.Shape()))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", op, a.DType(), b.DType()))
	}
}

func newResult(op string, shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}
	return result
}

// binary applies f elementwise over two same-shape tensors.
func (cpu *CPUBackend) binary(op string, a, b *tensor.RawTensor, f func(x, y float64) float64) *tensor.RawTensor {
	checkBinary(op, a, b)
	result := newResult(op, a.Shape(), a.DType(), cpu.device)

	switch a.DType() {
	case tensor.Float64:
		av, bv, rv := a.AsFloat64(), b.AsFloat64(), result.AsFloat64()
		for i := range rv {
			rv[i] = f(av[i], bv[i])
		}
	case tensor.Float32:
		av, bv, rv := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
		for i := range rv {
			rv[i] = float32(f(float64(av[i]), float64(bv[i])))
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}
	return result
}

// scalar applies f elementwise with a fixed scalar operand.
func (cpu *CPUBackend) scalar(op string, x *tensor.RawTensor, f func(v float64) float64) *tensor.RawTensor {
	result := newResult(op, x.Shape(), x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float64:
		xv, rv := x.AsFloat64(), result.AsFloat64()
		for i := range rv {
			rv[i] = f(xv[i])
		}
	case tensor.Float32:
		xv, rv := x.AsFloat32(), result.AsFloat32()
		for i := range rv {
			rv[i] = float32(f(float64(xv[i])))
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}
	return result
}

// Add performs elementwise addition.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs elementwise subtraction.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs elementwise multiplication.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b, func(x, y float64) float64 { return x * y })
}

// Div performs elementwise division.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("div", a, b, func(x, y float64) float64 { return x / y })
}

// AddScalar adds s to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	return cpu.scalar("add_scalar", x, func(v float64) float64 { return v + s })
}

// SubScalar subtracts s from every element.
func (cpu *CPUBackend) SubScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	return cpu.scalar("sub_scalar", x, func(v float64) float64 { return v - s })
}

// MulScalar multiplies every element by s.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	return cpu.scalar("mul_scalar", x, func(v float64) float64 { return v * s })
}

// DivScalar divides every element by s.
func (cpu *CPUBackend) DivScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	return cpu.scalar("div_scalar", x, func(v float64) float64 { return v / s })
}

// Rand fills x in place with uniform values in [0, 1).
// Uses math/rand, which is the right tool for numeric initialization.
func (cpu *CPUBackend) Rand(x *tensor.RawTensor) {
	switch x.DType() {
	case tensor.Float64:
		xv := x.AsFloat64()
		for i := range xv {
			xv[i] = rand.Float64() //nolint:gosec // numeric init, not crypto
		}
	case tensor.Float32:
		xv := x.AsFloat32()
		for i := range xv {
			xv[i] = rand.Float32() //nolint:gosec // numeric init, not crypto
		}
	default:
		panic(fmt.Sprintf("rand: unsupported dtype %s", x.DType()))
	}
}
