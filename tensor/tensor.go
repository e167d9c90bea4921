// Copyright 2026 SymTen Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the dense numeric buffer type and the Backend
// interface that symmetry-aware tensors are built on.
//
// Example:
//
//	raw, err := tensor.FromFloat64([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
package tensor

import (
	"github.com/symten-ml/symten/internal/tensor"
)

// DataType identifies the element type of a buffer.
type DataType = tensor.DataType

// Data type constants.
const (
	Float64 DataType = tensor.Float64
	Float32 DataType = tensor.Float32
)

// Shape holds per-axis dimensions.
type Shape = tensor.Shape

// Device identifies a compute device.
type Device = tensor.Device

// Device constants.
const (
	CPU Device = tensor.CPU
)

// RawTensor is a contiguous row-major numeric buffer.
type RawTensor = tensor.RawTensor

// Backend is the set of numeric kernels the bookkeeping layer
// delegates to.
type Backend = tensor.Backend

// NewRaw allocates a zero-filled buffer.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// FromFloat64 copies data into a new Float64 buffer of the given shape.
func FromFloat64(data []float64, shape Shape) (*RawTensor, error) {
	return tensor.FromFloat64(data, shape)
}

// FromFloat32 copies data into a new Float32 buffer of the given shape.
func FromFloat32(data []float32, shape Shape) (*RawTensor, error) {
	return tensor.FromFloat32(data, shape)
}
