// Copyright 2026 SymTen Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package linalg provides factorizations and products on plain rank-2
// tensors. Symmetric tensors are decomposed per sector: extract a
// block with GetBlock, factor it here, and put the pieces back.
package linalg

import (
	"github.com/symten-ml/symten/internal/linalg"
)

// Errors.
var (
	ErrNotMatrix = linalg.ErrNotMatrix
	ErrSingular  = linalg.ErrSingular
)

// Svd factors a matrix into u * s * v with s diagonal, chained over
// fresh negative labels.
var Svd = linalg.Svd

// SvdTruncate is Svd keeping only the largest singular values.
var SvdTruncate = linalg.SvdTruncate

// Qr factors a matrix into an orthonormal q and upper-triangular r.
var Qr = linalg.Qr

// Det computes the determinant of a square matrix.
var Det = linalg.Det

// Inverse computes the matrix inverse.
var Inverse = linalg.Inverse

// Norm computes the Frobenius norm over every stored element.
var Norm = linalg.Norm

// Matmul multiplies two matrices, keeping a's row label and b's
// column label.
var Matmul = linalg.Matmul

// ChainMatmul multiplies a sequence of matrices left to right.
var ChainMatmul = linalg.ChainMatmul
