// Copyright 2026 SymTen Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package uniten is the public API for symmetry-aware tensors: bonds
// carrying quantum numbers, dense/diagonal/block-form storage, and the
// structural operations that keep them consistent.
//
// Example:
//
//	a, _ := uniten.NewSymBond(3, [][]int{{0}, {1}, {2}})
//	b, _ := uniten.NewSymBond(4, [][]int{{-1}, {2}, {0}, {2}})
//	c, _ := uniten.NewSymBond(5, [][]int{{4}, {2}, {-1}, {5}, {1}})
//	u, _ := uniten.New([]*uniten.Bond{a, b, c}, 2, uniten.AsBlockForm())
//	blk, _ := u.GetBlock(2) // the sector with total charge 2, shape (3, 1)
package uniten

import (
	"github.com/symten-ml/symten/internal/bond"
	"github.com/symten-ml/symten/internal/uniten"
)

// Bond is one tensor axis, optionally carrying per-state quantum
// numbers.
type Bond = bond.Bond

// NewBond creates a bond with no quantum numbers.
func NewBond(dim int) (*Bond, error) {
	return bond.New(dim)
}

// NewSymBond creates a bond whose dim basis states carry the given
// quantum-number vectors.
func NewSymBond(dim int, qnums [][]int) (*Bond, error) {
	return bond.NewSym(dim, qnums)
}

// UniTensor is a tensor over labeled bonds with an in/out axis split.
type UniTensor = uniten.UniTensor

// Storage variants.
type (
	Storage     = uniten.Storage
	StorageMode = uniten.StorageMode
	Dense       = uniten.Dense
	Diag        = uniten.Diag
	Blocks      = uniten.Blocks
)

// Storage mode constants.
const (
	DenseMode StorageMode = uniten.DenseMode
	DiagMode  StorageMode = uniten.DiagMode
	BlockMode StorageMode = uniten.BlockMode
)

// Option configures tensor construction.
type Option = uniten.Option

// Construction options.
var (
	WithLabels  = uniten.WithLabels
	WithName    = uniten.WithName
	WithDType   = uniten.WithDType
	WithBackend = uniten.WithBackend
	AsDiag      = uniten.AsDiag
	AsBlockForm = uniten.AsBlockForm
)

// CombineOption tweaks CombineBonds placement and naming.
type CombineOption = uniten.CombineOption

// CombineBonds options.
var (
	CombineToIn      = uniten.CombineToIn
	CombineToOut     = uniten.CombineToOut
	CombineWithLabel = uniten.CombineWithLabel
)

// New constructs a zero-initialized tensor over bonds with the first
// nIn axes on the in side.
var New = uniten.New

// FromRaw wraps an existing buffer as a dense tensor.
var FromRaw = uniten.FromRaw

// Contract multiplies two tensors over every label they share.
var Contract = uniten.Contract

// Elementwise arithmetic.
var (
	Add = uniten.Add
	Sub = uniten.Sub
	Mul = uniten.Mul
	Div = uniten.Div
)

// Errors, re-exported for errors.Is checks.
var (
	ErrLabelCount         = uniten.ErrLabelCount
	ErrDuplicateLabel     = uniten.ErrDuplicateLabel
	ErrInvalidInbond      = uniten.ErrInvalidInbond
	ErrDiagShape          = uniten.ErrDiagShape
	ErrDiagBlockForm      = uniten.ErrDiagBlockForm
	ErrMixedSymmetry      = uniten.ErrMixedSymmetry
	ErrChannelMismatch    = uniten.ErrChannelMismatch
	ErrNoSectors          = uniten.ErrNoSectors
	ErrBlockFormBonds     = uniten.ErrBlockFormBonds
	ErrDiagOp             = uniten.ErrDiagOp
	ErrBlockFormOp        = uniten.ErrBlockFormOp
	ErrSymmetricOp        = uniten.ErrSymmetricOp
	ErrLabelNotFound      = uniten.ErrLabelNotFound
	ErrLabelInUse         = uniten.ErrLabelInUse
	ErrTooFewLabels       = uniten.ErrTooFewLabels
	ErrQnumLength         = uniten.ErrQnumLength
	ErrNoSuchSector       = uniten.ErrNoSuchSector
	ErrNotSymmetric       = uniten.ErrNotSymmetric
	ErrElementOnBlockForm = uniten.ErrElementOnBlockForm
	ErrBlockShape         = uniten.ErrBlockShape
	ErrSymmetryMismatch   = uniten.ErrSymmetryMismatch
	ErrQnumMismatch       = uniten.ErrQnumMismatch
	ErrBondMismatch       = uniten.ErrBondMismatch
	ErrStorageMismatch    = uniten.ErrStorageMismatch
)
