package uniten

import "errors"

// Construction errors.
var (
	ErrLabelCount      = errors.New("label count does not match bond count")
	ErrDuplicateLabel  = errors.New("duplicate label")
	ErrInvalidInbond   = errors.New("in-bond count out of range")
	ErrDiagShape       = errors.New("diagonal form requires a square rank-2 tensor with one in-bond")
	ErrDiagBlockForm   = errors.New("diagonal and block-form storage are mutually exclusive")
	ErrMixedSymmetry   = errors.New("bonds mix symmetric and plain axes")
	ErrChannelMismatch = errors.New("bonds disagree on symmetry channel count")
	ErrNoSectors       = errors.New("no common quantum-number sector between in and out bonds")
	ErrBlockFormBonds  = errors.New("block form requires symmetric bonds and both in and out bonds")
)

// Structural-operation errors.
var (
	ErrDiagOp        = errors.New("operation not defined on diagonal storage")
	ErrBlockFormOp   = errors.New("operation not supported on block-form storage")
	ErrSymmetricOp   = errors.New("operation would discard quantum-number structure")
	ErrLabelNotFound = errors.New("no bond carries the requested label")
	ErrLabelInUse    = errors.New("new label collides with an existing label")
	ErrTooFewLabels  = errors.New("combining bonds requires at least two labels")
	ErrNotRank2      = errors.New("operation requires a rank-2 tensor")
)

// Block-access errors.
var (
	ErrQnumLength         = errors.New("quantum number has wrong channel count")
	ErrNoSuchSector       = errors.New("no sector matches the requested quantum number")
	ErrNotSymmetric       = errors.New("block access requires symmetric bonds")
	ErrElementOnBlockForm = errors.New("element access on block-form storage, use GetBlock")
	ErrBlockShape         = errors.New("block shape does not match the sector")
)

// Contraction and arithmetic errors.
var (
	ErrSymmetryMismatch = errors.New("cannot contract a symmetric tensor with a plain one")
	ErrQnumMismatch     = errors.New("contracted bonds carry different quantum numbers")
	ErrBondMismatch     = errors.New("bonds do not match")
	ErrStorageMismatch  = errors.New("operands have incompatible storage modes")
)
