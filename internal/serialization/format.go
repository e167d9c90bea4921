// Package serialization persists tensors in the .symt container:
// magic bytes, a JSON header describing bonds, labels, and storage
// layout, a SHA-256 checksum, and the raw little-endian payload.
package serialization

import (
	"time"

	"github.com/symten-ml/symten/internal/tensor"
	"github.com/symten-ml/symten/internal/uniten"
)

// Format constants.
const (
	MagicBytes    = "SYMT"
	FormatVersion = 1
	ChecksumSize  = 32 // SHA-256
	MaxHeaderSize = 64 << 20
)

const libraryVersion = "0.3.0"

// Header is the JSON header of a .symt file.
type Header struct {
	FormatVersion  int        `json:"format_version"`
	LibraryVersion string     `json:"library_version"`
	CreatedAt      time.Time  `json:"created_at"`
	Tensor         TensorMeta `json:"tensor"`
}

// TensorMeta describes the persisted tensor.
type TensorMeta struct {
	Name     string      `json:"name,omitempty"`
	DType    string      `json:"dtype"`
	Mode     string      `json:"mode"`
	NInbond  int         `json:"n_inbond"`
	Labels   []int       `json:"labels"`
	Bonds    []BondMeta  `json:"bonds"`
	Blocks   []BlockMeta `json:"blocks,omitempty"`
	Segments []Segment   `json:"segments"`
}

// BondMeta describes one axis.
type BondMeta struct {
	Dim   int     `json:"dim"`
	Qnums [][]int `json:"qnums,omitempty"`
}

// BlockMeta records the derived layout of one sector so a reader can
// verify it reproduces the same partition.
type BlockMeta struct {
	Qnum      []int `json:"qnum"`
	Shape     []int `json:"shape"`
	MapperIn  []int `json:"mapper_in"`
	MapperOut []int `json:"mapper_out"`
}

// Segment locates one raw buffer inside the payload.
type Segment struct {
	Shape  []int `json:"shape"`
	Offset int64 `json:"offset"`
	Size   int64 `json:"size"`
}

func dtypeToString(dt tensor.DataType) string {
	return dt.String()
}

func stringToDtype(s string) (tensor.DataType, bool) {
	return tensor.ParseDataType(s)
}

func modeToString(m uniten.StorageMode) string {
	return m.String()
}

func stringToMode(s string) (uniten.StorageMode, bool) {
	switch s {
	case "dense":
		return uniten.DenseMode, true
	case "diag":
		return uniten.DiagMode, true
	case "block":
		return uniten.BlockMode, true
	default:
		return 0, false
	}
}
