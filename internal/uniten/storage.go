package uniten

import "github.com/symten-ml/symten/internal/tensor"

// StorageMode identifies a tensor's storage variant.
type StorageMode int

const (
	// DenseMode stores every element in one rectangular buffer.
	DenseMode StorageMode = iota
	// DiagMode stores only the main diagonal of a square matrix.
	DiagMode
	// BlockMode stores one rectangular buffer per allowed symmetry sector.
	BlockMode
)

func (m StorageMode) String() string {
	switch m {
	case DenseMode:
		return "dense"
	case DiagMode:
		return "diag"
	case BlockMode:
		return "block"
	default:
		return "unknown"
	}
}

// Storage is a closed set of variants. Every structural operator
// switches on the concrete type and handles or rejects each case
// explicitly.
type Storage interface {
	Mode() StorageMode
	clone() Storage
}

// Dense holds the full buffer, shaped by the per-bond dimensions.
type Dense struct {
	Raw *tensor.RawTensor
}

func (*Dense) Mode() StorageMode { return DenseMode }
func (d *Dense) clone() Storage  { return &Dense{Raw: d.Raw.Clone()} }

// Diag holds the main diagonal of a square rank-2 tensor as a vector.
type Diag struct {
	Raw *tensor.RawTensor
}

func (*Diag) Mode() StorageMode { return DiagMode }
func (d *Diag) clone() Storage  { return &Diag{Raw: d.Raw.Clone()} }

// Blocks holds one rank-2 buffer per allowed sector. The three index
// arrays are parallel to Data: Qnums[i] identifies the sector,
// MapperIn[i] lists the combined in-bond states belonging to the
// block's rows, MapperOut[i] the combined out-bond states of its
// columns.
type Blocks struct {
	Data      []*tensor.RawTensor
	Qnums     [][]int
	MapperIn  [][]int
	MapperOut [][]int
}

func (*Blocks) Mode() StorageMode { return BlockMode }

func (b *Blocks) clone() Storage {
	cp := &Blocks{
		Data:      make([]*tensor.RawTensor, len(b.Data)),
		Qnums:     make([][]int, len(b.Qnums)),
		MapperIn:  make([][]int, len(b.MapperIn)),
		MapperOut: make([][]int, len(b.MapperOut)),
	}
	for i := range b.Data {
		cp.Data[i] = b.Data[i].Clone()
		cp.Qnums[i] = append([]int(nil), b.Qnums[i]...)
		cp.MapperIn[i] = append([]int(nil), b.MapperIn[i]...)
		cp.MapperOut[i] = append([]int(nil), b.MapperOut[i]...)
	}
	return cp
}
