package uniten

import (
	"fmt"

	"github.com/symten-ml/symten/internal/bond"
	"github.com/symten-ml/symten/internal/tensor"
)

// TotalQnums combines the in-bonds and out-bonds into two virtual
// bonds carrying the summed quantum numbers of every composite state.
// The per-state order follows the bonds as stored, without any
// normalization.
func (t *UniTensor) TotalQnums() (*bond.Bond, *bond.Bond, error) {
	if !t.Symmetric() {
		return nil, nil, ErrNotSymmetric
	}
	if t.nIn == 0 || t.nIn == len(t.bonds) {
		return nil, nil, fmt.Errorf("%w: need both in and out bonds, have %d of %d in",
			ErrBlockFormBonds, t.nIn, len(t.bonds))
	}
	cbIn, err := t.bonds[0].Combine(t.bonds[1:t.nIn]...)
	if err != nil {
		return nil, nil, err
	}
	cbOut, err := t.bonds[t.nIn].Combine(t.bonds[t.nIn+1:]...)
	if err != nil {
		return nil, nil, err
	}
	return cbIn, cbOut, nil
}

// buildBlocks derives the block partition for symmetric bonds that
// have already been normalized to the canonical per-bond state order.
// One zero-filled block is allocated per sector reachable from both
// the combined in space and the combined out space.
func buildBlocks(bonds []*bond.Bond, nIn int, dtype tensor.DataType, device tensor.Device) (*Blocks, error) {
	cbIn, err := bonds[0].Combine(bonds[1:nIn]...)
	if err != nil {
		return nil, err
	}
	cbOut, err := bonds[nIn].Combine(bonds[nIn+1:]...)
	if err != nil {
		return nil, err
	}

	common := bond.CommonRows(bond.UniqueQnums(cbIn.Qnums()), bond.UniqueQnums(cbOut.Qnums()))
	if len(common) == 0 {
		return nil, ErrNoSectors
	}

	blocks := &Blocks{
		Data:      make([]*tensor.RawTensor, len(common)),
		Qnums:     make([][]int, len(common)),
		MapperIn:  make([][]int, len(common)),
		MapperOut: make([][]int, len(common)),
	}
	inQnums, outQnums := cbIn.Qnums(), cbOut.Qnums()
	for i, q := range common {
		rows := bond.RowsMatching(inQnums, q)
		cols := bond.RowsMatching(outQnums, q)
		raw, err := tensor.NewRaw(tensor.Shape{len(rows), len(cols)}, dtype, device)
		if err != nil {
			return nil, err
		}
		blocks.Data[i] = raw
		blocks.Qnums[i] = q
		blocks.MapperIn[i] = rows
		blocks.MapperOut[i] = cols
	}
	return blocks, nil
}

// sectorIndex returns the position of q in the block list.
func (b *Blocks) sectorIndex(q []int) (int, error) {
	for i, bq := range b.Qnums {
		if bond.QnumEqual(bq, q) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %v", ErrNoSuchSector, q)
}
