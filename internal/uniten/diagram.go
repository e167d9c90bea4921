package uniten

import (
	"fmt"
	"strings"
)

// String is a one-line summary for logs and errors.
func (t *UniTensor) String() string {
	var sb strings.Builder
	sb.WriteString("UniTensor(")
	if t.name != "" {
		fmt.Fprintf(&sb, "name=%q, ", t.name)
	}
	fmt.Fprintf(&sb, "rank=%d, n_inbond=%d, labels=%v, shape=%v, mode=%s, dtype=%s",
		t.Rank(), t.nIn, t.labels, t.Shape(), t.Mode(), t.dtype)
	if t.Symmetric() {
		fmt.Fprintf(&sb, ", nsym=%d", t.Nsym())
	}
	sb.WriteString(")")
	return sb.String()
}

// Diagram renders the tensor as a box with in-bonds on the left and
// out-bonds on the right, one row per bond pair:
//
//	       -----------
//	0 __3 |           | 5__ 2
//	       -----------
func (t *UniTensor) Diagram() string {
	var sb strings.Builder
	if t.name != "" {
		fmt.Fprintf(&sb, "tensor name: %s\n", t.name)
	}
	fmt.Fprintf(&sb, "storage: %s, dtype: %s\n", t.Mode(), t.dtype)

	type side struct {
		label, dim int
	}
	var ins, outs []side
	for i, b := range t.bonds {
		if i < t.nIn {
			ins = append(ins, side{t.labels[i], b.Dim()})
		} else {
			outs = append(outs, side{t.labels[i], b.Dim()})
		}
	}

	rows := len(ins)
	if len(outs) > rows {
		rows = len(outs)
	}

	sb.WriteString("        -----------\n")
	for r := 0; r < rows; r++ {
		left, right := "          ", ""
		if r < len(ins) {
			left = fmt.Sprintf("%3d __%-3d ", ins[r].label, ins[r].dim)
		}
		if r < len(outs) {
			right = fmt.Sprintf(" %3d__ %d", outs[r].dim, outs[r].label)
		}
		fmt.Fprintf(&sb, "%s|           |%s\n", left, right)
	}
	sb.WriteString("        -----------\n")
	return sb.String()
}
