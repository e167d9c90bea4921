// Package uniten implements symmetry-aware tensors. A UniTensor pairs
// an ordered list of bonds with distinct integer labels and a split of
// the axes into in-bonds and out-bonds; when the bonds carry quantum
// numbers, only the sectors allowed by the conservation law hold data.
package uniten

import (
	"fmt"
	"sync"

	"github.com/symten-ml/symten/internal/backend/cpu"
	"github.com/symten-ml/symten/internal/bond"
	"github.com/symten-ml/symten/internal/tensor"
)

var (
	defaultBackendOnce sync.Once
	defaultBackendInst tensor.Backend
)

func defaultBackend() tensor.Backend {
	defaultBackendOnce.Do(func() {
		defaultBackendInst = cpu.New()
	})
	return defaultBackendInst
}

// UniTensor is a tensor whose axes are bonds. The first nIn bonds are
// the in-bonds (rows of the implicit matrix view), the rest out-bonds.
// Bonds, labels, and storage are owned exclusively by the tensor and
// only ever replaced together.
type UniTensor struct {
	bonds   []*bond.Bond
	labels  []int
	nIn     int
	name    string
	dtype   tensor.DataType
	backend tensor.Backend
	storage Storage
}

// Option configures tensor construction.
type Option func(*options)

type options struct {
	labels    []int
	name      string
	dtype     tensor.DataType
	backend   tensor.Backend
	diag      bool
	blockForm bool
}

// WithLabels sets explicit bond labels. Defaults to 0..rank-1.
func WithLabels(labels ...int) Option {
	return func(o *options) { o.labels = append([]int(nil), labels...) }
}

// WithName attaches a display name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithDType selects the element type. Defaults to Float64.
func WithDType(dtype tensor.DataType) Option {
	return func(o *options) { o.dtype = dtype }
}

// WithBackend selects the compute backend. Defaults to the CPU backend.
func WithBackend(b tensor.Backend) Option {
	return func(o *options) { o.backend = b }
}

// AsDiag stores only the main diagonal. Requires a square rank-2
// tensor with one in-bond and plain bonds.
func AsDiag() Option {
	return func(o *options) { o.diag = true }
}

// AsBlockForm decomposes the tensor into its allowed symmetry sectors.
// Each bond's states are re-ordered into the canonical descending
// lexicographic quantum-number order as part of construction.
func AsBlockForm() Option {
	return func(o *options) { o.blockForm = true }
}

// New constructs a zero-initialized tensor over the given bonds with
// the first nIn bonds on the in side.
func New(bonds []*bond.Bond, nIn int, opts ...Option) (*UniTensor, error) {
	o := options{dtype: tensor.Float64}
	for _, opt := range opts {
		opt(&o)
	}
	if o.backend == nil {
		o.backend = defaultBackend()
	}

	rank := len(bonds)
	if nIn < 0 || nIn > rank {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidInbond, nIn, rank)
	}
	labels := o.labels
	if labels == nil {
		labels = make([]int, rank)
		for i := range labels {
			labels[i] = i
		}
	}
	if len(labels) != rank {
		return nil, fmt.Errorf("%w: %d labels for %d bonds", ErrLabelCount, len(labels), rank)
	}
	if err := checkDistinct(labels); err != nil {
		return nil, err
	}
	if o.diag && o.blockForm {
		return nil, ErrDiagBlockForm
	}

	symmetric, err := checkSymmetry(bonds)
	if err != nil {
		return nil, err
	}

	t := &UniTensor{
		labels:  labels,
		nIn:     nIn,
		name:    o.name,
		dtype:   o.dtype,
		backend: o.backend,
	}

	switch {
	case o.diag:
		if symmetric {
			return nil, fmt.Errorf("%w: diagonal storage holds plain bonds only", ErrDiagShape)
		}
		if rank != 2 || nIn != 1 || bonds[0].Dim() != bonds[1].Dim() {
			return nil, ErrDiagShape
		}
		raw, err := tensor.NewRaw(tensor.Shape{bonds[0].Dim()}, o.dtype, o.backend.Device())
		if err != nil {
			return nil, err
		}
		t.bonds = cloneBonds(bonds)
		t.storage = &Diag{Raw: raw}

	case o.blockForm:
		if !symmetric || nIn < 1 || nIn > rank-1 {
			return nil, ErrBlockFormBonds
		}
		normalized := make([]*bond.Bond, rank)
		for i, b := range bonds {
			normalized[i] = b.Normalized()
		}
		blocks, err := buildBlocks(normalized, nIn, o.dtype, o.backend.Device())
		if err != nil {
			return nil, err
		}
		t.bonds = normalized
		t.storage = blocks

	default:
		raw, err := tensor.NewRaw(bondShape(bonds), o.dtype, o.backend.Device())
		if err != nil {
			return nil, err
		}
		t.bonds = cloneBonds(bonds)
		t.storage = &Dense{Raw: raw}
	}

	return t, nil
}

// FromRaw wraps an existing buffer as a dense tensor. This is the
// trusted construction path: the buffer shape must already equal the
// per-bond dimensions.
func FromRaw(raw *tensor.RawTensor, bonds []*bond.Bond, nIn int, opts ...Option) (*UniTensor, error) {
	t, err := New(bonds, nIn, opts...)
	if err != nil {
		return nil, err
	}
	d, ok := t.storage.(*Dense)
	if !ok {
		return nil, fmt.Errorf("%w: FromRaw builds dense tensors only", ErrStorageMismatch)
	}
	if !raw.Shape().Equal(d.Raw.Shape()) {
		return nil, fmt.Errorf("buffer shape %v does not match bond dimensions %v", raw.Shape(), d.Raw.Shape())
	}
	t.dtype = raw.DType()
	d.Raw = raw
	return t, nil
}

func checkDistinct(labels []int) error {
	seen := make(map[int]struct{}, len(labels))
	for _, l := range labels {
		if _, dup := seen[l]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateLabel, l)
		}
		seen[l] = struct{}{}
	}
	return nil
}

// checkSymmetry enforces the all-or-nothing symmetry rule and a
// uniform channel count.
func checkSymmetry(bonds []*bond.Bond) (bool, error) {
	if len(bonds) == 0 {
		return false, nil
	}
	sym := bonds[0].HasSym()
	for _, b := range bonds[1:] {
		if b.HasSym() != sym {
			return false, ErrMixedSymmetry
		}
	}
	if sym {
		nsym := bonds[0].Nsym()
		for _, b := range bonds[1:] {
			if b.Nsym() != nsym {
				return false, fmt.Errorf("%w: %d vs %d", ErrChannelMismatch, nsym, b.Nsym())
			}
		}
	}
	return sym, nil
}

func cloneBonds(bonds []*bond.Bond) []*bond.Bond {
	cp := make([]*bond.Bond, len(bonds))
	for i, b := range bonds {
		cp[i] = b.Clone()
	}
	return cp
}

func bondShape(bonds []*bond.Bond) tensor.Shape {
	shape := make(tensor.Shape, len(bonds))
	for i, b := range bonds {
		shape[i] = b.Dim()
	}
	return shape
}

// Rank returns the number of bonds.
func (t *UniTensor) Rank() int { return len(t.bonds) }

// NInbond returns the number of in-bonds.
func (t *UniTensor) NInbond() int { return t.nIn }

// Bonds returns deep copies of the bonds.
func (t *UniTensor) Bonds() []*bond.Bond { return cloneBonds(t.bonds) }

// Bond returns a deep copy of bond i.
func (t *UniTensor) Bond(i int) *bond.Bond { return t.bonds[i].Clone() }

// Labels returns a copy of the labels.
func (t *UniTensor) Labels() []int { return append([]int(nil), t.labels...) }

// Name returns the display name.
func (t *UniTensor) Name() string { return t.name }

// SetName sets the display name.
func (t *UniTensor) SetName(name string) { t.name = name }

// DType returns the element type.
func (t *UniTensor) DType() tensor.DataType { return t.dtype }

// Backend returns the compute backend.
func (t *UniTensor) Backend() tensor.Backend { return t.backend }

// Mode returns the storage variant.
func (t *UniTensor) Mode() StorageMode { return t.storage.Mode() }

// Storage exposes the storage variant for collaborators that persist
// or print the tensor. Callers must not mutate it.
func (t *UniTensor) Storage() Storage { return t.storage }

// Symmetric reports whether the bonds carry quantum numbers.
func (t *UniTensor) Symmetric() bool {
	return len(t.bonds) > 0 && t.bonds[0].HasSym()
}

// Nsym returns the number of symmetry channels, 0 when plain.
func (t *UniTensor) Nsym() int {
	if len(t.bonds) == 0 {
		return 0
	}
	return t.bonds[0].Nsym()
}

// Shape returns the per-bond dimensions.
func (t *UniTensor) Shape() tensor.Shape { return bondShape(t.bonds) }

// SetLabel renames the bond at axis idx. The new label must not
// collide with any other label.
func (t *UniTensor) SetLabel(idx, label int) error {
	if idx < 0 || idx >= len(t.labels) {
		return fmt.Errorf("axis %d out of range for rank %d", idx, len(t.labels))
	}
	for i, l := range t.labels {
		if i != idx && l == label {
			return fmt.Errorf("%w: %d", ErrLabelInUse, label)
		}
	}
	t.labels[idx] = label
	return nil
}

// SetLabels replaces all labels at once.
func (t *UniTensor) SetLabels(labels []int) error {
	if len(labels) != len(t.bonds) {
		return fmt.Errorf("%w: %d labels for %d bonds", ErrLabelCount, len(labels), len(t.bonds))
	}
	if err := checkDistinct(labels); err != nil {
		return err
	}
	t.labels = append([]int(nil), labels...)
	return nil
}

// labelIndex resolves a label to its axis position.
func (t *UniTensor) labelIndex(label int) (int, error) {
	for i, l := range t.labels {
		if l == label {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %d", ErrLabelNotFound, label)
}

// replace swaps in new bonds, labels, in-bond count, and storage as
// one unit so the four never drift apart.
func (t *UniTensor) replace(bonds []*bond.Bond, labels []int, nIn int, storage Storage) {
	t.bonds = bonds
	t.labels = labels
	t.nIn = nIn
	t.storage = storage
}

// Clone returns an independent deep copy.
func (t *UniTensor) Clone() *UniTensor {
	return &UniTensor{
		bonds:   cloneBonds(t.bonds),
		labels:  append([]int(nil), t.labels...),
		nIn:     t.nIn,
		name:    t.name,
		dtype:   t.dtype,
		backend: t.backend,
		storage: t.storage.clone(),
	}
}

// Eq reports structural and elementwise equality: same bonds, labels,
// in-bond split, storage mode, and buffer contents.
func (t *UniTensor) Eq(other *UniTensor) bool {
	if t.Rank() != other.Rank() || t.nIn != other.nIn || t.dtype != other.dtype {
		return false
	}
	if t.storage.Mode() != other.storage.Mode() {
		return false
	}
	for i := range t.bonds {
		if t.labels[i] != other.labels[i] || !t.bonds[i].Eq(other.bonds[i]) {
			return false
		}
	}
	switch s := t.storage.(type) {
	case *Dense:
		return rawEqual(s.Raw, other.storage.(*Dense).Raw)
	case *Diag:
		return rawEqual(s.Raw, other.storage.(*Diag).Raw)
	case *Blocks:
		o := other.storage.(*Blocks)
		if len(s.Data) != len(o.Data) {
			return false
		}
		for i := range s.Data {
			if !bond.QnumEqual(s.Qnums[i], o.Qnums[i]) || !rawEqual(s.Data[i], o.Data[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func rawEqual(a, b *tensor.RawTensor) bool {
	if !a.Shape().Equal(b.Shape()) {
		return false
	}
	n := a.NumElements()
	for i := 0; i < n; i++ {
		if a.At(i) != b.At(i) {
			return false
		}
	}
	return true
}

// Rand fills the stored elements with uniform values in [0, 1).
// Block-form tensors only populate their allowed sectors. Dense
// symmetric tensors are rejected: a blanket fill would write nonzero
// values into elements outside every allowed sector.
func (t *UniTensor) Rand() error {
	switch s := t.storage.(type) {
	case *Dense:
		if t.Symmetric() {
			return fmt.Errorf("%w: Rand on dense storage", ErrSymmetricOp)
		}
		t.backend.Rand(s.Raw)
	case *Diag:
		t.backend.Rand(s.Raw)
	case *Blocks:
		for _, blk := range s.Data {
			t.backend.Rand(blk)
		}
	}
	return nil
}
