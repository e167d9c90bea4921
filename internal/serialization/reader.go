package serialization

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/symten-ml/symten/internal/bond"
	"github.com/symten-ml/symten/internal/tensor"
	"github.com/symten-ml/symten/internal/uniten"
)

// Load reads a tensor from a .symt file.
func Load(path string, opts ...uniten.Option) (*uniten.UniTensor, error) {
	//nolint:gosec // G304: the path is caller-supplied on purpose
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return Read(file, opts...)
}

// Read parses a .symt stream. The tensor is rebuilt through the
// ordinary constructors, so every structural invariant is re-checked;
// a file whose stored block layout disagrees with its own bonds is
// rejected rather than trusted.
func Read(r io.Reader, opts ...uniten.Option) (*uniten.UniTensor, error) {
	magic := make([]byte, len(MagicBytes))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if string(magic) != MagicBytes {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagic, magic)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("failed to read version: %w", err)
	}
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	var stored [32]byte
	if _, err := io.ReadFull(r, stored[:]); err != nil {
		return nil, fmt.Errorf("failed to read checksum: %w", err)
	}

	var payloadSize int64
	for _, seg := range header.Tensor.Segments {
		if end := seg.Offset + seg.Size; end > payloadSize {
			payloadSize = end
		}
	}
	payload := make([]byte, payloadSize)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	if err := ValidateChecksum(ComputeChecksum(payload), stored); err != nil {
		return nil, err
	}

	return decode(header.Tensor, payload, opts...)
}

func decode(meta TensorMeta, payload []byte, opts ...uniten.Option) (*uniten.UniTensor, error) {
	dtype, ok := stringToDtype(meta.DType)
	if !ok {
		return nil, fmt.Errorf("unknown dtype %q", meta.DType)
	}
	mode, ok := stringToMode(meta.Mode)
	if !ok {
		return nil, fmt.Errorf("unknown storage mode %q", meta.Mode)
	}

	bonds := make([]*bond.Bond, len(meta.Bonds))
	for i, bm := range meta.Bonds {
		var (
			b   *bond.Bond
			err error
		)
		if bm.Qnums == nil {
			b, err = bond.New(bm.Dim)
		} else {
			b, err = bond.NewSym(bm.Dim, bm.Qnums)
		}
		if err != nil {
			return nil, fmt.Errorf("bond %d: %w", i, err)
		}
		bonds[i] = b
	}

	common := append([]uniten.Option{
		uniten.WithLabels(meta.Labels...),
		uniten.WithName(meta.Name),
		uniten.WithDType(dtype),
	}, opts...)

	segment := func(i int) (*tensor.RawTensor, error) {
		seg := meta.Segments[i]
		raw, err := tensor.NewRaw(tensor.Shape(seg.Shape), dtype, tensor.CPU)
		if err != nil {
			return nil, err
		}
		if int64(len(raw.Data())) != seg.Size {
			return nil, fmt.Errorf("%w: segment %d size %d, expected %d", ErrCorruptLayout, i, seg.Size, len(raw.Data()))
		}
		copy(raw.Data(), payload[seg.Offset:seg.Offset+seg.Size])
		return raw, nil
	}

	switch mode {
	case uniten.DenseMode:
		if len(meta.Segments) != 1 {
			return nil, fmt.Errorf("%w: dense tensor with %d segments", ErrCorruptLayout, len(meta.Segments))
		}
		raw, err := segment(0)
		if err != nil {
			return nil, err
		}
		return uniten.FromRaw(raw, bonds, meta.NInbond, common...)

	case uniten.DiagMode:
		if len(meta.Segments) != 1 {
			return nil, fmt.Errorf("%w: diagonal tensor with %d segments", ErrCorruptLayout, len(meta.Segments))
		}
		raw, err := segment(0)
		if err != nil {
			return nil, err
		}
		u, err := uniten.New(bonds, meta.NInbond, append(common, uniten.AsDiag())...)
		if err != nil {
			return nil, err
		}
		for i := 0; i < raw.NumElements(); i++ {
			if err := u.SetElem(raw.At(i), i, i); err != nil {
				return nil, err
			}
		}
		return u, nil

	case uniten.BlockMode:
		u, err := uniten.New(bonds, meta.NInbond, append(common, uniten.AsBlockForm())...)
		if err != nil {
			return nil, err
		}
		if len(meta.Blocks) != len(meta.Segments) {
			return nil, fmt.Errorf("%w: %d blocks, %d segments", ErrCorruptLayout, len(meta.Blocks), len(meta.Segments))
		}
		for i, bm := range meta.Blocks {
			raw, err := segment(i)
			if err != nil {
				return nil, err
			}
			blk, err := wrapRank2(raw)
			if err != nil {
				return nil, err
			}
			if err := u.PutBlock(blk, bm.Qnum...); err != nil {
				return nil, fmt.Errorf("%w: block %d: %v", ErrCorruptLayout, i, err)
			}
		}
		return u, nil
	}
	return nil, fmt.Errorf("unknown storage mode %q", meta.Mode)
}

func wrapRank2(raw *tensor.RawTensor) (*uniten.UniTensor, error) {
	shape := raw.Shape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("%w: block of rank %d", ErrCorruptLayout, len(shape))
	}
	b0, err := bond.New(shape[0])
	if err != nil {
		return nil, err
	}
	b1, err := bond.New(shape[1])
	if err != nil {
		return nil, err
	}
	return uniten.FromRaw(raw, []*bond.Bond{b0, b1}, 1)
}
