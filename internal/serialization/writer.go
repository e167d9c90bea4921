package serialization

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"github.com/symten-ml/symten/internal/tensor"
	"github.com/symten-ml/symten/internal/uniten"
)

// Save writes a tensor to path in .symt format.
func Save(u *uniten.UniTensor, path string) error {
	//nolint:gosec // G304: the path is caller-supplied on purpose
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()
	return Write(u, file)
}

// Write streams a tensor to w in .symt format.
func Write(u *uniten.UniTensor, w io.Writer) error {
	meta, payload, err := encode(u)
	if err != nil {
		return err
	}

	header := Header{
		FormatVersion:  FormatVersion,
		LibraryVersion: libraryVersion,
		CreatedAt:      time.Now().UTC(),
		Tensor:         meta,
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if _, err := io.WriteString(w, MagicBytes); err != nil {
		return fmt.Errorf("failed to write magic bytes: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(FormatVersion)); err != nil {
		return fmt.Errorf("failed to write version: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	checksum := ComputeChecksum(payload)
	if _, err := w.Write(checksum[:]); err != nil {
		return fmt.Errorf("failed to write checksum: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	return nil
}

// encode flattens the tensor into header metadata plus the raw
// payload bytes, one segment per stored buffer.
func encode(u *uniten.UniTensor) (TensorMeta, []byte, error) {
	meta := TensorMeta{
		Name:    u.Name(),
		DType:   dtypeToString(u.DType()),
		Mode:    modeToString(u.Mode()),
		NInbond: u.NInbond(),
		Labels:  u.Labels(),
	}
	for _, b := range u.Bonds() {
		meta.Bonds = append(meta.Bonds, BondMeta{Dim: b.Dim(), Qnums: b.Qnums()})
	}

	var payload []byte
	appendSegment := func(raw *tensor.RawTensor) {
		data := raw.Data()
		meta.Segments = append(meta.Segments, Segment{
			Shape:  raw.Shape(),
			Offset: int64(len(payload)),
			Size:   int64(len(data)),
		})
		payload = append(payload, data...)
	}

	switch s := u.Storage().(type) {
	case *uniten.Dense:
		appendSegment(s.Raw)
	case *uniten.Diag:
		appendSegment(s.Raw)
	case *uniten.Blocks:
		for i, blk := range s.Data {
			meta.Blocks = append(meta.Blocks, BlockMeta{
				Qnum:      s.Qnums[i],
				Shape:     blk.Shape(),
				MapperIn:  s.MapperIn[i],
				MapperOut: s.MapperOut[i],
			})
			appendSegment(blk)
		}
	default:
		return TensorMeta{}, nil, fmt.Errorf("unknown storage mode %s", u.Mode())
	}
	return meta, payload, nil
}
