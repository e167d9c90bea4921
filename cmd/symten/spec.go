package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/symten-ml/symten/internal/bond"
	"github.com/symten-ml/symten/internal/tensor"
	"github.com/symten-ml/symten/internal/uniten"
)

// tensorSpec is the YAML description of a tensor accepted by
// `symten build`:
//
//	name: theta
//	dtype: float64
//	n_inbond: 2
//	block_form: true
//	labels: [10, 20, 30]
//	bonds:
//	  - dim: 3
//	    qnums: [[0], [1], [2]]
//	  - dim: 4
//	    qnums: [[-1], [2], [0], [2]]
//	  - dim: 5
//	    qnums: [[4], [2], [-1], [5], [1]]
type tensorSpec struct {
	Name      string     `yaml:"name"`
	DType     string     `yaml:"dtype"`
	NInbond   int        `yaml:"n_inbond"`
	Labels    []int      `yaml:"labels"`
	Diag      bool       `yaml:"diag"`
	BlockForm bool       `yaml:"block_form"`
	Bonds     []bondSpec `yaml:"bonds"`
}

type bondSpec struct {
	Dim   int     `yaml:"dim"`
	Qnums [][]int `yaml:"qnums"`
}

func loadSpec(path string) (*tensorSpec, error) {
	//nolint:gosec // G304: the path is caller-supplied on purpose
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec: %w", err)
	}
	var spec tensorSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse spec: %w", err)
	}
	if len(spec.Bonds) == 0 {
		return nil, fmt.Errorf("spec declares no bonds")
	}
	return &spec, nil
}

func (s *tensorSpec) build() (*uniten.UniTensor, error) {
	bonds := make([]*bond.Bond, len(s.Bonds))
	for i, bs := range s.Bonds {
		var (
			b   *bond.Bond
			err error
		)
		if bs.Qnums == nil {
			b, err = bond.New(bs.Dim)
		} else {
			b, err = bond.NewSym(bs.Dim, bs.Qnums)
		}
		if err != nil {
			return nil, fmt.Errorf("bond %d: %w", i, err)
		}
		bonds[i] = b
	}

	opts := []uniten.Option{uniten.WithName(s.Name)}
	if len(s.Labels) > 0 {
		opts = append(opts, uniten.WithLabels(s.Labels...))
	}
	if s.DType != "" {
		dtype, ok := tensor.ParseDataType(s.DType)
		if !ok {
			return nil, fmt.Errorf("unknown dtype %q", s.DType)
		}
		opts = append(opts, uniten.WithDType(dtype))
	}
	if s.Diag {
		opts = append(opts, uniten.AsDiag())
	}
	if s.BlockForm {
		opts = append(opts, uniten.AsBlockForm())
	}
	return uniten.New(bonds, s.NInbond, opts...)
}
