package persist

import (
	"os"

	"github.com/fumin/nutcracker/mps"
	"github.com/fumin/tensor"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// complexEntry round-trips a single matrix element: a plain scalar when the
// imaginary part is zero, a [re, im] pair otherwise, matching the documented
// persistent format.
type complexEntry complex64

func (c complexEntry) MarshalYAML() (interface{}, error) {
	re, im := float64(real(c)), float64(imag(c))
	if im == 0 {
		return re, nil
	}
	return []float64{re, im}, nil
}

func (c *complexEntry) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var re float64
		if err := value.Decode(&re); err != nil {
			return errors.WithMessage(err, "persist: decode real scalar")
		}
		*c = complexEntry(complex(float32(re), 0))
		return nil
	case yaml.SequenceNode:
		var pair []float64
		if err := value.Decode(&pair); err != nil {
			return errors.WithMessage(err, "persist: decode [re, im] pair")
		}
		if len(pair) != 2 {
			return errors.Errorf("persist: complex entry must have exactly 2 elements, got %d", len(pair))
		}
		*c = complexEntry(complex(float32(pair[0]), float32(pair[1])))
		return nil
	default:
		return errors.Errorf("persist: unexpected YAML node kind %v for a complex value", value.Kind)
	}
}

type yamlMatrix struct {
	From int            `yaml:"from"`
	To   int            `yaml:"to"`
	Data []complexEntry `yaml:"data"`
}

type yamlSite struct {
	PhysicalDimension int          `yaml:"physical dimension"`
	LeftDimension     int          `yaml:"left dimension"`
	RightDimension    int          `yaml:"right dimension"`
	Matrices          []yamlMatrix `yaml:"matrices"`
}

type yamlDocument struct {
	Sequence []int      `yaml:"sequence"`
	Sites    []yamlSite `yaml:"sites"`
}

// MarshalOperatorSites serializes a chain of operator sites to the
// documented YAML format. Every chain position is written as its own site
// type (the sequence is the identity permutation); a document whose
// sequence reuses one site type across several positions is still accepted
// on read.
func MarshalOperatorSites(mpo []*mps.OperatorSite) ([]byte, error) {
	doc := yamlDocument{
		Sequence: make([]int, len(mpo)),
		Sites:    make([]yamlSite, len(mpo)),
	}
	for i, op := range mpo {
		doc.Sequence[i] = i + 1

		matrices := make([]yamlMatrix, op.NumberOfMatrices())
		for k, m := range op.Matrices {
			data := make([]complexEntry, 0, op.PhysicalDimension*op.PhysicalDimension)
			for ij := range m.All() {
				data = append(data, complexEntry(m.At(ij...)))
			}
			matrices[k] = yamlMatrix{From: op.Indices[k][0], To: op.Indices[k][1], Data: data}
		}
		doc.Sites[i] = yamlSite{
			PhysicalDimension: op.PhysicalDimension,
			LeftDimension:     op.LeftDimension,
			RightDimension:    op.RightDimension,
			Matrices:          matrices,
		}
	}
	return yaml.Marshal(doc)
}

// UnmarshalOperatorSites parses the documented YAML format back into a
// chain of operator sites.
func UnmarshalOperatorSites(data []byte) ([]*mps.OperatorSite, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WithMessage(err, "persist: unmarshal YAML document")
	}

	mpo := make([]*mps.OperatorSite, len(doc.Sequence))
	for i, seqIdx := range doc.Sequence {
		if seqIdx < 1 || seqIdx > len(doc.Sites) {
			return nil, &MalformedDocumentError{SequenceIndex: seqIdx, NumberOfSites: len(doc.Sites)}
		}
		site := doc.Sites[seqIdx-1]

		matrices := make([]*tensor.Dense, len(site.Matrices))
		indices := make([][2]int, len(site.Matrices))
		for k, m := range site.Matrices {
			if len(m.Data) != site.PhysicalDimension*site.PhysicalDimension {
				return nil, errors.WithMessagef(
					&mps.WrongDataLengthError{Got: len(m.Data), Want: site.PhysicalDimension * site.PhysicalDimension},
					"persist: matrix %d of site %d", k, seqIdx)
			}
			flat := make([]complex64, len(m.Data))
			for j, c := range m.Data {
				flat[j] = complex64(c)
			}
			matrices[k] = tensor.T1(flat).Reshape(site.PhysicalDimension, site.PhysicalDimension)
			indices[k] = [2]int{m.From, m.To}
		}

		op, err := mps.NewOperatorSite(site.PhysicalDimension, site.LeftDimension, site.RightDimension, matrices, indices)
		if err != nil {
			return nil, errors.WithMessagef(err, "persist: site %d", i)
		}
		mpo[i] = op
	}
	return mpo, nil
}

// LoadOperatorSites reads and parses an MPO from the given YAML file.
func LoadOperatorSites(path string) ([]*mps.OperatorSite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NoSuchLocationError{Path: path}
		}
		return nil, errors.WithMessagef(err, "persist: read %q", path)
	}
	return UnmarshalOperatorSites(data)
}

// SaveOperatorSites writes mpo to path in the documented YAML format,
// refusing to overwrite an existing file unless overwrite is true.
func SaveOperatorSites(path string, mpo []*mps.OperatorSite, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return &OutputFileAlreadyExistsError{Path: path}
		} else if !os.IsNotExist(err) {
			return errors.WithMessagef(err, "persist: stat %q", path)
		}
	}
	data, err := MarshalOperatorSites(mpo)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WithMessagef(err, "persist: write %q", path)
	}
	return nil
}
