package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BaselineFile is the on-disk format for policy baseline weights.
//
// Example:
//
//	dimensions:
//	  care: 0.95
//	  truth: 0.97
type BaselineFile struct {
	Dimensions map[string]float64 `yaml:"dimensions"`
}

// LoadBaselines reads baseline weights from a YAML file. Every key must be a
// member of the closed dimension set and every weight must lie in [0, 1];
// dimensions absent from the file keep their default baseline.
func LoadBaselines(path string) (map[Dimension]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file %q: %w", path, err)
	}

	var file BaselineFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse baseline file %q: %w", path, err)
	}

	baselines := DefaultBaselines()
	for name, weight := range file.Dimensions {
		dim := Dimension(name)
		if !ValidDimension(dim) {
			return nil, fmt.Errorf("baseline file %q: %w: %q", path, ErrUnknownDimension, name)
		}
		if weight < 0 || weight > 1 {
			return nil, fmt.Errorf("baseline file %q: dimension %q weight %v outside [0,1]", path, name, weight)
		}
		baselines[dim] = weight
	}

	return baselines, nil
}
