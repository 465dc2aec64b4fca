package util

import (
	"fmt"
	"indexcap/internal/domain"
	"os"

	"gopkg.in/yaml.v3"
)

type paramsFile struct {
	Regions map[string]domain.CappingParameters `yaml:"regions"`
}

// LoadParamsTable reads region capping parameters from a YAML file:
//
//	regions:
//	  STO:
//	    cap: 0.045
//	    exceptionCap: 0.09
//	    exceptionAggregateLimit: 0.36
//
// Regions in the file override the built-in presets; the rest are kept.
// An empty path returns the built-in presets.
func LoadParamsTable(path string) (domain.ParamsTable, error) {
	table := domain.DefaultParamsTable()
	if path == "" {
		return table, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read params file: %w", err)
	}

	f := paramsFile{}
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("failed to parse params file %s: %w", path, err)
	}

	for region, p := range f.Regions {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid params for region %s: %w", region, err)
		}
		table[domain.NormalizeRegion(region)] = p
	}

	return table, nil
}
