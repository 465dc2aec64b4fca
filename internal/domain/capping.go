package domain

import (
	"fmt"
	"strings"
)

type Mode string

const (
	ModeCapped   Mode = "capped"
	ModeUncapped Mode = "uncapped"
)

// Method is the weighting regime that produced a proposal
type Method string

const (
	MethodMarketCap Method = "marketcap"
	MethodDaily     Method = "daily"
	MethodQuarterly Method = "quarterly"
)

const (
	RegionCopenhagen = "CPH"
	RegionHelsinki   = "HEL"
	RegionStockholm  = "STO"
)

// CappingParameters holds the capping thresholds for one region. All
// values are fractions of total index weight.
type CappingParameters struct {
	Cap                     float64 `json:"cap" yaml:"cap"`
	ExceptionCap            float64 `json:"exceptionCap" yaml:"exceptionCap"`
	ExceptionAggregateLimit float64 `json:"exceptionAggregateLimit" yaml:"exceptionAggregateLimit"`
}

func (p CappingParameters) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"cap", p.Cap},
		{"exceptionCap", p.ExceptionCap},
		{"exceptionAggregateLimit", p.ExceptionAggregateLimit},
	}
	for _, f := range fields {
		if f.value < 0 || f.value > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %f", f.name, f.value)
		}
	}
	return nil
}

// DefaultParameters apply to any region without its own preset
var DefaultParameters = CappingParameters{
	Cap:                     0.045,
	ExceptionCap:            0.07,
	ExceptionAggregateLimit: 0.36,
}

// ParamsTable maps an upper-case region code to its parameters
type ParamsTable map[string]CappingParameters

func DefaultParamsTable() ParamsTable {
	return ParamsTable{
		RegionCopenhagen: DefaultParameters,
		RegionHelsinki:   DefaultParameters,
		RegionStockholm: {
			Cap:                     0.045,
			ExceptionCap:            0.09,
			ExceptionAggregateLimit: 0.36,
		},
	}
}

// Lookup is case-insensitive and falls back to DefaultParameters
func (t ParamsTable) Lookup(region string) CappingParameters {
	if p, ok := t[NormalizeRegion(region)]; ok {
		return p
	}
	return DefaultParameters
}

func NormalizeRegion(region string) string {
	return strings.ToUpper(strings.TrimSpace(region))
}
