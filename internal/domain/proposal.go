package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Proposal is the output of one rebalancing computation. It is
// created once and never mutated after it is returned.
type Proposal struct {
	IndexID  string                `json:"indexId"`
	Meta     ProposalMeta          `json:"meta"`
	Proposed []ProposedConstituent `json:"proposed"`
	Issuers  []IssuerWeight        `json:"issuers"`
	Summary  ProposalSummary       `json:"summary"`

	// MassConserved is false when the proposed weights do not sum to
	// one, which happens when every issuer ends up locked and nothing
	// is left to absorb the residual budget
	MassConserved  bool    `json:"massConserved"`
	ResidualWeight float64 `json:"residualWeight"`

	// CapBreached is true when the daily method returned with an issuer
	// above max(cap, exceptionCap). Those issuers carry a "cap breach" flag.
	CapBreached bool `json:"capBreached"`
}

type ProposalMeta struct {
	GeneratedAt time.Time         `json:"generatedAt"`
	Method      Method            `json:"method"`
	Region      string            `json:"region"`
	Params      CappingParameters `json:"params"`
}

type ProposedConstituent struct {
	Ticker    string   `json:"ticker"`
	Issuer    string   `json:"issuer"`
	Price     float64  `json:"price"`
	MarketCap float64  `json:"marketCap"`
	OldWeight float64  `json:"oldWeight"`
	NewWeight float64  `json:"newWeight"`
	Capped    bool     `json:"capped"`
	Flags     []string `json:"flags,omitempty"`

	Avg30dVolume float64 `json:"avg30dVolume"`
}

// Lock values recorded on an issuer by the capping engine
const (
	LockNone      = ""
	LockException = "exception"
	LockCap       = "cap"
)

type IssuerWeight struct {
	Issuer             string   `json:"issuer"`
	AggregateMarketCap float64  `json:"aggregateMarketCap"`
	InitialWeight      float64  `json:"initialWeight"`
	CurrentWeight      float64  `json:"currentWeight"`
	FinalWeight        float64  `json:"finalWeight"`
	Locked             string   `json:"locked,omitempty"`
	Flags              []string `json:"flags,omitempty"`
}

type ProposalSummary struct {
	Constituents    int     `json:"constituents"`
	Issuers         int     `json:"issuers"`
	CappedCount     int     `json:"cappedCount"`
	TotalNewWeight  float64 `json:"totalNewWeight"`
	MaxIssuerWeight float64 `json:"maxIssuerWeight"`
	MedianNewWeight float64 `json:"medianNewWeight"`
	Turnover        float64 `json:"turnover"`
}

// ProFormaRow sizes the trade needed to move one constituent from its
// current weight to the proposed weight for a fund of a given size
type ProFormaRow struct {
	Ticker       string          `json:"ticker"`
	Issuer       string          `json:"issuer"`
	Price        float64         `json:"price"`
	MarketCap    float64         `json:"marketCap"`
	OldWeight    float64         `json:"oldWeight"`
	NewWeight    float64         `json:"newWeight"`
	DeltaWeight  float64         `json:"deltaWeight"`
	DeltaAmount  decimal.Decimal `json:"deltaAmount"`
	DeltaShares  decimal.Decimal `json:"deltaShares"`
	DaysToCover  float64         `json:"daysToCover"`
	Avg30dVolume float64         `json:"avg30dVolume"`
}
