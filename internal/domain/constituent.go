package domain

// RawConstituent is a constituent record as delivered by an upstream
// source. Fields are loosely typed because feeds disagree on whether
// numbers arrive as numbers or strings; normalization coerces them.
type RawConstituent struct {
	Ticker        any `json:"ticker"`
	Issuer        any `json:"issuer"`
	Price         any `json:"price"`
	MarketCap     any `json:"marketCap"`
	Avg30dVolume  any `json:"avg30dVolume"`
	CurrentWeight any `json:"currentWeight"`

	// only used when MarketCap is missing
	Shares any `json:"shares,omitempty"`
}

// Constituent is a normalized security in the index universe. All
// numeric fields are non-negative and Issuer is never empty.
type Constituent struct {
	Ticker        string  `json:"ticker"`
	Issuer        string  `json:"issuer"`
	Price         float64 `json:"price"`
	MarketCap     float64 `json:"marketCap"`
	Avg30dVolume  float64 `json:"avg30dVolume"`
	CurrentWeight float64 `json:"currentWeight"`
}

// IssuerGroup is built fresh for each computation and discarded after
// the weights are distributed
type IssuerGroup struct {
	IssuerID           string
	AggregateMarketCap float64
	InitialWeight      float64
	Members            []Constituent
}

// CurrentWeight is the sum of the members' current index weights
func (g IssuerGroup) CurrentWeight() float64 {
	total := 0.0
	for _, m := range g.Members {
		total += m.CurrentWeight
	}
	return total
}
