package calculator

import "indexcap/internal/domain"

// DistributeWeights splits each issuer's final weight across its
// securities in proportion to their market cap. The output has one row
// per constituent in the original input order. An issuer with zero
// aggregate market cap passes nothing down to its members, whatever
// weight it was given.
func DistributeWeights(
	constituents []domain.Constituent,
	groups []domain.IssuerGroup,
	issuerWeights map[string]float64,
) []domain.ProposedConstituent {
	aggregateByIssuer := make(map[string]float64, len(groups))
	for _, g := range groups {
		aggregateByIssuer[g.IssuerID] = g.AggregateMarketCap
	}

	out := make([]domain.ProposedConstituent, 0, len(constituents))
	for _, c := range constituents {
		share := 0.0
		if aggregate := aggregateByIssuer[c.Issuer]; aggregate != 0 {
			share = c.MarketCap / aggregate
		}
		newWeight := issuerWeights[c.Issuer] * share

		out = append(out, domain.ProposedConstituent{
			Ticker:       c.Ticker,
			Issuer:       c.Issuer,
			Price:        c.Price,
			MarketCap:    c.MarketCap,
			Avg30dVolume: c.Avg30dVolume,
			OldWeight:    c.CurrentWeight,
			NewWeight:    newWeight,
			Capped:       newWeight < c.CurrentWeight,
		})
	}
	return out
}
