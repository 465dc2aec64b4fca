package calculator

import (
	"indexcap/internal/domain"
	"sort"
)

// AggregateIssuers groups constituents by issuer and computes each
// issuer's share of total market cap. Groups come back sorted by
// aggregate market cap, largest first; ties keep the order in which
// the issuers were first seen, which the quarterly exception
// selection depends on.
func AggregateIssuers(constituents []domain.Constituent) []domain.IssuerGroup {
	groups := []domain.IssuerGroup{}
	indexByIssuer := map[string]int{}

	for _, c := range constituents {
		i, ok := indexByIssuer[c.Issuer]
		if !ok {
			i = len(groups)
			indexByIssuer[c.Issuer] = i
			groups = append(groups, domain.IssuerGroup{
				IssuerID: c.Issuer,
			})
		}
		groups[i].Members = append(groups[i].Members, c)
		groups[i].AggregateMarketCap += c.MarketCap
	}

	total := 0.0
	for _, g := range groups {
		total += g.AggregateMarketCap
	}
	if total > 0 {
		for i := range groups {
			groups[i].InitialWeight = groups[i].AggregateMarketCap / total
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].AggregateMarketCap > groups[j].AggregateMarketCap
	})

	return groups
}
