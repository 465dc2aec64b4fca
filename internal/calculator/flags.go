package calculator

import (
	"indexcap/internal/domain"
	"sort"
)

const (
	FlagConcentrationBreach = "10% breach"
	FlagAggregateBreach     = "40% breach"
	// final weight above max(cap, exceptionCap)
	FlagCapBreach = "cap breach"

	breachTolerance = 1e-9
)

// BreachFlags reports which issuers break the daily rules at their
// current (pre-rebalance) weights:
//   - an issuer above 10% by market cap that currently sits above the
//     exception cap
//   - when issuers above 5% currently hold more than 40%, the smallest
//     of them that isn't above 10% by market cap, since that's the one
//     the daily method would cut to the regular cap
func BreachFlags(groups []domain.IssuerGroup, params domain.CappingParameters) map[string][]string {
	flags := map[string][]string{}

	type current struct {
		issuer string
		weight float64
	}
	over5 := []current{}
	aggregate := 0.0

	for _, g := range groups {
		w := g.CurrentWeight()
		if g.InitialWeight > concentrationTrigger && w > params.ExceptionCap+breachTolerance {
			flags[g.IssuerID] = append(flags[g.IssuerID], FlagConcentrationBreach)
		}
		if w > largeIssuerThreshold {
			over5 = append(over5, current{issuer: g.IssuerID, weight: w})
			aggregate += w
		}
	}

	if aggregate <= largeIssuerAggregate+breachTolerance {
		return flags
	}

	initialByIssuer := make(map[string]float64, len(groups))
	for _, g := range groups {
		initialByIssuer[g.IssuerID] = g.InitialWeight
	}
	sort.SliceStable(over5, func(i, j int) bool {
		return over5[i].weight < over5[j].weight
	})
	for _, c := range over5 {
		if initialByIssuer[c.issuer] <= concentrationTrigger {
			flags[c.issuer] = append(flags[c.issuer], FlagAggregateBreach)
			break
		}
	}

	return flags
}
