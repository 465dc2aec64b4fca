package calculator

import (
	"indexcap/internal/domain"
	"math"
	"sort"
)

const (
	// issuers above this original weight get the exception cap
	concentrationTrigger = 0.10
	// issuers above this weight count towards the aggregate limit
	largeIssuerThreshold = 0.05
	largeIssuerAggregate = 0.40
)

// CappingResult holds final issuer-level weights. Locks records which
// issuers the engine pinned and at which level.
// Breaches lists, in issuer order, free issuers the daily method left
// above max(cap, exceptionCap).
type CappingResult struct {
	Weights    map[string]float64
	Locks      map[string]string
	Iterations int
	Breaches   []string
}

type lock struct {
	weight float64
	kind   string
}

// lockSet is the accumulator threaded through the daily loop. with()
// returns a copy so each iteration sees an immutable input.
type lockSet map[string]lock

func (l lockSet) with(issuer string, weight float64, kind string) lockSet {
	out := make(lockSet, len(l)+1)
	for k, v := range l {
		out[k] = v
	}
	out[issuer] = lock{weight: weight, kind: kind}
	return out
}

func (l lockSet) kinds() map[string]string {
	out := make(map[string]string, len(l))
	for k, v := range l {
		out[k] = v.kind
	}
	return out
}

// ApplyMarketCap leaves every issuer at its initial weight
func ApplyMarketCap(groups []domain.IssuerGroup) CappingResult {
	weights := make(map[string]float64, len(groups))
	for _, g := range groups {
		weights[g.IssuerID] = g.InitialWeight
	}
	return CappingResult{
		Weights: weights,
		Locks:   map[string]string{},
	}
}

// ApplyQuarterlyExceptions fixes the largest issuers at the exception
// cap, as many as fit under the exception aggregate limit, and spreads
// what is left over the rest pro rata. Groups must be in the order
// returned by AggregateIssuers.
//
// If every issuer is selected there is nobody to absorb the residual,
// so the weights will sum to less than one.
func ApplyQuarterlyExceptions(groups []domain.IssuerGroup, params domain.CappingParameters) CappingResult {
	maxExceptions := 0
	if params.ExceptionCap > 0 {
		// 0.36/0.09 must come out as 4, not 3.999...
		maxExceptions = int(math.Floor(params.ExceptionAggregateLimit/params.ExceptionCap + 1e-9))
	}
	if maxExceptions > len(groups) {
		maxExceptions = len(groups)
	}

	fixed := lockSet{}
	for _, g := range groups[:maxExceptions] {
		fixed = fixed.with(g.IssuerID, params.ExceptionCap, domain.LockException)
	}

	return CappingResult{
		Weights:    tentativeWeights(groups, fixed),
		Locks:      fixed.kinds(),
		Iterations: 1,
	}
}

// ApplyDailyCapping runs the two-stage adjustment until the issuers
// above 5% hold at most 40% in aggregate:
//
//  1. issuers whose original weight exceeds 10% are locked at the
//     exception cap
//  2. otherwise the smallest issuer above 5% that isn't locked yet is
//     locked at the regular cap
//
// Every iteration either returns or locks one more issuer, so the loop
// runs at most len(groups) times. A free issuer can still end above
// both caps; it is reported in Breaches rather than cut.
func ApplyDailyCapping(groups []domain.IssuerGroup, params domain.CappingParameters) CappingResult {
	fixed := lockSet{}
	for iteration := 1; ; iteration++ {
		next, weights, done := dailyIteration(groups, params, fixed)
		if done {
			return CappingResult{
				Weights:    weights,
				Locks:      next.kinds(),
				Iterations: iteration,
				Breaches:   capBreaches(groups, weights, params),
			}
		}
		fixed = next
	}
}

func dailyIteration(
	groups []domain.IssuerGroup,
	params domain.CappingParameters,
	fixed lockSet,
) (lockSet, map[string]float64, bool) {
	// stage 1
	for _, g := range groups {
		if _, ok := fixed[g.IssuerID]; !ok && g.InitialWeight > concentrationTrigger {
			fixed = fixed.with(g.IssuerID, params.ExceptionCap, domain.LockException)
		}
	}

	tentative := tentativeWeights(groups, fixed)

	type issuerWeight struct {
		issuer string
		weight float64
	}
	over5 := []issuerWeight{}
	aggregate := 0.0
	for _, g := range groups {
		if w := tentative[g.IssuerID]; w > largeIssuerThreshold {
			over5 = append(over5, issuerWeight{issuer: g.IssuerID, weight: w})
			aggregate += w
		}
	}
	if aggregate <= largeIssuerAggregate {
		return fixed, tentative, true
	}

	// stage 2
	sort.SliceStable(over5, func(i, j int) bool {
		return over5[i].weight < over5[j].weight
	})
	chosen := ""
	for _, c := range over5 {
		if _, ok := fixed[c.issuer]; !ok {
			chosen = c.issuer
			break
		}
	}
	if chosen == "" {
		// every large issuer is already locked
		return fixed, tentative, true
	}
	fixed = fixed.with(chosen, params.Cap, domain.LockCap)

	// with everyone locked the next pass could only return the locks
	if len(fixed) == len(groups) {
		return fixed, tentativeWeights(groups, fixed), true
	}

	return fixed, nil, false
}

// capBreaches returns issuers whose weight is above both caps. The
// aggregate check can pass while a free issuer that soaked up the
// residual budget sits above them.
func capBreaches(groups []domain.IssuerGroup, weights map[string]float64, params domain.CappingParameters) []string {
	bound := math.Max(params.Cap, params.ExceptionCap)
	var out []string
	for _, g := range groups {
		if weights[g.IssuerID] > bound+breachTolerance {
			out = append(out, g.IssuerID)
		}
	}
	return out
}

// tentativeWeights gives locked issuers their lock weight and shares
// the remaining budget among the others in proportion to their initial
// weight
func tentativeWeights(groups []domain.IssuerGroup, fixed lockSet) map[string]float64 {
	sumFixed := 0.0
	for _, l := range fixed {
		sumFixed += l.weight
	}
	remaining := math.Max(0, 1-sumFixed)

	freeTotal := 0.0
	for _, g := range groups {
		if _, ok := fixed[g.IssuerID]; !ok {
			freeTotal += g.InitialWeight
		}
	}
	if freeTotal == 0 {
		freeTotal = 1
	}

	out := make(map[string]float64, len(groups))
	for _, g := range groups {
		if l, ok := fixed[g.IssuerID]; ok {
			out[g.IssuerID] = l.weight
		} else {
			out[g.IssuerID] = (g.InitialWeight / freeTotal) * remaining
		}
	}
	return out
}
