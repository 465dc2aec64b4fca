package calculator

import (
	"indexcap/internal/domain"
	"math"
	"strings"
	"time"
)

const massTolerance = 1e-9

type Options struct {
	// Mode defaults to capped when the index id contains "cap"
	Mode      domain.Mode
	Region    string
	Quarterly bool

	// zero means now
	GeneratedAt time.Time
	// nil means the built-in region presets
	Presets domain.ParamsTable
}

// ResolveMethod picks the weighting regime for an index
func ResolveMethod(indexID string, mode domain.Mode, quarterly bool) domain.Method {
	if mode == "" {
		mode = domain.ModeUncapped
		if strings.Contains(strings.ToLower(indexID), "cap") {
			mode = domain.ModeCapped
		}
	}
	if mode != domain.ModeCapped {
		return domain.MethodMarketCap
	}
	if quarterly {
		return domain.MethodQuarterly
	}
	return domain.MethodDaily
}

// ComputeProposal turns a raw constituent list into proposed target
// weights. It does no I/O and keeps no state between calls, so it is
// safe to call concurrently.
func ComputeProposal(indexID string, raw []domain.RawConstituent, opts Options) *domain.Proposal {
	presets := opts.Presets
	if presets == nil {
		presets = domain.DefaultParamsTable()
	}
	region := domain.NormalizeRegion(opts.Region)
	params := presets.Lookup(region)
	method := ResolveMethod(indexID, opts.Mode, opts.Quarterly)

	generatedAt := opts.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	constituents := Normalize(raw)
	groups := AggregateIssuers(constituents)

	var result CappingResult
	switch method {
	case domain.MethodDaily:
		result = ApplyDailyCapping(groups, params)
	case domain.MethodQuarterly:
		result = ApplyQuarterlyExceptions(groups, params)
	default:
		result = ApplyMarketCap(groups)
	}

	proposed := DistributeWeights(constituents, groups, result.Weights)

	flags := map[string][]string{}
	if method != domain.MethodMarketCap {
		flags = BreachFlags(groups, params)
	}
	for _, issuer := range result.Breaches {
		flags[issuer] = append(flags[issuer], FlagCapBreach)
	}
	for i := range proposed {
		proposed[i].Flags = flags[proposed[i].Issuer]
	}

	issuers := make([]domain.IssuerWeight, 0, len(groups))
	for _, g := range groups {
		issuers = append(issuers, domain.IssuerWeight{
			Issuer:             g.IssuerID,
			AggregateMarketCap: g.AggregateMarketCap,
			InitialWeight:      g.InitialWeight,
			CurrentWeight:      g.CurrentWeight(),
			FinalWeight:        result.Weights[g.IssuerID],
			Locked:             result.Locks[g.IssuerID],
			Flags:              flags[g.IssuerID],
		})
	}

	total := 0.0
	for _, p := range proposed {
		total += p.NewWeight
	}
	residual := 0.0
	if len(proposed) > 0 {
		residual = 1 - total
	}

	return &domain.Proposal{
		IndexID: indexID,
		Meta: domain.ProposalMeta{
			GeneratedAt: generatedAt,
			Method:      method,
			Region:      region,
			Params:      params,
		},
		Proposed:       proposed,
		Issuers:        issuers,
		Summary:        summarize(proposed, issuers),
		MassConserved:  math.Abs(residual) <= massTolerance,
		ResidualWeight: residual,
		CapBreached:    len(result.Breaches) > 0,
	}
}
