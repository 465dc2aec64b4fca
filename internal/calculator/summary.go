package calculator

import (
	"indexcap/internal/domain"
	"math"

	"github.com/montanaflynn/stats"
)

func summarize(proposed []domain.ProposedConstituent, issuers []domain.IssuerWeight) domain.ProposalSummary {
	summary := domain.ProposalSummary{
		Constituents: len(proposed),
		Issuers:      len(issuers),
	}
	if len(proposed) == 0 {
		return summary
	}

	newWeights := make(stats.Float64Data, 0, len(proposed))
	turnover := 0.0
	for _, p := range proposed {
		newWeights = append(newWeights, p.NewWeight)
		turnover += math.Abs(p.NewWeight - p.OldWeight)
		if p.Capped {
			summary.CappedCount++
		}
	}
	summary.Turnover = turnover / 2

	// stats only errors on empty input, which is handled above
	summary.TotalNewWeight, _ = newWeights.Sum()
	summary.MedianNewWeight, _ = newWeights.Median()

	issuerWeights := make(stats.Float64Data, 0, len(issuers))
	for _, i := range issuers {
		issuerWeights = append(issuerWeights, i.FinalWeight)
	}
	if len(issuerWeights) > 0 {
		summary.MaxIssuerWeight, _ = issuerWeights.Max()
	}

	return summary
}
