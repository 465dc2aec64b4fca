package app

import (
	"context"
	"indexcap/internal/domain"
	"indexcap/internal/logger"
	"indexcap/internal/service"
	"time"
)

// RebalanceJob is one index the scheduler should rebalance. Quarterly
// jobs only run in review months unless Force is set.
type RebalanceJob struct {
	IndexID   string      `json:"indexId"`
	Region    string      `json:"region"`
	Quarterly bool        `json:"quarterly"`
	Mode      domain.Mode `json:"mode,omitempty"`
	Notify    bool        `json:"notify"`
	Force     bool        `json:"force"`
}

type ScheduledRunInput struct {
	Jobs []RebalanceJob `json:"jobs"`
	Date time.Time      `json:"date"`
}

type JobOutcome struct {
	IndexID        string `json:"indexId"`
	Skipped        bool   `json:"skipped"`
	RebalanceRunID string `json:"rebalanceRunId,omitempty"`
	MassConserved  bool   `json:"massConserved"`
	Error          string `json:"error,omitempty"`
}

var defaultQuarterlyMonths = []time.Month{time.March, time.June, time.September, time.December}

type RebalancerApp struct {
	ProposalService service.ProposalService
	QuarterlyMonths []time.Month
}

func NewRebalancerApp(proposalService service.ProposalService) RebalancerApp {
	return RebalancerApp{
		ProposalService: proposalService,
		QuarterlyMonths: defaultQuarterlyMonths,
	}
}

func (h RebalancerApp) isReviewMonth(m time.Month) bool {
	for _, q := range h.QuarterlyMonths {
		if q == m {
			return true
		}
	}
	return false
}

// RunScheduled generates proposals for every due job. Outcomes are in
// job order; the error is the first failed job, the rest still run.
func (h RebalancerApp) RunScheduled(ctx context.Context, input ScheduledRunInput) ([]JobOutcome, error) {
	lg := logger.FromContext(ctx)
	date := input.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}
	asOf := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	outcomes := make([]JobOutcome, len(input.Jobs))
	inputs := []service.GenerateInput{}
	positions := []int{}
	for i, job := range input.Jobs {
		outcomes[i] = JobOutcome{IndexID: job.IndexID}
		if job.Quarterly && !job.Force && !h.isReviewMonth(asOf.Month()) {
			lg.Infof("skipping quarterly job %s outside review month", job.IndexID)
			outcomes[i].Skipped = true
			continue
		}
		inputs = append(inputs, service.GenerateInput{
			IndexID:   job.IndexID,
			Region:    job.Region,
			Quarterly: job.Quarterly,
			Mode:      job.Mode,
			AsOf:      asOf,
			Notify:    job.Notify,
		})
		positions = append(positions, i)
	}

	if len(inputs) == 0 {
		return outcomes, nil
	}

	results, err := h.ProposalService.GenerateAll(ctx, inputs)
	for j, r := range results {
		out := &outcomes[positions[j]]
		if r.Err != nil {
			out.Error = r.Err.Error()
			lg.Errorf("rebalance job %s failed: %s", r.Input.IndexID, r.Err.Error())
			continue
		}
		if r.Result != nil {
			out.RebalanceRunID = r.Result.RebalanceRunID.String()
			out.MassConserved = r.Result.Proposal.MassConserved
		}
	}

	return outcomes, err
}
