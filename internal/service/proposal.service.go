package service

import (
	"context"
	"database/sql"
	"fmt"
	"indexcap/internal/calculator"
	"indexcap/internal/db/models/postgres/public/model"
	"indexcap/internal/domain"
	"indexcap/internal/logger"
	"indexcap/internal/metrics"
	"indexcap/internal/repository"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ProposalService runs the full rebalance flow for one index: fetch the
// universe, compute the proposal, store it and optionally email a
// summary
type ProposalService interface {
	Generate(ctx context.Context, input GenerateInput) (*GenerateResult, error)
	GenerateAll(ctx context.Context, inputs []GenerateInput) ([]GenerateOutcome, error)
}

type GenerateInput struct {
	IndexID   string
	Region    string
	Quarterly bool
	Mode      domain.Mode
	AsOf      time.Time
	Notify    bool
}

type GenerateResult struct {
	RebalanceRunID uuid.UUID          `json:"rebalanceRunId"`
	AsOf           time.Time          `json:"asOf"`
	Proposal       *domain.Proposal   `json:"proposal"`
	Profile        *domain.RunProfile `json:"profile"`
	EmailMessageID *string            `json:"emailMessageId,omitempty"`
}

type GenerateOutcome struct {
	Input  GenerateInput
	Result *GenerateResult
	Err    error
}

// maxConcurrentRuns bounds GenerateAll so a long job list doesn't open
// one FactSet request and one transaction per index at once
const maxConcurrentRuns = 4

type proposalServiceHandler struct {
	Db                    *sql.DB
	ConstituentRepository repository.ConstituentRepository
	ProposalRepository    repository.ProposalRepository
	EmailService          EmailService
	Presets               domain.ParamsTable
	Metrics               *metrics.Metrics
	now                   func() time.Time
}

func NewProposalService(
	db *sql.DB,
	constituentRepository repository.ConstituentRepository,
	proposalRepository repository.ProposalRepository,
	emailService EmailService,
	presets domain.ParamsTable,
	m *metrics.Metrics,
) ProposalService {
	return proposalServiceHandler{
		Db:                    db,
		ConstituentRepository: constituentRepository,
		ProposalRepository:    proposalRepository,
		EmailService:          emailService,
		Presets:               presets,
		Metrics:               m,
		now:                   func() time.Time { return time.Now().UTC() },
	}
}

func (h proposalServiceHandler) Generate(ctx context.Context, input GenerateInput) (*GenerateResult, error) {
	if input.IndexID == "" {
		return nil, fmt.Errorf("failed to generate proposal: index id is required")
	}
	lg := logger.FromContext(ctx).With("indexID", input.IndexID, "region", input.Region)
	start := time.Now()

	generatedAt := h.now()
	asOf := input.AsOf
	if asOf.IsZero() {
		asOf = time.Date(generatedAt.Year(), generatedAt.Month(), generatedAt.Day(), 0, 0, 0, 0, time.UTC)
	}

	profile := domain.ProfileFromContext(ctx)
	defer profile.End()

	_, endSpan := profile.StartNewSpan("fetch constituents")
	raw, err := h.ConstituentRepository.List(ctx, input.Region)
	endSpan()
	if err != nil {
		h.Metrics.IncrementFetchFailure(domain.NormalizeRegion(input.Region))
		return nil, fmt.Errorf("failed to fetch constituents for %s: %w", input.IndexID, err)
	}
	lg.Debugf("fetched %d constituents", len(raw))

	_, endSpan = profile.StartNewSpan("compute proposal")
	proposal := calculator.ComputeProposal(input.IndexID, raw, calculator.Options{
		Mode:        input.Mode,
		Region:      input.Region,
		Quarterly:   input.Quarterly,
		GeneratedAt: generatedAt,
		Presets:     h.Presets,
	})
	endSpan()
	if !proposal.MassConserved && len(proposal.Proposed) > 0 {
		lg.Warnf("proposal weights sum to %f, residual %f", proposal.Summary.TotalNewWeight, proposal.ResidualWeight)
	}

	_, endSpan = profile.StartNewSpan("persist proposal")
	run, err := h.persist(proposal, asOf)
	endSpan()
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{
		RebalanceRunID: run.RebalanceRunID,
		AsOf:           asOf,
		Proposal:       proposal,
		Profile:        profile,
	}

	if input.Notify && h.EmailService != nil {
		_, endSpan = profile.StartNewSpan("send notification")
		messageID, err := h.EmailService.SendProposalSummary(ctx, proposal, asOf)
		endSpan()
		// the proposal is already stored, a failed email shouldn't fail the run
		if err != nil {
			lg.Errorf("failed to send proposal summary: %s", err.Error())
		} else {
			result.EmailMessageID = &messageID
		}
	}

	h.Metrics.IncrementGenerated(string(proposal.Meta.Method), proposal.Meta.Region, proposal.MassConserved)
	h.Metrics.ObserveGenerateLatency(time.Since(start))
	lg.Infow(
		"generated proposal",
		"method", proposal.Meta.Method,
		"rebalanceRunID", run.RebalanceRunID,
		"constituents", len(proposal.Proposed),
		"massConserved", proposal.MassConserved,
	)

	return result, nil
}

func (h proposalServiceHandler) persist(proposal *domain.Proposal, asOf time.Time) (*model.RebalanceRun, error) {
	if h.Db == nil {
		return nil, fmt.Errorf("failed to store proposal: no database configured")
	}

	tx, err := h.Db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	run, err := h.ProposalRepository.Add(tx, proposal, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to store proposal for %s: %w", proposal.IndexID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit proposal for %s: %w", proposal.IndexID, err)
	}

	return run, nil
}

// GenerateAll runs every input even when some fail. Outcomes come back
// in input order; the returned error is the first failure, if any.
func (h proposalServiceHandler) GenerateAll(ctx context.Context, inputs []GenerateInput) ([]GenerateOutcome, error) {
	outcomes := make([]GenerateOutcome, len(inputs))

	var g errgroup.Group
	g.SetLimit(maxConcurrentRuns)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			// each run gets its own profile, RunProfile isn't thread safe
			profile, _ := domain.NewRunProfile()
			runCtx := context.WithValue(ctx, domain.ContextProfileKey, profile)

			result, err := h.Generate(runCtx, in)
			outcomes[i] = GenerateOutcome{
				Input:  in,
				Result: result,
				Err:    err,
			}
			return err
		})
	}

	err := g.Wait()
	return outcomes, err
}
