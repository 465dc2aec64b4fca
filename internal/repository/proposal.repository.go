package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"indexcap/internal/db/models/postgres/public/model"
	"indexcap/internal/db/models/postgres/public/table"
	"indexcap/internal/domain"

	"github.com/go-jet/jet/v2/postgres"
)

// ProposalRepository stores proposals as one rebalance_run row plus its
// constituent and issuer rows. Storing a proposal replaces any earlier
// one for the same index, as-of date and method.
type ProposalRepository interface {
	Add(tx *sql.Tx, proposal *domain.Proposal, asOf time.Time) (*model.RebalanceRun, error)
	GetLatest(indexID string) (*domain.RebalanceRun, error)
}

type proposalRepositoryHandler struct {
	Db               *sql.DB
	RebalanceRunRepo RebalanceRunRepository
}

func NewProposalRepository(db *sql.DB, rebalanceRunRepository RebalanceRunRepository) ProposalRepository {
	return proposalRepositoryHandler{
		Db:               db,
		RebalanceRunRepo: rebalanceRunRepository,
	}
}

func (h proposalRepositoryHandler) Add(tx *sql.Tx, proposal *domain.Proposal, asOf time.Time) (*model.RebalanceRun, error) {
	if tx == nil {
		return nil, fmt.Errorf("failed to add proposal: transaction required")
	}

	method := string(proposal.Meta.Method)
	if _, err := h.RebalanceRunRepo.DeleteSnapshot(tx, proposal.IndexID, asOf, method); err != nil {
		return nil, err
	}

	run, err := h.RebalanceRunRepo.Add(tx, model.RebalanceRun{
		IndexID:          proposal.IndexID,
		Region:           proposal.Meta.Region,
		Method:           method,
		AsOf:             asOf,
		MassConserved:    proposal.MassConserved,
		ResidualWeight:   proposal.ResidualWeight,
		ConstituentCount: int32(len(proposal.Proposed)),
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if len(proposal.Proposed) > 0 {
		constituents := []model.IndexConstituent{}
		for _, c := range proposal.Proposed {
			constituents = append(constituents, model.IndexConstituent{
				RebalanceRunID: run.RebalanceRunID,
				IndexID:        proposal.IndexID,
				AsOf:           asOf,
				Ticker:         c.Ticker,
				Issuer:         c.Issuer,
				Price:          c.Price,
				MarketCap:      c.MarketCap,
				Avg30dVolume:   c.Avg30dVolume,
				OldWeight:      c.OldWeight,
				NewWeight:      c.NewWeight,
				Capped:         c.Capped,
				Flags:          joinFlags(c.Flags),
				CreatedAt:      now,
			})
		}
		query := table.IndexConstituent.
			INSERT(table.IndexConstituent.MutableColumns).
			MODELS(constituents)
		if _, err := query.Exec(tx); err != nil {
			return nil, fmt.Errorf("failed to insert index constituents: %w", err)
		}
	}

	if len(proposal.Issuers) > 0 {
		issuers := []model.IndexIssuer{}
		for _, i := range proposal.Issuers {
			var locked *string
			if i.Locked != domain.LockNone {
				l := i.Locked
				locked = &l
			}
			issuers = append(issuers, model.IndexIssuer{
				RebalanceRunID:     run.RebalanceRunID,
				IndexID:            proposal.IndexID,
				AsOf:               asOf,
				Issuer:             i.Issuer,
				AggregateMarketCap: i.AggregateMarketCap,
				InitialWeight:      i.InitialWeight,
				CurrentWeight:      i.CurrentWeight,
				FinalWeight:        i.FinalWeight,
				Locked:             locked,
				Flags:              joinFlags(i.Flags),
				CreatedAt:          now,
			})
		}
		query := table.IndexIssuer.
			INSERT(table.IndexIssuer.MutableColumns).
			MODELS(issuers)
		if _, err := query.Exec(tx); err != nil {
			return nil, fmt.Errorf("failed to insert index issuers: %w", err)
		}
	}

	return run, nil
}

func (h proposalRepositoryHandler) GetLatest(indexID string) (*domain.RebalanceRun, error) {
	run, err := h.RebalanceRunRepo.GetLatest(indexID)
	if err != nil {
		return nil, err
	}

	constituents := []model.IndexConstituent{}
	query := table.IndexConstituent.
		SELECT(table.IndexConstituent.AllColumns).
		WHERE(table.IndexConstituent.RebalanceRunID.EQ(postgres.UUID(run.RebalanceRunID))).
		ORDER_BY(table.IndexConstituent.NewWeight.DESC(), table.IndexConstituent.Ticker.ASC())
	if err := query.Query(h.Db, &constituents); err != nil {
		return nil, fmt.Errorf("failed to get constituents for run %s: %w", run.RebalanceRunID, err)
	}

	issuers := []model.IndexIssuer{}
	issuerQuery := table.IndexIssuer.
		SELECT(table.IndexIssuer.AllColumns).
		WHERE(table.IndexIssuer.RebalanceRunID.EQ(postgres.UUID(run.RebalanceRunID))).
		ORDER_BY(table.IndexIssuer.AggregateMarketCap.DESC())
	if err := issuerQuery.Query(h.Db, &issuers); err != nil {
		return nil, fmt.Errorf("failed to get issuers for run %s: %w", run.RebalanceRunID, err)
	}

	return rebalanceRunFromModels(*run, constituents, issuers), nil
}

func rebalanceRunFromModels(run model.RebalanceRun, constituents []model.IndexConstituent, issuers []model.IndexIssuer) *domain.RebalanceRun {
	out := &domain.RebalanceRun{
		RebalanceRunID: run.RebalanceRunID,
		IndexID:        run.IndexID,
		Region:         run.Region,
		Method:         domain.Method(run.Method),
		AsOf:           run.AsOf,
		MassConserved:  run.MassConserved,
		ResidualWeight: run.ResidualWeight,
		CreatedAt:      run.CreatedAt,
		Proposed:       []domain.ProposedConstituent{},
		Issuers:        []domain.IssuerWeight{},
	}
	for _, c := range constituents {
		out.Proposed = append(out.Proposed, domain.ProposedConstituent{
			Ticker:       c.Ticker,
			Issuer:       c.Issuer,
			Price:        c.Price,
			MarketCap:    c.MarketCap,
			OldWeight:    c.OldWeight,
			NewWeight:    c.NewWeight,
			Capped:       c.Capped,
			Flags:        splitFlags(c.Flags),
			Avg30dVolume: c.Avg30dVolume,
		})
	}
	for _, i := range issuers {
		locked := domain.LockNone
		if i.Locked != nil {
			locked = *i.Locked
		}
		out.Issuers = append(out.Issuers, domain.IssuerWeight{
			Issuer:             i.Issuer,
			AggregateMarketCap: i.AggregateMarketCap,
			InitialWeight:      i.InitialWeight,
			CurrentWeight:      i.CurrentWeight,
			FinalWeight:        i.FinalWeight,
			Locked:             locked,
			Flags:              splitFlags(i.Flags),
		})
	}
	return out
}

func joinFlags(flags []string) *string {
	if len(flags) == 0 {
		return nil
	}
	s := strings.Join(flags, ";")
	return &s
}

func splitFlags(s *string) []string {
	if s == nil || *s == "" {
		return nil
	}
	return strings.Split(*s, ";")
}

