package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"indexcap/internal/db/models/postgres/public/model"
	"indexcap/internal/domain"
	"indexcap/internal/metrics"
	mock_repository "indexcap/internal/repository/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type proposalServiceMocks struct {
	constituents *mock_repository.MockConstituentRepository
	proposals    *mock_repository.MockProposalRepository
	emails       *mock_repository.MockEmailRepository
	sql          sqlmock.Sqlmock
	metrics      *metrics.Metrics
}

func newTestProposalService(t *testing.T) (proposalServiceHandler, proposalServiceMocks) {
	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := proposalServiceMocks{
		constituents: mock_repository.NewMockConstituentRepository(ctrl),
		proposals:    mock_repository.NewMockProposalRepository(ctrl),
		emails:       mock_repository.NewMockEmailRepository(ctrl),
		sql:          sqlMock,
		metrics:      metrics.New(prometheus.NewRegistry()),
	}

	handler := NewProposalService(
		db,
		m.constituents,
		m.proposals,
		NewEmailService(m.emails, []string{"ops@example.com"}),
		domain.DefaultParamsTable(),
		m.metrics,
	).(proposalServiceHandler)
	handler.now = func() time.Time {
		return time.Date(2024, 3, 15, 17, 0, 0, 0, time.UTC)
	}

	return handler, m
}

func Test_proposalServiceHandler_Generate(t *testing.T) {
	t.Run("fetches, computes and stores in one transaction", func(t *testing.T) {
		handler, m := newTestProposalService(t)
		runID := uuid.New()

		m.constituents.EXPECT().
			List(gomock.Any(), "CPH").
			Return(sampleRaw(), nil)
		m.sql.ExpectBegin()
		m.proposals.EXPECT().
			Add(gomock.Any(), gomock.Any(), testAsOf).
			DoAndReturn(func(_ *sql.Tx, p *domain.Proposal, _ time.Time) (*model.RebalanceRun, error) {
				require.Equal(t, "OMXC25CAP", p.IndexID)
				require.Equal(t, domain.MethodDaily, p.Meta.Method)
				return &model.RebalanceRun{RebalanceRunID: runID}, nil
			})
		m.sql.ExpectCommit()

		profile, _ := domain.NewRunProfile()
		ctx := context.WithValue(context.Background(), domain.ContextProfileKey, profile)
		result, err := handler.Generate(ctx, GenerateInput{
			IndexID: "OMXC25CAP",
			Region:  "CPH",
			AsOf:    testAsOf,
		})
		require.NoError(t, err)
		require.NoError(t, m.sql.ExpectationsWereMet())

		require.Equal(t, runID, result.RebalanceRunID)
		require.Nil(t, result.EmailMessageID)
		require.Len(t, result.Proposal.Proposed, 5)

		spans := []string{}
		for _, s := range profile.Spans {
			spans = append(spans, s.Name)
			require.NotNil(t, s.Elapsed)
		}
		require.Equal(t, []string{"fetch constituents", "compute proposal", "persist proposal"}, spans)

		require.Equal(t, 1.0, testutil.ToFloat64(m.metrics.ProposalsGenerated.WithLabelValues("daily", "CPH")))
		require.Equal(t, 1.0, testutil.ToFloat64(m.metrics.MassNotConserved.WithLabelValues("daily", "CPH")))
	})

	t.Run("as of defaults to the generation date", func(t *testing.T) {
		handler, m := newTestProposalService(t)

		m.constituents.EXPECT().List(gomock.Any(), "HEL").Return(sampleRaw(), nil)
		m.sql.ExpectBegin()
		m.proposals.EXPECT().
			Add(gomock.Any(), gomock.Any(), time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)).
			Return(&model.RebalanceRun{RebalanceRunID: uuid.New()}, nil)
		m.sql.ExpectCommit()

		result, err := handler.Generate(context.Background(), GenerateInput{
			IndexID:   "OMXH25CAP",
			Region:    "HEL",
			Quarterly: true,
		})
		require.NoError(t, err)
		require.Equal(t, domain.MethodQuarterly, result.Proposal.Meta.Method)
		require.Equal(t, testAsOf, result.AsOf)
	})

	t.Run("fetch failure stops the run", func(t *testing.T) {
		handler, m := newTestProposalService(t)
		fetchErr := errors.New("factset unavailable")

		m.constituents.EXPECT().List(gomock.Any(), "CPH").Return(nil, fetchErr)

		_, err := handler.Generate(context.Background(), GenerateInput{IndexID: "OMXC25CAP", Region: "CPH"})
		require.ErrorIs(t, err, fetchErr)
		require.NoError(t, m.sql.ExpectationsWereMet())
		require.Equal(t, 1.0, testutil.ToFloat64(m.metrics.FetchFailures.WithLabelValues("CPH")))
	})

	t.Run("store failure rolls back", func(t *testing.T) {
		handler, m := newTestProposalService(t)
		storeErr := errors.New("duplicate key")

		m.constituents.EXPECT().List(gomock.Any(), "CPH").Return(sampleRaw(), nil)
		m.sql.ExpectBegin()
		m.proposals.EXPECT().Add(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, storeErr)
		m.sql.ExpectRollback()

		_, err := handler.Generate(context.Background(), GenerateInput{IndexID: "OMXC25CAP", Region: "CPH", AsOf: testAsOf})
		require.ErrorIs(t, err, storeErr)
		require.NoError(t, m.sql.ExpectationsWereMet())
	})

	t.Run("email failure does not fail the run", func(t *testing.T) {
		handler, m := newTestProposalService(t)
		runID := uuid.New()

		m.constituents.EXPECT().List(gomock.Any(), "CPH").Return(sampleRaw(), nil)
		m.sql.ExpectBegin()
		m.proposals.EXPECT().Add(gomock.Any(), gomock.Any(), gomock.Any()).Return(&model.RebalanceRun{RebalanceRunID: runID}, nil)
		m.sql.ExpectCommit()
		m.emails.EXPECT().
			SendEmail(gomock.Any(), []string{"ops@example.com"}, gomock.Any(), gomock.Any()).
			Return("", errors.New("ses down"))

		result, err := handler.Generate(context.Background(), GenerateInput{IndexID: "OMXC25CAP", Region: "CPH", AsOf: testAsOf, Notify: true})
		require.NoError(t, err)
		require.Equal(t, runID, result.RebalanceRunID)
		require.Nil(t, result.EmailMessageID)
	})

	t.Run("notify records message id", func(t *testing.T) {
		handler, m := newTestProposalService(t)

		m.constituents.EXPECT().List(gomock.Any(), "CPH").Return(sampleRaw(), nil)
		m.sql.ExpectBegin()
		m.proposals.EXPECT().Add(gomock.Any(), gomock.Any(), gomock.Any()).Return(&model.RebalanceRun{RebalanceRunID: uuid.New()}, nil)
		m.sql.ExpectCommit()
		m.emails.EXPECT().SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("msg-42", nil)

		result, err := handler.Generate(context.Background(), GenerateInput{IndexID: "OMXC25CAP", Region: "CPH", AsOf: testAsOf, Notify: true})
		require.NoError(t, err)
		require.NotNil(t, result.EmailMessageID)
		require.Equal(t, "msg-42", *result.EmailMessageID)
	})

	t.Run("index id required", func(t *testing.T) {
		handler, _ := newTestProposalService(t)
		_, err := handler.Generate(context.Background(), GenerateInput{Region: "CPH"})
		require.Error(t, err)
	})
}

func Test_proposalServiceHandler_GenerateAll(t *testing.T) {
	handler, m := newTestProposalService(t)
	fetchErr := errors.New("rate limited")

	// sqlmock expectations are ordered, so only one run reaches the db
	m.constituents.EXPECT().List(gomock.Any(), "CPH").Return(sampleRaw(), nil)
	m.constituents.EXPECT().List(gomock.Any(), "HEL").Return(nil, fetchErr)
	m.sql.ExpectBegin()
	m.proposals.EXPECT().Add(gomock.Any(), gomock.Any(), gomock.Any()).Return(&model.RebalanceRun{RebalanceRunID: uuid.New()}, nil)
	m.sql.ExpectCommit()

	outcomes, err := handler.GenerateAll(context.Background(), []GenerateInput{
		{IndexID: "OMXC25CAP", Region: "CPH", AsOf: testAsOf},
		{IndexID: "OMXH25CAP", Region: "HEL", AsOf: testAsOf},
	})
	require.ErrorIs(t, err, fetchErr)
	require.Len(t, outcomes, 2)

	require.NoError(t, outcomes[0].Err)
	require.Equal(t, "OMXC25CAP", outcomes[0].Result.Proposal.IndexID)
	require.Len(t, outcomes[0].Result.Profile.Spans, 3)

	require.ErrorIs(t, outcomes[1].Err, fetchErr)
	require.Nil(t, outcomes[1].Result)
	require.Equal(t, "HEL", outcomes[1].Input.Region)
}
