package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"indexcap/internal/app"
	"indexcap/internal/domain"
	mock_repository "indexcap/internal/repository/mocks"
	"indexcap/internal/service"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSecret = "test-secret"

type fakeProposalService struct {
	inputs []service.GenerateInput
	err    error
}

func (f *fakeProposalService) Generate(ctx context.Context, input service.GenerateInput) (*service.GenerateResult, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return &service.GenerateResult{
		RebalanceRunID: uuid.MustParse("7b0f6d0e-9a53-4c1e-8a62-3f2f8c1d5e40"),
		AsOf:           input.AsOf,
		Proposal:       &domain.Proposal{IndexID: input.IndexID, MassConserved: true},
		Profile:        domain.ProfileFromContext(ctx),
	}, nil
}

func (f *fakeProposalService) GenerateAll(ctx context.Context, inputs []service.GenerateInput) ([]service.GenerateOutcome, error) {
	out := []service.GenerateOutcome{}
	for _, in := range inputs {
		r, err := f.Generate(ctx, in)
		out = append(out, service.GenerateOutcome{Input: in, Result: r, Err: err})
	}
	return out, f.err
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeProposalService, *mock_repository.MockProposalRepository) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	proposalRepository := mock_repository.NewMockProposalRepository(ctrl)
	svc := &fakeProposalService{}

	handler := ApiHandler{
		ProposalService:    svc,
		ProposalRepository: proposalRepository,
		RebalancerApp:      app.NewRebalancerApp(svc),
		Presets:            domain.DefaultParamsTable(),
		Gatherer:           prometheus.NewRegistry(),
		JwtDecodeToken:     testSecret,
	}
	return handler.InitializeRouterEngine(), svc, proposalRepository
}

func signToken(t *testing.T, role string, secret string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ServiceJWT{
		Role: role,
		StandardClaims: jwt.StandardClaims{
			Subject:   "scheduler",
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func doRequest(router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func scenarioBody() map[string]any {
	return map[string]any{
		"indexId": "OMXC25CAP",
		"region":  "CPH",
		"constituents": []map[string]any{
			{"ticker": "AAA", "issuer": "AAA", "price": 10, "marketCap": 1000000, "currentWeight": 0.13},
			{"ticker": "AAB", "issuer": "AAA", "price": 5, "marketCap": "500000", "currentWeight": 0.065},
			{"ticker": "BBB", "issuer": "BBB", "price": 30, "marketCap": 3000000, "currentWeight": 0.39},
			{"ticker": "CCC", "issuer": "CCC", "price": 7, "marketCap": 700000, "currentWeight": 0.09},
			{"ticker": "DDD", "issuer": "DDD", "price": 25, "marketCap": 2500000, "currentWeight": 0.325},
		},
	}
}

func Test_health(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/health", nil, "")
	require.Equal(t, 200, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	require.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = doRequest(router, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, 200, w.Code)
}

func Test_computeProposal(t *testing.T) {
	t.Run("daily capped", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		w := doRequest(router, http.MethodPost, "/proposals/compute", scenarioBody(), "")
		require.Equal(t, 200, w.Code, w.Body.String())

		p := domain.Proposal{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		require.Equal(t, domain.MethodDaily, p.Meta.Method)
		require.Len(t, p.Proposed, 5)
		require.InDelta(t, 0.045, p.Proposed[3].NewWeight, 1e-9)
		require.False(t, p.MassConserved)
	})

	t.Run("uncapped mode", func(t *testing.T) {
		router, _, _ := newTestRouter(t)
		body := scenarioBody()
		body["mode"] = "uncapped"

		w := doRequest(router, http.MethodPost, "/proposals/compute", body, "")
		require.Equal(t, 200, w.Code)

		p := domain.Proposal{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		require.Equal(t, domain.MethodMarketCap, p.Meta.Method)
		require.True(t, p.MassConserved)
	})

	t.Run("bad mode", func(t *testing.T) {
		router, _, _ := newTestRouter(t)
		body := scenarioBody()
		body["mode"] = "equal"

		w := doRequest(router, http.MethodPost, "/proposals/compute", body, "")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing index id", func(t *testing.T) {
		router, _, _ := newTestRouter(t)
		body := scenarioBody()
		delete(body, "indexId")

		w := doRequest(router, http.MethodPost, "/proposals/compute", body, "")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func Test_proForma(t *testing.T) {
	t.Run("regional default aum", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		w := doRequest(router, http.MethodPost, "/proposals/proforma", scenarioBody(), "")
		require.Equal(t, 200, w.Code, w.Body.String())

		out := proFormaResponse{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.Equal(t, domain.MethodQuarterly, out.Proposal.Meta.Method)
		require.Equal(t, "110000000000", out.Aum.String())
		require.Len(t, out.Rows, 5)
		require.Equal(t, "BBB", out.Rows[0].Ticker)
	})

	t.Run("region without default needs aum", func(t *testing.T) {
		router, _, _ := newTestRouter(t)
		body := scenarioBody()
		body["region"] = "STO"

		w := doRequest(router, http.MethodPost, "/proposals/proforma", body, "")
		require.Equal(t, http.StatusBadRequest, w.Code)

		body["aum"] = "1000000"
		w = doRequest(router, http.MethodPost, "/proposals/proforma", body, "")
		require.Equal(t, 200, w.Code)
	})
}

func Test_rebalance(t *testing.T) {
	t.Run("requires a token", func(t *testing.T) {
		router, svc, _ := newTestRouter(t)
		w := doRequest(router, http.MethodPost, "/indexes/OMXC25CAP/rebalance", map[string]any{"region": "CPH"}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Empty(t, svc.inputs)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		router, _, _ := newTestRouter(t)
		w := doRequest(router, http.MethodPost, "/indexes/OMXC25CAP/rebalance", map[string]any{"region": "CPH"}, signToken(t, serviceRole, "other"))
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects wrong role", func(t *testing.T) {
		router, _, _ := newTestRouter(t)
		w := doRequest(router, http.MethodPost, "/indexes/OMXC25CAP/rebalance", map[string]any{"region": "CPH"}, signToken(t, "authenticated", testSecret))
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("runs the proposal service", func(t *testing.T) {
		router, svc, _ := newTestRouter(t)
		w := doRequest(router, http.MethodPost, "/indexes/OMXC25CAP/rebalance", map[string]any{
			"region":    "CPH",
			"quarterly": true,
			"asOf":      "2024-03-15",
			"notify":    true,
		}, signToken(t, serviceRole, testSecret))
		require.Equal(t, 200, w.Code, w.Body.String())

		require.Len(t, svc.inputs, 1)
		require.Equal(t, service.GenerateInput{
			IndexID:   "OMXC25CAP",
			Region:    "CPH",
			Quarterly: true,
			AsOf:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			Notify:    true,
		}, svc.inputs[0])
		require.Contains(t, w.Body.String(), "7b0f6d0e-9a53-4c1e-8a62-3f2f8c1d5e40")
	})

	t.Run("bad date", func(t *testing.T) {
		router, _, _ := newTestRouter(t)
		w := doRequest(router, http.MethodPost, "/indexes/OMXC25CAP/rebalance", map[string]any{"asOf": "15/03/2024"}, signToken(t, serviceRole, testSecret))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("service failure", func(t *testing.T) {
		router, svc, _ := newTestRouter(t)
		svc.err = errors.New("factset down")
		w := doRequest(router, http.MethodPost, "/indexes/OMXC25CAP/rebalance", map[string]any{"region": "CPH"}, signToken(t, serviceRole, testSecret))
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Contains(t, w.Body.String(), "factset down")
	})
}

func Test_runScheduled(t *testing.T) {
	router, svc, _ := newTestRouter(t)
	w := doRequest(router, http.MethodPost, "/scheduled", map[string]any{
		"date": "2024-04-02",
		"jobs": []map[string]any{
			{"indexId": "OMXC25CAP", "region": "CPH"},
			{"indexId": "OMXC25CAP", "region": "CPH", "quarterly": true},
		},
	}, signToken(t, serviceRole, testSecret))
	require.Equal(t, 200, w.Code, w.Body.String())
	require.Len(t, svc.inputs, 1)

	out := struct {
		Outcomes []app.JobOutcome `json:"outcomes"`
	}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Outcomes, 2)
	require.True(t, out.Outcomes[1].Skipped)
}

func Test_getLatestProposal(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		router, _, proposalRepository := newTestRouter(t)
		proposalRepository.EXPECT().
			GetLatest("OMXH25CAP").
			Return(nil, fmt.Errorf("failed to get latest rebalance run for OMXH25CAP: %w", qrm.ErrNoRows))

		w := doRequest(router, http.MethodGet, "/indexes/OMXH25CAP/proposals/latest", nil, "")
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("found", func(t *testing.T) {
		router, _, proposalRepository := newTestRouter(t)
		proposalRepository.EXPECT().
			GetLatest("OMXC25CAP").
			Return(&domain.RebalanceRun{
				RebalanceRunID: uuid.New(),
				IndexID:        "OMXC25CAP",
				Method:         domain.MethodDaily,
				Proposed: []domain.ProposedConstituent{
					{Ticker: "AAA", NewWeight: 0.07},
				},
			}, nil)

		w := doRequest(router, http.MethodGet, "/indexes/OMXC25CAP/proposals/latest", nil, "")
		require.Equal(t, 200, w.Code)

		run := domain.RebalanceRun{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
		require.Equal(t, "OMXC25CAP", run.IndexID)
		require.Len(t, run.Proposed, 1)
	})

	t.Run("db error", func(t *testing.T) {
		router, _, proposalRepository := newTestRouter(t)
		proposalRepository.EXPECT().GetLatest("X").Return(nil, errors.New("connection refused"))

		w := doRequest(router, http.MethodGet, "/indexes/X/proposals/latest", nil, "")
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
