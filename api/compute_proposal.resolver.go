package api

import (
	"fmt"
	"indexcap/internal/calculator"
	"indexcap/internal/domain"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type computeProposalRequest struct {
	IndexID      string                  `json:"indexId"`
	Region       string                  `json:"region"`
	Quarterly    bool                    `json:"quarterly"`
	Mode         domain.Mode             `json:"mode"`
	Constituents []domain.RawConstituent `json:"constituents"`
}

func (r computeProposalRequest) validate() error {
	if r.IndexID == "" {
		return fmt.Errorf("indexId is required")
	}
	switch r.Mode {
	case "", domain.ModeCapped, domain.ModeUncapped:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", domain.ModeCapped, domain.ModeUncapped, r.Mode)
	}
	return nil
}

func (m ApiHandler) options(req computeProposalRequest) calculator.Options {
	return calculator.Options{
		Mode:        req.Mode,
		Region:      req.Region,
		Quarterly:   req.Quarterly,
		GeneratedAt: time.Now().UTC(),
		Presets:     m.Presets,
	}
}

// computeProposal is a pure computation, nothing is fetched or stored
func (m ApiHandler) computeProposal(ctx *gin.Context) {
	var req computeProposalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to parse request: %w", err), ctx, http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		returnErrorJsonCode(err, ctx, http.StatusBadRequest)
		return
	}

	proposal := calculator.ComputeProposal(req.IndexID, req.Constituents, m.options(req))
	ctx.JSON(200, proposal)
}

type proFormaRequest struct {
	computeProposalRequest
	Aum *decimal.Decimal `json:"aum"`
}

type proFormaResponse struct {
	Proposal *domain.Proposal     `json:"proposal"`
	Aum      decimal.Decimal      `json:"aum"`
	Rows     []domain.ProFormaRow `json:"rows"`
}

// proForma sizes the trades for a quarterly review. Without an aum the
// regional default is used.
func (m ApiHandler) proForma(ctx *gin.Context) {
	var req proFormaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to parse request: %w", err), ctx, http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		returnErrorJsonCode(err, ctx, http.StatusBadRequest)
		return
	}
	req.Quarterly = true

	aum := decimal.Zero
	if req.Aum != nil {
		aum = *req.Aum
	}
	aum = calculator.ResolveAum(req.Region, aum)
	if !aum.IsPositive() {
		returnErrorJsonCode(fmt.Errorf("no default aum for region %q, aum is required", req.Region), ctx, http.StatusBadRequest)
		return
	}

	proposal := calculator.ComputeProposal(req.IndexID, req.Constituents, m.options(req.computeProposalRequest))
	ctx.JSON(200, proFormaResponse{
		Proposal: proposal,
		Aum:      aum,
		Rows:     calculator.BuildProForma(proposal, aum),
	})
}
