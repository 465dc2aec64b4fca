package api

import (
	"context"
	"errors"
	"fmt"
	"indexcap/internal/app"
	"indexcap/internal/domain"
	"indexcap/internal/service"
	"indexcap/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-jet/jet/v2/qrm"
)

type rebalanceRequest struct {
	Region    string      `json:"region"`
	Quarterly bool        `json:"quarterly"`
	Mode      domain.Mode `json:"mode"`
	AsOf      string      `json:"asOf"`
	Notify    bool        `json:"notify"`
}

func (m ApiHandler) rebalance(ctx *gin.Context) {
	var req rebalanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to parse request: %w", err), ctx, http.StatusBadRequest)
		return
	}
	asOf, err := util.ParseAsOf(req.AsOf)
	if err != nil {
		returnErrorJsonCode(err, ctx, http.StatusBadRequest)
		return
	}

	profile, endProfile := domain.NewRunProfile()
	defer endProfile()
	c := context.WithValue(ctx, domain.ContextProfileKey, profile)

	result, err := m.ProposalService.Generate(c, service.GenerateInput{
		IndexID:   ctx.Param("indexID"),
		Region:    req.Region,
		Quarterly: req.Quarterly,
		Mode:      req.Mode,
		AsOf:      asOf,
		Notify:    req.Notify,
	})
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to rebalance: %w", err), ctx)
		return
	}

	ctx.JSON(200, result)
}

type runScheduledRequest struct {
	Date string             `json:"date"`
	Jobs []app.RebalanceJob `json:"jobs"`
}

func (m ApiHandler) runScheduled(ctx *gin.Context) {
	var req runScheduledRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to parse request: %w", err), ctx, http.StatusBadRequest)
		return
	}
	date, err := util.ParseAsOf(req.Date)
	if err != nil {
		returnErrorJsonCode(err, ctx, http.StatusBadRequest)
		return
	}

	outcomes, err := m.RebalancerApp.RunScheduled(ctx, app.ScheduledRunInput{
		Jobs: req.Jobs,
		Date: date,
	})
	// partial failures are reported per job
	status := 200
	if err != nil {
		status = http.StatusMultiStatus
	}
	ctx.JSON(status, gin.H{"outcomes": outcomes})
}

func (m ApiHandler) getLatestProposal(ctx *gin.Context) {
	indexID := ctx.Param("indexID")
	run, err := m.ProposalRepository.GetLatest(indexID)
	if errors.Is(err, qrm.ErrNoRows) {
		returnErrorJsonCode(fmt.Errorf("no proposals stored for %s", indexID), ctx, http.StatusNotFound)
		return
	}
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to get latest proposal: %w", err), ctx)
		return
	}

	ctx.JSON(200, run)
}
