package main

import (
	"context"
	"encoding/json"
	"fmt"
	"indexcap/cmd"
	"indexcap/internal/app"
	"indexcap/internal/logger"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

// scheduledDetail is the EventBridge rule's constant input, e.g.
//
//	{"jobs": [{"indexId": "OMXC25CAP", "region": "CPH", "notify": true}]}
type scheduledDetail struct {
	Jobs []app.RebalanceJob `json:"jobs"`
}

type schedulerHandler struct {
	RebalancerApp app.RebalancerApp
}

func parseEvent(event events.CloudWatchEvent) (*app.ScheduledRunInput, error) {
	detail := scheduledDetail{}
	if len(event.Detail) > 0 {
		if err := json.Unmarshal(event.Detail, &detail); err != nil {
			return nil, fmt.Errorf("failed to parse event detail: %w", err)
		}
	}
	if len(detail.Jobs) == 0 {
		return nil, fmt.Errorf("event %s has no jobs", event.ID)
	}
	return &app.ScheduledRunInput{
		Jobs: detail.Jobs,
		Date: event.Time.UTC(),
	}, nil
}

func (h schedulerHandler) Handler(ctx context.Context, event events.CloudWatchEvent) ([]app.JobOutcome, error) {
	lg := logger.New().With("eventID", event.ID)
	ctx = logger.WithLogger(ctx, lg)

	input, err := parseEvent(event)
	if err != nil {
		return nil, err
	}

	outcomes, err := h.RebalancerApp.RunScheduled(ctx, *input)
	if err != nil {
		lg.Errorf("scheduled run finished with failures: %s", err.Error())
	}
	return outcomes, err
}

func main() {
	apiHandler, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(apiHandler)

	handler := schedulerHandler{RebalancerApp: apiHandler.RebalancerApp}
	lambda.Start(handler.Handler)
}
