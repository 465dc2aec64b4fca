package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"indexcap/internal/domain"
	"indexcap/internal/repository"
	"sort"
	"strings"
	"time"
)

// EmailService is responsible for the business logic around emails.
// It renders proposal summaries but does NOT compute proposals - those
// are passed in as domain objects.
type EmailService interface {
	// SendProposalSummary emails the summary to the configured
	// recipients and returns the provider message id
	SendProposalSummary(ctx context.Context, proposal *domain.Proposal, asOf time.Time) (string, error)

	// GenerateProposalSummaryEmail returns the subject and HTML body.
	// Can be called separately for previews.
	GenerateProposalSummaryEmail(proposal *domain.Proposal, asOf time.Time) (string, string, error)
}

type emailServiceHandler struct {
	EmailRepository repository.EmailRepository
	Recipients      []string
}

func NewEmailService(
	emailRepository repository.EmailRepository,
	recipients []string,
) EmailService {
	return &emailServiceHandler{
		EmailRepository: emailRepository,
		Recipients:      recipients,
	}
}

func (h *emailServiceHandler) SendProposalSummary(ctx context.Context, proposal *domain.Proposal, asOf time.Time) (string, error) {
	if len(h.Recipients) == 0 {
		return "", fmt.Errorf("failed to send proposal summary: no recipients configured")
	}

	subject, body, err := h.GenerateProposalSummaryEmail(proposal, asOf)
	if err != nil {
		return "", err
	}

	messageID, err := h.EmailRepository.SendEmail(ctx, h.Recipients, subject, body)
	if err != nil {
		return "", fmt.Errorf("failed to send proposal summary for %s: %w", proposal.IndexID, err)
	}

	return messageID, nil
}

const topWeightsInEmail = 10

type emailRow struct {
	Ticker    string
	Issuer    string
	OldWeight string
	NewWeight string
	Flags     string
}

type emailData struct {
	IndexID        string
	AsOf           string
	Method         string
	Region         string
	MassConserved  bool
	CapBreached    bool
	TotalNewWeight string
	ResidualWeight string
	Turnover       string
	Capped         []emailRow
	TopWeights     []emailRow
	Flagged        []emailRow
}

var proposalSummaryTemplate = template.Must(template.New("proposalSummary").Parse(`<html>
<body style="font-family: Arial, sans-serif; font-size: 14px;">
<h2>{{.IndexID}} rebalance proposal</h2>
<p>As of {{.AsOf}} &middot; {{.Method}} &middot; {{.Region}}</p>
{{if not .MassConserved}}<p style="color: #b00020;"><strong>Warning:</strong> proposed weights sum to {{.TotalNewWeight}} (residual {{.ResidualWeight}}). Every issuer was locked, review before use.</p>{{end}}
{{if .CapBreached}}<p style="color: #b00020;"><strong>Warning:</strong> at least one issuer is above both caps, see the cap breach flags.</p>{{end}}
<p>Turnover: {{.Turnover}}</p>
{{define "rows"}}<table style="border-collapse: collapse;" cellpadding="4" border="1">
<tr><th>Ticker</th><th>Issuer</th><th>Current</th><th>Proposed</th><th>Flags</th></tr>
{{range .}}<tr><td>{{.Ticker}}</td><td>{{.Issuer}}</td><td>{{.OldWeight}}</td><td>{{.NewWeight}}</td><td>{{.Flags}}</td></tr>
{{end}}</table>{{end}}
<h3>Top weights</h3>
{{template "rows" .TopWeights}}
{{if .Capped}}<h3>Capped constituents</h3>
{{template "rows" .Capped}}{{end}}
{{if .Flagged}}<h3>Breach flags</h3>
{{template "rows" .Flagged}}{{end}}
</body>
</html>
`))

func (h *emailServiceHandler) GenerateProposalSummaryEmail(proposal *domain.Proposal, asOf time.Time) (string, string, error) {
	if proposal == nil {
		return "", "", fmt.Errorf("failed to generate proposal summary: nil proposal")
	}

	data := emailData{
		IndexID:        proposal.IndexID,
		AsOf:           asOf.Format(time.DateOnly),
		Method:         string(proposal.Meta.Method),
		Region:         proposal.Meta.Region,
		MassConserved:  proposal.MassConserved,
		CapBreached:    proposal.CapBreached,
		TotalNewWeight: formatPercent(proposal.Summary.TotalNewWeight),
		ResidualWeight: formatPercent(proposal.ResidualWeight),
		Turnover:       formatPercent(proposal.Summary.Turnover),
		Capped:         []emailRow{},
		TopWeights:     []emailRow{},
		Flagged:        []emailRow{},
	}

	byWeight := make([]domain.ProposedConstituent, len(proposal.Proposed))
	copy(byWeight, proposal.Proposed)
	sort.SliceStable(byWeight, func(i, j int) bool {
		return byWeight[i].NewWeight > byWeight[j].NewWeight
	})

	for i, c := range byWeight {
		row := newEmailRow(c)
		if i < topWeightsInEmail {
			data.TopWeights = append(data.TopWeights, row)
		}
		if c.Capped {
			data.Capped = append(data.Capped, row)
		}
		if len(c.Flags) > 0 {
			data.Flagged = append(data.Flagged, row)
		}
	}

	var body bytes.Buffer
	if err := proposalSummaryTemplate.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("failed to render proposal summary: %w", err)
	}

	subject := fmt.Sprintf("%s %s proposal for %s", proposal.IndexID, proposal.Meta.Method, data.AsOf)
	if !proposal.MassConserved || proposal.CapBreached {
		subject = "[CHECK] " + subject
	}

	return subject, body.String(), nil
}

func newEmailRow(c domain.ProposedConstituent) emailRow {
	return emailRow{
		Ticker:    c.Ticker,
		Issuer:    c.Issuer,
		OldWeight: formatPercent(c.OldWeight),
		NewWeight: formatPercent(c.NewWeight),
		Flags:     strings.Join(c.Flags, ", "),
	}
}

func formatPercent(f float64) string {
	return fmt.Sprintf("%.2f%%", f*100)
}
