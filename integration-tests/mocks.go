package integration_tests

import (
	"context"
	"fmt"
	"indexcap/internal/domain"
	"indexcap/internal/repository"
	"sync"

	"github.com/google/uuid"
)

// sentEmail is what the mock SES repository captured
type sentEmail struct {
	To      []string
	Subject string
	Body    string
}

type mockEmailForTestsHandler struct {
	mu   sync.Mutex
	sent []sentEmail
}

func NewMockEmailRepositoryForTests() *mockEmailForTestsHandler {
	return &mockEmailForTestsHandler{}
}

func (m *mockEmailForTestsHandler) SendEmail(ctx context.Context, to []string, subject string, body string) (string, error) {
	if len(to) == 0 {
		return "", fmt.Errorf("failed to send email: no recipients")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentEmail{To: to, Subject: subject, Body: body})
	return uuid.NewString(), nil
}

func (m *mockEmailForTestsHandler) Sent() []sentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentEmail, len(m.sent))
	copy(out, m.sent)
	return out
}

var _ repository.EmailRepository = &mockEmailForTestsHandler{}

// staticConstituentsForTests serves a fixed universe per region, like a
// FactSet snapshot taken on one day
type staticConstituentsForTests map[string][]domain.RawConstituent

func (s staticConstituentsForTests) List(ctx context.Context, region string) ([]domain.RawConstituent, error) {
	raw, ok := s[domain.NormalizeRegion(region)]
	if !ok {
		return nil, fmt.Errorf("no constituents for region %s", region)
	}
	return raw, nil
}
