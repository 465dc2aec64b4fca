package domain

import (
	"context"
	"time"
)

// Span times one stage of a rebalance run (fetch, compute, persist...)
type Span struct {
	Name    string    `json:"name"`
	startTs time.Time `json:"-"`
	Elapsed *int64    `json:"elapsedMs"`
}

func (s *Span) End() {
	if s.Elapsed == nil {
		t := time.Since(s.startTs).Milliseconds()
		s.Elapsed = &t
	}
}

const ContextProfileKey = "runProfile"

// RunProfile is a list of spans. Not thread safe, one per run.
type RunProfile struct {
	Spans   []*Span `json:"spans"`
	startTs time.Time
	TotalMs *int64 `json:"totalMs"`
}

func NewRunProfile() (*RunProfile, func()) {
	p := &RunProfile{
		Spans:   []*Span{},
		startTs: time.Now(),
	}
	return p, p.End
}

func (p *RunProfile) End() {
	if len(p.Spans) > 0 {
		p.Spans[len(p.Spans)-1].End()
	}
	if p.TotalMs == nil {
		t := time.Since(p.startTs).Milliseconds()
		p.TotalMs = &t
	}
}

// StartNewSpan ends the last span and begins a new one
func (p *RunProfile) StartNewSpan(name string) (*Span, func()) {
	s := &Span{
		Name:    name,
		startTs: time.Now(),
	}
	if len(p.Spans) > 0 {
		p.Spans[len(p.Spans)-1].End()
	}
	p.Spans = append(p.Spans, s)
	return s, s.End
}

// ProfileFromContext returns the profile stored on ctx, or a fresh one
// when the caller did not attach any
func ProfileFromContext(ctx context.Context) *RunProfile {
	if p, ok := ctx.Value(ContextProfileKey).(*RunProfile); ok {
		return p
	}
	p, _ := NewRunProfile()
	return p
}
