package domain

import (
	"time"

	"github.com/google/uuid"
)

// RebalanceRun is a persisted proposal, as read back from storage
type RebalanceRun struct {
	RebalanceRunID uuid.UUID `json:"rebalanceRunId"`
	IndexID        string    `json:"indexId"`
	Region         string    `json:"region"`
	Method         Method    `json:"method"`
	AsOf           time.Time `json:"asOf"`
	MassConserved  bool      `json:"massConserved"`
	ResidualWeight float64   `json:"residualWeight"`
	CreatedAt      time.Time `json:"createdAt"`

	Proposed []ProposedConstituent `json:"proposed"`
	Issuers  []IssuerWeight        `json:"issuers"`
}
