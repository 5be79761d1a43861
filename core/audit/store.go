// Package audit persists the outcome of every swap negotiation so an
// organizer can reconstruct how a schedule was hand-adjusted.
package audit

import (
	"context"
	"time"
)

// Outcome classifies how a proposal ended.
type Outcome string

const (
	// OutcomeAccepted: the user confirmed and the engine applied the swap.
	OutcomeAccepted Outcome = "accepted"
	// OutcomeDeclined: the user dismissed the confirmation prompt.
	OutcomeDeclined Outcome = "declined"
	// OutcomeFailed: the user confirmed but the engine refused or errored.
	OutcomeFailed Outcome = "failed"
)

// Record captures one negotiation.
type Record struct {
	Timestamp    time.Time `json:"timestamp"`
	ProposalID   string    `json:"proposal_id"`
	Room         string    `json:"room"`
	IsCoffeeChat bool      `json:"is_coffee_chat"`
	Att1         *int      `json:"att1,omitempty"`
	Att2         *int      `json:"att2,omitempty"`
	Time1        string    `json:"time1,omitempty"`
	Time2        string    `json:"time2,omitempty"`
	Removal      bool      `json:"removal"`
	Outcome      Outcome   `json:"outcome"`
	Error        string    `json:"error,omitempty"`
}

// Query defines filters for retrieving records.
type Query struct {
	Start   time.Time
	End     time.Time
	Room    string
	Outcome Outcome
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// NopStore discards records and returns nothing.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }
