// Package idempotency guards against starting the same settlement twice.
package idempotency

import "context"

type Status string

const (
	StatusInFlight  Status = "in_flight"
	StatusSubmitted Status = "submitted"
	StatusCompleted Status = "completed"
)

// Record is what a key currently stands for.
type Record struct {
	Status         Status `json:"status"`
	Reference      string `json:"reference,omitempty"`
	ConfirmedRound uint64 `json:"confirmed_round,omitempty"`
}

// Store reserves settlement keys. Begin returns reserved=true only to the caller that
// created the reservation; everyone else gets the existing record.
type Store interface {
	Begin(ctx context.Context, key string) (record *Record, reserved bool, err error)
	MarkSubmitted(ctx context.Context, key, reference string) error
	Complete(ctx context.Context, key, reference string, confirmedRound uint64) error
	// Release drops the reservation after a failure where nothing reached the network.
	Release(ctx context.Context, key string) error
}
