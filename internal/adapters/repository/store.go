// Package repository defines the ranking store interface and errors.
package repository

import "context"

// Entry is one team's rating for a season.
type Entry struct {
	Rank   int
	TID    int
	Name   string
	Season int
	Ovr    int
	MOV    float64
}

// Store provides read/write access to power rankings.
type Store interface {
	// Put inserts or replaces the entry for e.TID. Rank is assigned by the store.
	Put(ctx context.Context, e Entry) error

	// Rank returns the current rank and rating for a team.
	// Returns ErrNotFound if the team is unknown.
	Rank(ctx context.Context, tid int) (Entry, error)

	// TopN returns the top-N entries, best first.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of teams ranked.
	Count(ctx context.Context) int
}
