// Package sampler draws random records from a catalog source until one
// passes the ban list, giving up after a fixed number of attempts.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/lehigh-university-libraries/artexplorer/internal/bans"
	"github.com/lehigh-university-libraries/artexplorer/internal/models"
)

// DefaultMaxAttempts bounds the number of requests per FetchOne call
const DefaultMaxAttempts = 10

var (
	// ErrExhausted is returned when no candidate passed within the attempt budget
	ErrExhausted = errors.New("no acceptable artwork found")
	// ErrBusy is returned when a fetch is already in flight
	ErrBusy = errors.New("fetch already in progress")
)

// Source returns one randomly selected record per call. A nil record with a
// nil error means the source had nothing to offer for that attempt.
type Source interface {
	FetchRandom(ctx context.Context) (*models.ArtworkRecord, error)
}

// Sampler runs the retry-and-filter loop against a Source
type Sampler struct {
	source      Source
	maxAttempts int
	inFlight    atomic.Bool
}

// New creates a Sampler. maxAttempts <= 0 selects DefaultMaxAttempts.
func New(source Source, maxAttempts int) *Sampler {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Sampler{
		source:      source,
		maxAttempts: maxAttempts,
	}
}

// MaxAttempts returns the attempt budget of a single FetchOne call
func (s *Sampler) MaxAttempts() int {
	return s.maxAttempts
}

// Busy reports whether a FetchOne call is in flight
func (s *Sampler) Busy() bool {
	return s.inFlight.Load()
}

// FetchOne returns the first candidate that is not banned by list. Attempts
// are strictly sequential; a source error ends the call without retrying.
func (s *Sampler) FetchOne(ctx context.Context, list bans.List) (*models.ArtworkRecord, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.inFlight.Store(false)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidate, err := s.source.FetchRandom(ctx)
		if err != nil {
			slog.Error("Fetch attempt failed", "attempt", attempt, "err", err)
			return nil, fmt.Errorf("fetch attempt %d: %w", attempt, err)
		}

		reason := bans.Reason(candidate, list)
		if reason == "" {
			slog.Debug("Candidate accepted", "attempt", attempt, "objectid", candidate.ObjectID, "title", candidate.Title)
			return candidate, nil
		}

		slog.Debug("Candidate rejected", "attempt", attempt, "reason", reason)
	}

	slog.Info("No acceptable artwork found", "attempts", s.maxAttempts, "bans", len(list))
	return nil, ErrExhausted
}
