package receipt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"
)

// Scorer computes the points for a validated receipt
type Scorer interface {
	Score(r *Receipt) int
}

// breakdowner is implemented by scorers that can attribute points to rules
type breakdowner interface {
	Breakdown(r *Receipt) map[string]int
}

// IdentifierFunc derives the identifier for a receipt's content
type IdentifierFunc func(r *Receipt) string

// Service handles receipt operations
type Service struct {
	store    Store
	scorer   Scorer
	identify IdentifierFunc
	metrics  *Metrics
	inflight singleflight.Group
}

// NewService creates a new Service using the content identifier
func NewService(store Store, scorer Scorer, metrics *Metrics) *Service {
	return NewServiceWithDeps(store, scorer, Identify, metrics)
}

// NewServiceWithDeps creates a new Service with a custom identifier for testing
func NewServiceWithDeps(store Store, scorer Scorer, identify IdentifierFunc, metrics *Metrics) *Service {
	return &Service{
		store:    store,
		scorer:   scorer,
		identify: identify,
		metrics:  metrics,
	}
}

// ProcessReceipt returns the identifier for r, scoring and storing it only
// the first time its content is seen.
func (s *Service) ProcessReceipt(r *Receipt) (string, error) {
	id := s.identify(r)

	_, err := s.store.Get(id)
	if err == nil {
		s.metrics.observeProcessed(false, 0)
		return id, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("looking up receipt %s: %w", id, err)
	}

	// Concurrent first submissions of the same content share one computation;
	// different identifiers use different keys and do not wait on each other.
	// Only the caller that ran the computation can report a new record.
	ran := false
	_, err, _ = s.inflight.Do(id, func() (any, error) {
		ran = true
		points := s.scorer.Score(r)
		stored, inserted, err := s.store.PutIfAbsent(ScoreRecord{ID: id, Points: points})
		if err != nil {
			return nil, err
		}
		s.metrics.observeProcessed(inserted, stored.Points)
		if inserted {
			s.logStored(r, stored)
		}
		return stored, nil
	})
	if err != nil {
		return "", fmt.Errorf("storing receipt %s: %w", id, err)
	}
	if !ran {
		s.metrics.observeProcessed(false, 0)
	}
	return id, nil
}

func (s *Service) logStored(r *Receipt, rec ScoreRecord) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	args := []any{"id", rec.ID, "points", rec.Points, "items", len(r.Items)}
	if b, ok := s.scorer.(breakdowner); ok {
		args = append(args, "breakdown", b.Breakdown(r))
	}
	slog.Debug("Stored receipt score", args...)
}

// GetPoints retrieves the points stored for an identifier
func (s *Service) GetPoints(id string) (int, error) {
	rec, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.metrics.observeLookup(false)
		}
		return 0, fmt.Errorf("getting receipt: %w", err)
	}
	s.metrics.observeLookup(true)
	return rec.Points, nil
}

// Count returns the number of distinct receipts stored
func (s *Service) Count() (int, error) {
	n, err := s.store.Len()
	if err != nil {
		return 0, fmt.Errorf("counting receipts: %w", err)
	}
	return n, nil
}
