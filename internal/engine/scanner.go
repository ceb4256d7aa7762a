package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bazaar-flipper/internal/bazaar"
	"bazaar-flipper/internal/logger"
	"bazaar-flipper/internal/metrics"
)

// SnapshotSource yields the bazaar response for one cycle.
// *bazaar.SnapshotCache satisfies it.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*bazaar.Response, error)
}

// Scanner runs fetch -> normalize -> rank cycles over a fixed catalog.
type Scanner struct {
	Source  SnapshotSource
	Catalog *Catalog
}

// NewScanner creates a scanner.
func NewScanner(source SnapshotSource, catalog *Catalog) *Scanner {
	return &Scanner{Source: source, Catalog: catalog}
}

// ScanResult is the outcome of one cycle.
type ScanResult struct {
	ID           string        `json:"id"`
	Entries      RankedResult  `json:"entries"`
	Stats        RankStats     `json:"stats"`
	SnapshotTime time.Time     `json:"snapshot_time"`
	Duration     time.Duration `json:"duration_ns"`
}

// Scan runs one full cycle. Errors abort the cycle; nothing partial is
// returned.
func (s *Scanner) Scan(ctx context.Context, params RankParams) (*ScanResult, error) {
	id := uuid.NewString()[:8]
	start := time.Now()

	snap, err := s.snapshot(ctx)
	if err != nil {
		s.fail(id, err)
		return nil, err
	}

	entries, stats, err := RankWithStats(s.Catalog, snap, params)
	if err != nil {
		s.fail(id, err)
		return nil, err
	}

	res := &ScanResult{
		ID:           id,
		Entries:      entries,
		Stats:        stats,
		SnapshotTime: snap.UpdatedAt(),
		Duration:     time.Since(start),
	}

	metrics.ScansTotal.WithLabelValues(metrics.StatusOK).Inc()
	metrics.ScanDuration.Observe(res.Duration.Seconds())
	metrics.RankedProducts.Set(float64(stats.Ranked))
	metrics.SkippedProducts.WithLabelValues(metrics.ReasonUnavailable).Add(float64(stats.Unavailable))
	metrics.SkippedProducts.WithLabelValues(metrics.ReasonBelowVolume).Add(float64(stats.BelowVolume))
	metrics.SkippedProducts.WithLabelValues(metrics.ReasonUnpriced).Add(float64(stats.Unpriced))

	logger.Info("SCAN", fmt.Sprintf("cycle %s: %d ranked of %d candidates (unavailable=%d below_volume=%d unpriced=%d) in %s",
		id, stats.Ranked, stats.Candidates, stats.Unavailable, stats.BelowVolume, stats.Unpriced,
		res.Duration.Round(time.Millisecond)))
	return res, nil
}

// Explain prices a single product against the current snapshot.
func (s *Scanner) Explain(ctx context.Context, product ItemSymbol, params RankParams) (*Breakdown, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return Explain(s.Catalog, snap, product, params)
}

func (s *Scanner) snapshot(ctx context.Context) (*Snapshot, error) {
	resp, err := s.Source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	return NewSnapshot(resp), nil
}

func (s *Scanner) fail(id string, err error) {
	metrics.ScansTotal.WithLabelValues(metrics.StatusError).Inc()
	logger.Error("SCAN", fmt.Sprintf("cycle %s aborted: %v", id, err))
}
