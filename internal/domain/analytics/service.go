package analytics

import (
	"context"
	"fmt"
	"time"

	"stockpilot/internal/domain/inventory"
	"stockpilot/internal/domain/ledger"
	"stockpilot/pkg/logger"
)

// SummaryStore caches per-day aggregates. The cache is write-through
// and advisory: reads always recompute from the ledger, so a failed
// upsert never affects reported numbers.
type SummaryStore interface {
	Upsert(ctx context.Context, summary DailySummary) error
}

// Service fetches fresh snapshots and runs the aggregation.
type Service struct {
	items inventory.Repository
	txns  ledger.Repository
	cache SummaryStore
	clock func() time.Time
}

// NewService creates a new analytics service. cache may be nil.
func NewService(items inventory.Repository, txns ledger.Repository, cache SummaryStore) *Service {
	return &Service{
		items: items,
		txns:  txns,
		cache: cache,
		clock: time.Now,
	}
}

// Stats computes current inventory statistics from a fresh snapshot.
func (s *Service) Stats(ctx context.Context) (InventoryStats, error) {
	items, err := s.items.Snapshot(ctx)
	if err != nil {
		return InventoryStats{}, fmt.Errorf("load items: %w", err)
	}
	txns, err := s.txns.Snapshot(ctx, nil)
	if err != nil {
		return InventoryStats{}, fmt.Errorf("load transactions: %w", err)
	}
	return ComputeStats(items, txns, s.clock()), nil
}

// DailySummaries computes per-day aggregates for the named range and
// refreshes the summary cache best-effort.
func (s *Service) DailySummaries(ctx context.Context, dateRange DateRange) ([]DailySummary, error) {
	now := s.clock()

	items, err := s.items.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	txns, err := s.txns.Snapshot(ctx, dateRange.Start(now))
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	summaries := ComputeDailySummaries(items, txns, dateRange, now)

	if s.cache != nil && (dateRange == RangeAll || dateRange == RangeToday) {
		for _, summary := range summaries {
			if err := s.cache.Upsert(ctx, summary); err != nil {
				logger.Warn(ctx, "summary cache upsert failed", "date", summary.Date, "error", err)
				break
			}
		}
	}

	return summaries, nil
}
