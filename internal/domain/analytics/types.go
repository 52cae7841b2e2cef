// Package analytics computes financial statistics from item and
// transaction snapshots. The aggregation is a pure function of its
// inputs: no persisted intermediate state is required to reproduce
// the numbers.
package analytics

import (
	"time"

	"stockpilot/internal/core/types"
)

// InventoryStats is a derived, non-persisted snapshot of the inventory's
// financial position. Recomputed on every request.
type InventoryStats struct {
	TotalItems       int         `json:"totalItems"`
	TotalValue       types.Money `json:"totalValue"`
	LowStockItems    int         `json:"lowStockItems"`
	OutOfStockItems  int         `json:"outOfStockItems"`
	TotalProfit      types.Money `json:"totalProfit"`
	TotalLoss        types.Money `json:"totalLoss"`
	MonthlyProfit    types.Money `json:"monthlyProfit"`
	MonthlyLoss      types.Money `json:"monthlyLoss"`
}

// DailySummary is a per-day aggregate of the transaction history.
// Date is either one UTC day ("2026-08-30") or, for a folded
// multi-day range, the inclusive span ("2026-08-24 - 2026-08-30").
type DailySummary struct {
	Date                   string      `json:"date"`
	TotalTransactionsCount int         `json:"totalTransactionsCount"`
	TotalMoneyIn           types.Money `json:"totalMoneyIn"`
	TotalMoneyOut          types.Money `json:"totalMoneyOut"`
	NetFlow                types.Money `json:"netFlow"`
	GrossProfitFromSales   types.Money `json:"grossProfitFromSales"`
	LossFromBelowCostSales types.Money `json:"lossFromBelowCostSales"`
}

// DateRange names a trailing window for summary queries.
type DateRange string

const (
	RangeToday   DateRange = "today"
	RangeWeek    DateRange = "week"
	RangeMonth   DateRange = "month"
	RangeQuarter DateRange = "quarter"
	RangeAll     DateRange = "all"
)

// Start returns the window start for the range, normalized to local
// midnight. Nil means unbounded (all, or any unrecognized value).
func (r DateRange) Start(now time.Time) *time.Time {
	var daysBack int
	switch r {
	case RangeToday:
		daysBack = 0
	case RangeWeek:
		daysBack = 6
	case RangeMonth:
		daysBack = 29
	case RangeQuarter:
		daysBack = 89
	default:
		return nil
	}
	day := now.AddDate(0, 0, -daysBack)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return &start
}
