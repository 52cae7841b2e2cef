package analytics

import (
	"sort"
	"time"

	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
	"stockpilot/internal/domain/inventory"
	"stockpilot/internal/domain/ledger"
)

// ComputeStats derives InventoryStats from a snapshot of items and
// transactions. Deterministic: identical inputs and the same now yield
// identical output.
//
// Profit/loss comes only from stock_out entries whose item still exists,
// measured against the item's current buy price. Orphaned entries are
// skipped. Monthly buckets cover the calendar month of now.
func ComputeStats(items []inventory.InventoryItem, txns []ledger.StockTransaction, now time.Time) InventoryStats {
	stats := InventoryStats{
		TotalItems:    len(items),
		TotalValue:    types.Zero(),
		TotalProfit:   types.Zero(),
		TotalLoss:     types.Zero(),
		MonthlyProfit: types.Zero(),
		MonthlyLoss:   types.Zero(),
	}

	byID := make(map[id.ID]*inventory.InventoryItem, len(items))
	for i := range items {
		item := &items[i]
		byID[item.ID] = item

		stats.TotalValue = stats.TotalValue.Add(item.StockValue())
		if item.IsLowStock() {
			stats.LowStockItems++
		}
		if item.IsOutOfStock() {
			stats.OutOfStockItems++
		}
	}

	for i := range txns {
		txn := &txns[i]
		if txn.Type != ledger.TypeStockOut {
			continue
		}
		item, ok := byID[txn.ItemID]
		if !ok {
			continue
		}

		margin := txn.UnitPrice.Sub(item.BuyPrice).Mul(types.NewMoneyFromInt(txn.Quantity))
		sameMonth := txn.CreatedAt.Year() == now.Year() && txn.CreatedAt.Month() == now.Month()

		if margin.Sign() > 0 {
			stats.TotalProfit = stats.TotalProfit.Add(margin)
			if sameMonth {
				stats.MonthlyProfit = stats.MonthlyProfit.Add(margin)
			}
		} else {
			loss := margin.Abs()
			stats.TotalLoss = stats.TotalLoss.Add(loss)
			if sameMonth {
				stats.MonthlyLoss = stats.MonthlyLoss.Add(loss)
			}
		}
	}

	return stats
}

const dayFormat = "2006-01-02"

// ComputeDailySummaries groups transactions by UTC calendar day and
// aggregates money flow per day, newest first.
//
// A named window narrows input to createdAt >= the range start. The
// shape of the result follows the range: today yields that single day,
// week/month/quarter fold all days into one aggregate labeled with the
// inclusive span, all (or unrecognized) yields the full per-day list.
func ComputeDailySummaries(items []inventory.InventoryItem, txns []ledger.StockTransaction, dateRange DateRange, now time.Time) []DailySummary {
	byID := make(map[id.ID]*inventory.InventoryItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	start := dateRange.Start(now)

	days := make(map[string]*DailySummary)
	for i := range txns {
		txn := &txns[i]
		if start != nil && txn.CreatedAt.Before(*start) {
			continue
		}

		key := txn.CreatedAt.UTC().Format(dayFormat)
		day, ok := days[key]
		if !ok {
			day = emptySummary(key)
			days[key] = day
		}

		day.TotalTransactionsCount++
		switch txn.Type {
		case ledger.TypeStockOut:
			day.TotalMoneyIn = day.TotalMoneyIn.Add(txn.TotalAmount)
			if item, ok := byID[txn.ItemID]; ok {
				margin := txn.UnitPrice.Sub(item.BuyPrice).Mul(types.NewMoneyFromInt(txn.Quantity))
				switch {
				case margin.Sign() > 0:
					day.GrossProfitFromSales = day.GrossProfitFromSales.Add(margin)
				case margin.Sign() < 0:
					day.LossFromBelowCostSales = day.LossFromBelowCostSales.Add(margin.Abs())
				}
			}
		case ledger.TypeStockIn:
			day.TotalMoneyOut = day.TotalMoneyOut.Add(txn.TotalAmount)
		}
	}

	summaries := make([]DailySummary, 0, len(days))
	for _, day := range days {
		day.NetFlow = day.TotalMoneyIn.Sub(day.TotalMoneyOut)
		summaries = append(summaries, *day)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Date > summaries[j].Date
	})

	switch dateRange {
	case RangeToday:
		today := now.UTC().Format(dayFormat)
		for _, s := range summaries {
			if s.Date == today {
				return []DailySummary{s}
			}
		}
		return []DailySummary{*emptySummary(today)}
	case RangeWeek, RangeMonth, RangeQuarter:
		return []DailySummary{fold(summaries, *start, now)}
	default:
		return summaries
	}
}

func emptySummary(date string) *DailySummary {
	return &DailySummary{
		Date:                   date,
		TotalMoneyIn:           types.Zero(),
		TotalMoneyOut:          types.Zero(),
		NetFlow:                types.Zero(),
		GrossProfitFromSales:   types.Zero(),
		LossFromBelowCostSales: types.Zero(),
	}
}

// fold sums every numeric field across days into one aggregate labeled
// with the inclusive date span.
func fold(summaries []DailySummary, start, end time.Time) DailySummary {
	total := emptySummary(start.Format(dayFormat) + " - " + end.Format(dayFormat))
	for _, s := range summaries {
		total.TotalTransactionsCount += s.TotalTransactionsCount
		total.TotalMoneyIn = total.TotalMoneyIn.Add(s.TotalMoneyIn)
		total.TotalMoneyOut = total.TotalMoneyOut.Add(s.TotalMoneyOut)
		total.GrossProfitFromSales = total.GrossProfitFromSales.Add(s.GrossProfitFromSales)
		total.LossFromBelowCostSales = total.LossFromBelowCostSales.Add(s.LossFromBelowCostSales)
	}
	total.NetFlow = total.TotalMoneyIn.Sub(total.TotalMoneyOut)
	return *total
}
