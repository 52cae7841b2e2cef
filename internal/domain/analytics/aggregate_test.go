package analytics

import (
	"testing"
	"time"

	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
	"stockpilot/internal/domain/inventory"
	"stockpilot/internal/domain/ledger"
)

func testItem(buy, sell float64, stock, min int64) inventory.InventoryItem {
	item := inventory.NewInventoryItem("Widget", "tools", "SKU-"+id.New().String()[:8], types.NewMoney(buy), types.NewMoney(sell))
	item.CurrentStock = stock
	item.MinStockLevel = min
	return *item
}

func testTxn(item *inventory.InventoryItem, txType ledger.TransactionType, qty int64, price float64, at time.Time) ledger.StockTransaction {
	txn := ledger.NewStockTransaction(item.ID, txType, qty, types.NewMoney(price))
	txn.CreatedAt = at
	return *txn
}

func TestComputeStats_ProfitAndLoss(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	// buyPrice=10, sellPrice=15
	item := testItem(10, 15, 15, 5)
	txns := []ledger.StockTransaction{
		testTxn(&item, ledger.TypeStockIn, 20, 10, now.Add(-2*time.Hour)),
		// sold above cost: 5 x (15-10) = 25 profit
		testTxn(&item, ledger.TypeStockOut, 5, 15, now.Add(-time.Hour)),
		// sold below cost: 5 x (10-8) = 10 loss
		testTxn(&item, ledger.TypeStockOut, 5, 8, now.Add(-30*time.Minute)),
	}

	stats := ComputeStats([]inventory.InventoryItem{item}, txns, now)

	if stats.TotalItems != 1 {
		t.Errorf("TotalItems = %d, want 1", stats.TotalItems)
	}
	if !stats.TotalProfit.Equal(types.NewMoney(25)) {
		t.Errorf("TotalProfit = %s, want 25", stats.TotalProfit)
	}
	if !stats.TotalLoss.Equal(types.NewMoney(10)) {
		t.Errorf("TotalLoss = %s, want 10", stats.TotalLoss)
	}
	if !stats.MonthlyProfit.Equal(types.NewMoney(25)) {
		t.Errorf("MonthlyProfit = %s, want 25", stats.MonthlyProfit)
	}
	if !stats.TotalValue.Equal(types.NewMoney(150)) {
		t.Errorf("TotalValue = %s, want 150", stats.TotalValue)
	}
}

func TestComputeStats_MonthlyWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	item := testItem(10, 15, 15, 5)

	txns := []ledger.StockTransaction{
		// last month: counted in totals, not in monthly
		testTxn(&item, ledger.TypeStockOut, 2, 15, time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)),
		// this month
		testTxn(&item, ledger.TypeStockOut, 3, 15, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)),
	}

	stats := ComputeStats([]inventory.InventoryItem{item}, txns, now)

	if !stats.TotalProfit.Equal(types.NewMoney(25)) {
		t.Errorf("TotalProfit = %s, want 25", stats.TotalProfit)
	}
	if !stats.MonthlyProfit.Equal(types.NewMoney(15)) {
		t.Errorf("MonthlyProfit = %s, want 15", stats.MonthlyProfit)
	}
}

func TestComputeStats_SkipsOrphansAndOtherTypes(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	item := testItem(10, 15, 10, 5)
	ghost := testItem(10, 15, 10, 5) // not in snapshot

	txns := []ledger.StockTransaction{
		testTxn(&ghost, ledger.TypeStockOut, 5, 15, now),
		testTxn(&item, ledger.TypeStockIn, 5, 10, now),
		testTxn(&item, ledger.TypeAdjustment, 7, 10, now),
		testTxn(&item, ledger.TypeTransfer, 3, 10, now),
	}

	stats := ComputeStats([]inventory.InventoryItem{item}, txns, now)

	if !stats.TotalProfit.IsZero() || !stats.TotalLoss.IsZero() {
		t.Errorf("profit/loss = %s/%s, want 0/0", stats.TotalProfit, stats.TotalLoss)
	}
}

func TestComputeStats_StockCounters(t *testing.T) {
	now := time.Now()
	items := []inventory.InventoryItem{
		testItem(10, 15, 0, 5),  // out of stock
		testItem(10, 15, 3, 5),  // low
		testItem(10, 15, 50, 5), // healthy
	}

	stats := ComputeStats(items, nil, now)

	if stats.OutOfStockItems != 1 {
		t.Errorf("OutOfStockItems = %d, want 1", stats.OutOfStockItems)
	}
	if stats.LowStockItems != 1 {
		t.Errorf("LowStockItems = %d, want 1", stats.LowStockItems)
	}
}

func TestComputeStats_Deterministic(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	item := testItem(10, 15, 15, 5)
	txns := []ledger.StockTransaction{
		testTxn(&item, ledger.TypeStockOut, 5, 15, now.Add(-time.Hour)),
		testTxn(&item, ledger.TypeStockOut, 2, 8, now.Add(-time.Minute)),
	}

	first := ComputeStats([]inventory.InventoryItem{item}, txns, now)
	second := ComputeStats([]inventory.InventoryItem{item}, txns, now)

	if first.TotalItems != second.TotalItems ||
		!first.TotalValue.Equal(second.TotalValue) ||
		!first.TotalProfit.Equal(second.TotalProfit) ||
		!first.TotalLoss.Equal(second.TotalLoss) ||
		!first.MonthlyProfit.Equal(second.MonthlyProfit) ||
		!first.MonthlyLoss.Equal(second.MonthlyLoss) {
		t.Errorf("repeated aggregation differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestComputeStats_SignPartition(t *testing.T) {
	// total_profit - total_loss must equal the raw margin sum.
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	item := testItem(10, 15, 100, 5)
	txns := []ledger.StockTransaction{
		testTxn(&item, ledger.TypeStockOut, 5, 15, now), // +25
		testTxn(&item, ledger.TypeStockOut, 5, 8, now),  // -10
		testTxn(&item, ledger.TypeStockOut, 2, 10, now), // 0, goes to loss bucket as 0
	}

	stats := ComputeStats([]inventory.InventoryItem{item}, txns, now)

	rawMargin := types.NewMoney(15) // 25 - 10
	if !stats.TotalProfit.Sub(stats.TotalLoss).Equal(rawMargin) {
		t.Errorf("profit-loss = %s, want %s", stats.TotalProfit.Sub(stats.TotalLoss), rawMargin)
	}
}

func TestComputeDailySummaries_PerDayGrouping(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	item := testItem(10, 15, 100, 5)

	today := now
	yesterday := now.AddDate(0, 0, -1)
	txns := []ledger.StockTransaction{
		testTxn(&item, ledger.TypeStockIn, 10, 10, yesterday),  // money out 100
		testTxn(&item, ledger.TypeStockOut, 4, 15, today),      // money in 60, profit 20
		testTxn(&item, ledger.TypeStockOut, 2, 8, today),       // money in 16, loss 4
	}

	summaries := ComputeDailySummaries([]inventory.InventoryItem{item}, txns, RangeAll, now)

	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	if summaries[0].Date != "2026-08-30" || summaries[1].Date != "2026-08-29" {
		t.Fatalf("wrong order: %s, %s", summaries[0].Date, summaries[1].Date)
	}

	d := summaries[0]
	if d.TotalTransactionsCount != 2 {
		t.Errorf("count = %d, want 2", d.TotalTransactionsCount)
	}
	if !d.TotalMoneyIn.Equal(types.NewMoney(76)) {
		t.Errorf("moneyIn = %s, want 76", d.TotalMoneyIn)
	}
	if !d.GrossProfitFromSales.Equal(types.NewMoney(20)) {
		t.Errorf("grossProfit = %s, want 20", d.GrossProfitFromSales)
	}
	if !d.LossFromBelowCostSales.Equal(types.NewMoney(4)) {
		t.Errorf("loss = %s, want 4", d.LossFromBelowCostSales)
	}
	if !d.NetFlow.Equal(types.NewMoney(76)) {
		t.Errorf("netFlow = %s, want 76", d.NetFlow)
	}

	if !summaries[1].TotalMoneyOut.Equal(types.NewMoney(100)) {
		t.Errorf("yesterday moneyOut = %s, want 100", summaries[1].TotalMoneyOut)
	}
}

func TestComputeDailySummaries_WeekWindowExcludesOldTransactions(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	item := testItem(10, 15, 100, 5)

	txns := []ledger.StockTransaction{
		testTxn(&item, ledger.TypeStockOut, 1, 15, now),                  // inside
		testTxn(&item, ledger.TypeStockOut, 1, 15, now.AddDate(0, 0, -6)), // boundary, inside
		testTxn(&item, ledger.TypeStockOut, 1, 15, now.AddDate(0, 0, -8)), // outside
	}

	summaries := ComputeDailySummaries([]inventory.InventoryItem{item}, txns, RangeWeek, now)

	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1 folded aggregate", len(summaries))
	}
	if summaries[0].TotalTransactionsCount != 2 {
		t.Errorf("count = %d, want 2 (8-day-old transaction must be excluded)", summaries[0].TotalTransactionsCount)
	}
	if summaries[0].Date != "2026-08-24 - 2026-08-30" {
		t.Errorf("span label = %q", summaries[0].Date)
	}
}

func TestComputeDailySummaries_TodayReturnsSingleDay(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	item := testItem(10, 15, 100, 5)

	txns := []ledger.StockTransaction{
		testTxn(&item, ledger.TypeStockOut, 1, 15, now),
	}

	summaries := ComputeDailySummaries([]inventory.InventoryItem{item}, txns, RangeToday, now)

	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	if summaries[0].Date != "2026-08-30" {
		t.Errorf("date = %q, want 2026-08-30", summaries[0].Date)
	}
	if summaries[0].TotalTransactionsCount != 1 {
		t.Errorf("count = %d, want 1", summaries[0].TotalTransactionsCount)
	}
}

func TestComputeDailySummaries_TodayEmptyLedger(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	summaries := ComputeDailySummaries(nil, nil, RangeToday, now)

	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1 zero-valued day", len(summaries))
	}
	if summaries[0].TotalTransactionsCount != 0 || !summaries[0].NetFlow.IsZero() {
		t.Errorf("expected zero summary, got %+v", summaries[0])
	}
}

func TestComputeDailySummaries_EqualPriceContributesToNeitherBucket(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	item := testItem(10, 15, 100, 5)

	txns := []ledger.StockTransaction{
		testTxn(&item, ledger.TypeStockOut, 5, 10, now), // sold at cost
	}

	summaries := ComputeDailySummaries([]inventory.InventoryItem{item}, txns, RangeAll, now)

	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	if !summaries[0].GrossProfitFromSales.IsZero() {
		t.Errorf("grossProfit = %s, want 0", summaries[0].GrossProfitFromSales)
	}
	if !summaries[0].LossFromBelowCostSales.IsZero() {
		t.Errorf("loss = %s, want 0", summaries[0].LossFromBelowCostSales)
	}
}

func TestDateRange_Start(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 45, 0, 0, time.UTC)

	tests := []struct {
		name  string
		r     DateRange
		want  *time.Time
	}{
		{"today", RangeToday, timePtr(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))},
		{"week", RangeWeek, timePtr(time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC))},
		{"month", RangeMonth, timePtr(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))},
		{"quarter", RangeQuarter, timePtr(time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC))},
		{"all", RangeAll, nil},
		{"unrecognized", DateRange("bogus"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.r.Start(now)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("Start() = %v, want %v", got, tt.want)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Errorf("Start() = %v, want %v", got, tt.want)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }
