package postgres

import (
	"context"
	"fmt"
	"time"

	"stockpilot/internal/domain/analytics"
)

var _ analytics.SummaryStore = (*SummaryRepo)(nil)

// SummaryRepo caches daily aggregates. Reads always recompute from the
// ledger; this table exists for external reporting tools.
type SummaryRepo struct {
	txm *TxManager
}

// NewSummaryRepo creates a new summary repository.
func NewSummaryRepo(txm *TxManager) *SummaryRepo {
	return &SummaryRepo{txm: txm}
}

func (r *SummaryRepo) Upsert(ctx context.Context, summary analytics.DailySummary) error {
	sql := `
		INSERT INTO daily_summaries (
			day, transactions_count, money_in, money_out, net_flow,
			gross_profit, loss_below_cost, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (day) DO UPDATE SET
			transactions_count = EXCLUDED.transactions_count,
			money_in           = EXCLUDED.money_in,
			money_out          = EXCLUDED.money_out,
			net_flow           = EXCLUDED.net_flow,
			gross_profit       = EXCLUDED.gross_profit,
			loss_below_cost    = EXCLUDED.loss_below_cost,
			updated_at         = EXCLUDED.updated_at
	`

	_, err := r.txm.GetQuerier(ctx).Exec(ctx, sql,
		summary.Date, summary.TotalTransactionsCount,
		summary.TotalMoneyIn, summary.TotalMoneyOut, summary.NetFlow,
		summary.GrossProfitFromSales, summary.LossFromBelowCostSales,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}
	return nil
}
