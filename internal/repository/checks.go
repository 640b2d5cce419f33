package repository

import (
	"context"
	"log/slog"

	"controlpanel/internal/core"
)

// LogUnbalanced warns about every transaction whose amount differs from
// paid plus remaining. The records are kept as-is. It returns the count.
func LogUnbalanced(ctx context.Context, source string, txs []core.Transaction) int {
	n := 0
	for _, tx := range txs {
		if tx.Balanced() {
			continue
		}
		n++
		slog.WarnContext(ctx, "Unbalanced transaction loaded",
			"source", source,
			"transaction_id", tx.ID,
			"amount", tx.Amount.String(),
			"amount_paid", tx.AmountPaid.String(),
			"remaining_amount", tx.RemainingAmount.String())
	}
	return n
}
