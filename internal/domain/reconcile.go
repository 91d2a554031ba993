package domain

import "time"

// ReconcileResult is the decision produced by comparing a stored product
// against a freshly extracted snapshot.
type ReconcileResult struct {
	// History is the product's price history after the comparison, with a new
	// entry appended when the sale price changed while in stock.
	History []HistoryEntry
	// PriceDropped reports whether the fresh sale price is below the last
	// recorded one. It gates alert matching, not the history append.
	PriceDropped bool
	// Restocked reports an out-of-stock to in-stock transition.
	Restocked bool
}

// Reconcile compares prev against fresh and decides what changed. It is a
// pure function: prev is not mutated and no side effects occur.
//
// A history entry is appended iff the product is in stock and the sale price
// differs from the last entry (or from 0 when the history is empty).
func Reconcile(prev *TrackedProduct, fresh Snapshot, now time.Time) ReconcileResult {
	last := prev.LastKnownPrice()

	history := make([]HistoryEntry, len(prev.PriceHistory), len(prev.PriceHistory)+1)
	copy(history, prev.PriceHistory)

	if !fresh.OutOfStock && fresh.SalePrice != last {
		history = append(history, HistoryEntry{Price: fresh.SalePrice, CheckedAt: now})
	}

	return ReconcileResult{
		History:      history,
		PriceDropped: !fresh.OutOfStock && last > fresh.SalePrice,
		Restocked:    prev.OutOfStock && !fresh.OutOfStock,
	}
}
