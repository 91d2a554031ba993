package domain

import (
	"testing"
	"time"
)

func TestReconcile(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	earlier := now.Add(-24 * time.Hour)

	tests := []struct {
		name         string
		prev         *TrackedProduct
		fresh        Snapshot
		wantLen      int
		wantDropped  bool
		wantRestock  bool
		wantLastSeen int
	}{
		{
			name:         "price drop appends and flags",
			prev:         &TrackedProduct{PriceHistory: []HistoryEntry{{Price: 40000, CheckedAt: earlier}}},
			fresh:        Snapshot{SalePrice: 35000},
			wantLen:      2,
			wantDropped:  true,
			wantLastSeen: 35000,
		},
		{
			name:         "price rise appends without drop flag",
			prev:         &TrackedProduct{PriceHistory: []HistoryEntry{{Price: 40000, CheckedAt: earlier}}},
			fresh:        Snapshot{SalePrice: 42000},
			wantLen:      2,
			wantLastSeen: 42000,
		},
		{
			name:         "unchanged price appends nothing",
			prev:         &TrackedProduct{PriceHistory: []HistoryEntry{{Price: 40000, CheckedAt: earlier}}},
			fresh:        Snapshot{SalePrice: 40000},
			wantLen:      1,
			wantLastSeen: 40000,
		},
		{
			name:         "empty history compares against zero",
			prev:         &TrackedProduct{},
			fresh:        Snapshot{SalePrice: 40000},
			wantLen:      1,
			wantLastSeen: 40000,
		},
		{
			name:        "out of stock never appends",
			prev:        &TrackedProduct{PriceHistory: []HistoryEntry{{Price: 40000, CheckedAt: earlier}}},
			fresh:       Snapshot{SalePrice: 0, OutOfStock: true},
			wantLen:     1,
			wantDropped: false,
		},
		{
			name: "restock detected regardless of price",
			prev: &TrackedProduct{
				Snapshot:     Snapshot{OutOfStock: true},
				PriceHistory: []HistoryEntry{{Price: 40000, CheckedAt: earlier}},
			},
			fresh:        Snapshot{SalePrice: 45000},
			wantLen:      2,
			wantRestock:  true,
			wantLastSeen: 45000,
		},
		{
			name: "staying out of stock is not a restock",
			prev: &TrackedProduct{
				Snapshot: Snapshot{OutOfStock: true},
			},
			fresh:   Snapshot{OutOfStock: true},
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(tt.prev, tt.fresh, now)
			if len(got.History) != tt.wantLen {
				t.Fatalf("history length = %d, want %d", len(got.History), tt.wantLen)
			}
			if got.PriceDropped != tt.wantDropped {
				t.Errorf("PriceDropped = %v, want %v", got.PriceDropped, tt.wantDropped)
			}
			if got.Restocked != tt.wantRestock {
				t.Errorf("Restocked = %v, want %v", got.Restocked, tt.wantRestock)
			}
			if tt.wantLastSeen != 0 {
				if got.History[len(got.History)-1].Price != tt.wantLastSeen {
					t.Errorf("last history price = %d, want %d",
						got.History[len(got.History)-1].Price, tt.wantLastSeen)
				}
			}
		})
	}
}

// Applying the same snapshot twice must not grow the history a second time.
func TestReconcileIdempotent(t *testing.T) {
	now := time.Now()
	prev := &TrackedProduct{PriceHistory: []HistoryEntry{{Price: 50000, CheckedAt: now.Add(-time.Hour)}}}
	fresh := Snapshot{SalePrice: 45000}

	first := Reconcile(prev, fresh, now)
	if len(first.History) != 2 {
		t.Fatalf("first reconcile history length = %d, want 2", len(first.History))
	}

	prev.Snapshot = fresh
	prev.PriceHistory = first.History

	second := Reconcile(prev, fresh, now.Add(time.Minute))
	if len(second.History) != 2 {
		t.Errorf("second reconcile history length = %d, want 2 (no new entry)", len(second.History))
	}
	if second.PriceDropped {
		t.Errorf("second reconcile PriceDropped = true, want false")
	}
}

func TestReconcileDoesNotMutatePrev(t *testing.T) {
	prev := &TrackedProduct{PriceHistory: []HistoryEntry{{Price: 100}}}
	_ = Reconcile(prev, Snapshot{SalePrice: 90}, time.Now())
	if len(prev.PriceHistory) != 1 {
		t.Errorf("prev history mutated: length = %d, want 1", len(prev.PriceHistory))
	}
}

func TestParseCondition(t *testing.T) {
	tests := []struct {
		in   string
		want Condition
	}{
		{"Superb", ConditionSuperb},
		{"superb condition", ConditionSuperb},
		{"EXCELLENT", ConditionExcellent},
		{"Fair", ConditionFair},
		{"Good", ConditionGood},
		{"mint", ConditionGood},
		{"", ConditionGood},
	}
	for _, tt := range tests {
		if got := ParseCondition(tt.in); got != tt.want {
			t.Errorf("ParseCondition(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
