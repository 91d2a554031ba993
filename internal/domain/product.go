package domain

import (
	"strings"
	"time"
)

// Condition is the refurbishment grade advertised on the product page.
type Condition string

const (
	ConditionFair      Condition = "Fair"
	ConditionGood      Condition = "Good"
	ConditionExcellent Condition = "Excellent"
	ConditionSuperb    Condition = "Superb"
)

// DefaultCondition is used when the page carries no recognizable grade.
const DefaultCondition = ConditionGood

// ParseCondition matches s against the known grades, case-insensitively and
// by substring, so "Superb condition" and "superb" both resolve. Unrecognized
// input falls back to DefaultCondition.
func ParseCondition(s string) Condition {
	lowered := strings.ToLower(s)
	for _, c := range []Condition{ConditionFair, ConditionGood, ConditionExcellent, ConditionSuperb} {
		if strings.Contains(lowered, strings.ToLower(string(c))) {
			return c
		}
	}
	return DefaultCondition
}

// Snapshot is one point-in-time structured read of a product listing.
type Snapshot struct {
	Title      string    `json:"title"`
	MRP        int       `json:"mrp"`
	SalePrice  int       `json:"sale_price"`
	Discount   string    `json:"discount"`
	Condition  Condition `json:"condition"`
	Storage    string    `json:"storage,omitempty"`
	RAM        string    `json:"ram,omitempty"`
	Color      string    `json:"color,omitempty"`
	ImageURL   string    `json:"image_url,omitempty"`
	OutOfStock bool      `json:"is_out_of_stock"`
}

// HistoryEntry is a single observation in a product's price history.
type HistoryEntry struct {
	Price     int       `json:"price"`
	CheckedAt time.Time `json:"checked_at"`
}

// TrackedProduct is a product a user watches. The latest snapshot fields are
// flattened into the record; PriceHistory is append-only and chronological.
type TrackedProduct struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	URL    string `json:"url"`

	Snapshot

	PriceHistory []HistoryEntry `json:"price_history"`
	CreatedAt    time.Time      `json:"created_at"`
	LastChecked  time.Time      `json:"last_checked"`
}

// LastKnownPrice returns the price of the most recent history entry, or 0
// when no observation has been recorded yet.
func (p *TrackedProduct) LastKnownPrice() int {
	if len(p.PriceHistory) == 0 {
		return 0
	}
	return p.PriceHistory[len(p.PriceHistory)-1].Price
}

// PriceAlert is a user-defined target price. Once the target is met and a
// notification has gone out the alert is deactivated, permanently.
type PriceAlert struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ProductID   string    `json:"product_id"`
	TargetPrice int       `json:"target_price"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}
