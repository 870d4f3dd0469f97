package model

import "time"

// PricePoint is a single dated closing price.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// QuoteResult bundles the fetched data for one ticker: the historical
// price series (ordered by non-decreasing date) and the 12-month forward
// EPS estimate, which is nil when no upstream source provides it.
type QuoteResult struct {
	Ticker     string       `json:"ticker"`
	Points     []PricePoint `json:"points"`
	ForwardEPS *float64     `json:"forwardEps"`
	FetchedAt  time.Time    `json:"fetchedAt"`
}

// Empty reports whether the result carries no price data.
func (q *QuoteResult) Empty() bool {
	return q == nil || len(q.Points) == 0
}
