package recorder

import "time"

// SearchRecord captures one completed search request for later analysis.
type SearchRecord struct {
	Query      string
	Ticker     string
	Status     string // "ok", "empty", "not_found", "no_data", "error"
	Points     int
	ForwardEPS *float64
}

// Recorder persists search history.
type Recorder interface {
	RecordSearch(rec *SearchRecord) error
	PruneBefore(cutoff time.Time) (int64, error)
	Close() error
}
