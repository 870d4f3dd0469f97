// Package resolver maps free-text user input to a stock ticker symbol.
//
// Short alphanumeric input is assumed to already be a ticker and is
// returned uppercased without touching the network. Anything else goes
// through the symbol-search API, and the first candidate wins. Upstream
// failures of any kind resolve to "no ticker" rather than an error.
package resolver

import (
	"context"
	"log"
	"strings"
	"time"

	"stocksearch/internal/cache"
)

// maxLiteralLen is the longest input treated as a literal ticker guess.
const maxLiteralLen = 5

// Resolver turns a raw query into a ticker symbol.
type Resolver struct {
	Searcher Searcher
	Cache    cache.Cache
	TTL      time.Duration
}

// NewResolver creates a Resolver. Cache may be nil to disable caching.
func NewResolver(searcher Searcher, c cache.Cache, ttl time.Duration) *Resolver {
	return &Resolver{Searcher: searcher, Cache: c, TTL: ttl}
}

// Resolve returns the ticker for query and whether one was found.
// It never returns an error: every failure mode is "not found".
func (r *Resolver) Resolve(ctx context.Context, query string) (string, bool) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", false
	}

	// Input that already looks like a ticker skips the search API.
	if len(q) <= maxLiteralLen && isAlnum(q) {
		return strings.ToUpper(q), true
	}

	key := "resolve:" + strings.ToLower(q)
	if r.Cache != nil {
		if v, ok := r.Cache.Get(ctx, key); ok && len(v) > 0 {
			return string(v), true
		}
	}

	candidates, err := r.Searcher.Search(ctx, q)
	if err != nil {
		log.Printf("[WARN] symbol search %q: %v", q, err)
		return "", false
	}
	if len(candidates) == 0 || candidates[0].Symbol == "" {
		return "", false
	}

	ticker := strings.ToUpper(candidates[0].Symbol)
	if r.Cache != nil {
		r.Cache.Set(ctx, key, []byte(ticker), r.TTL)
	}
	return ticker, true
}

func isAlnum(s string) bool {
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
