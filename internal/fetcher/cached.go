package fetcher

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"stocksearch/internal/cache"
	"stocksearch/internal/model"
)

// CachedQuoter wraps a Quoter with a TTL cache keyed by ticker so repeat
// searches within the window skip the upstream calls entirely.
type CachedQuoter struct {
	Quoter Quoter
	Cache  cache.Cache
	TTL    time.Duration
}

// NewCachedQuoter wraps q. Cache must be non-nil.
func NewCachedQuoter(q Quoter, c cache.Cache, ttl time.Duration) *CachedQuoter {
	return &CachedQuoter{Quoter: q, Cache: c, TTL: ttl}
}

func (c *CachedQuoter) Name() string { return c.Quoter.Name() }

func (c *CachedQuoter) FetchQuote(ctx context.Context, ticker string) (*model.QuoteResult, error) {
	key := "quote:" + strings.ToUpper(ticker)

	if v, ok := c.Cache.Get(ctx, key); ok {
		var res model.QuoteResult
		if err := json.Unmarshal(v, &res); err == nil {
			return &res, nil
		}
		log.Printf("[WARN] corrupt cache entry %s, refetching", key)
	}

	res, err := c.Quoter.FetchQuote(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(res); err == nil {
		c.Cache.Set(ctx, key, b, c.TTL)
	}
	return res, nil
}
