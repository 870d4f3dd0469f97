// Package fetcher retrieves historical prices and forward-EPS estimates
// for a ticker from Yahoo Finance's public APIs.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"stocksearch/internal/model"
)

// Quoter fetches price history and fundamentals for a ticker.
type Quoter interface {
	FetchQuote(ctx context.Context, ticker string) (*model.QuoteResult, error)
	Name() string
}

const (
	defaultRange    = "5y"
	defaultInterval = "1mo"
)

// YahooFetcher implements Quoter using Yahoo Finance's chart API for
// prices and an ordered list of EPSSources for the forward estimate.
type YahooFetcher struct {
	BaseURL    string
	Range      string
	Interval   string
	Client     *http.Client
	EPSSources []EPSSource
}

// NewYahooFetcher creates a fetcher with optional proxy support. The
// summaryBaseURL points at the second API surface used as the EPS fallback.
func NewYahooFetcher(chartBaseURL, summaryBaseURL, proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	client := &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
	return &YahooFetcher{
		BaseURL:  chartBaseURL,
		Range:    defaultRange,
		Interval: defaultInterval,
		Client:   client,
		EPSSources: []EPSSource{
			NewKeyStatsSource(chartBaseURL, client),
			NewSummaryDetailSource(summaryBaseURL, client),
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []interface{} `json:"close"`
				} `json:"quote"`
				Adjclose []struct {
					Adjclose []interface{} `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// fetchChart requests closing prices for one range. An empty series is
// not an error; only transport, decode, and API failures are.
func (f *YahooFetcher) fetchChart(ctx context.Context, ticker, rng string) ([]model.PricePoint, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(ticker), f.Interval, rng)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chart fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("chart read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("chart decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, nil
	}

	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, nil
	}

	quote := result.Indicators.Quote[0]
	var adj []interface{}
	if len(result.Indicators.Adjclose) > 0 {
		adj = result.Indicators.Adjclose[0].Adjclose
	}

	points := make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		var price float64
		if i < len(quote.Close) {
			price = toFloat(quote.Close[i])
		}
		if price == 0 && i < len(adj) {
			price = toFloat(adj[i])
		}
		if price == 0 {
			continue // skip null bars (holidays etc.)
		}
		points = append(points, model.PricePoint{
			Time:  time.Unix(ts, 0).UTC(),
			Price: price,
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	return points, nil
}

// FetchQuote retrieves the price series for the configured lookback window,
// falling back to the maximum available history when the window is empty,
// and resolves the forward EPS through the ordered sources. Price failures
// are returned to the caller; EPS failures only make the value absent.
func (f *YahooFetcher) FetchQuote(ctx context.Context, ticker string) (*model.QuoteResult, error) {
	ticker = strings.ToUpper(ticker)

	points, err := f.fetchChart(ctx, ticker, f.Range)
	if err != nil {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}
	if len(points) == 0 {
		points, err = f.fetchChart(ctx, ticker, "max")
		if err != nil {
			return nil, fmt.Errorf("fetch prices (max range): %w", err)
		}
	}

	res := &model.QuoteResult{
		Ticker:    ticker,
		Points:    points,
		FetchedAt: time.Now().UTC(),
	}
	if len(points) == 0 {
		return res, nil
	}

	res.ForwardEPS = f.forwardEPS(ctx, ticker)
	return res, nil
}

// forwardEPS tries each source in order; the first non-null value wins.
func (f *YahooFetcher) forwardEPS(ctx context.Context, ticker string) *float64 {
	for _, src := range f.EPSSources {
		v, err := src.ForwardEPS(ctx, ticker)
		if err != nil {
			log.Printf("[WARN] forward EPS from %s for %s: %v", src.Name(), ticker, err)
			continue
		}
		return &v
	}
	return nil
}
