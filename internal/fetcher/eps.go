package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// EPSSource yields a forward EPS estimate for a ticker. Sources are tried
// in order until one returns a value; an error means "try the next one".
type EPSSource interface {
	ForwardEPS(ctx context.Context, ticker string) (float64, error)
	Name() string
}

// quoteSummarySource reads forwardEps out of one quoteSummary module.
type quoteSummarySource struct {
	baseURL string
	module  string
	name    string
	client  *http.Client
}

// NewKeyStatsSource reads the defaultKeyStatistics module (the general
// info lookup, tried first).
func NewKeyStatsSource(baseURL string, client *http.Client) EPSSource {
	return &quoteSummarySource{
		baseURL: baseURL,
		module:  "defaultKeyStatistics",
		name:    "key-statistics",
		client:  client,
	}
}

// NewSummaryDetailSource reads the summaryDetail module from the second
// API surface (the fallback).
func NewSummaryDetailSource(baseURL string, client *http.Client) EPSSource {
	return &quoteSummarySource{
		baseURL: baseURL,
		module:  "summaryDetail",
		name:    "summary-detail",
		client:  client,
	}
}

func (s *quoteSummarySource) Name() string { return s.name }

// quoteSummaryResponse is the response structure from the quoteSummary API.
// Each result entry maps a module name to its fields.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []map[string]struct {
			ForwardEps *struct {
				Raw float64 `json:"raw"`
			} `json:"forwardEps"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func (s *quoteSummarySource) ForwardEPS(ctx context.Context, ticker string) (float64, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		s.baseURL, url.PathEscape(ticker), s.module)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s fetch: %w", s.module, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%s read body: %w", s.module, err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%s: status %d", s.module, resp.StatusCode)
	}

	var qs quoteSummaryResponse
	if err := json.Unmarshal(body, &qs); err != nil {
		return 0, fmt.Errorf("%s decode: %w", s.module, err)
	}
	if qs.QuoteSummary.Error != nil {
		return 0, fmt.Errorf("%s api error: %s", s.module, qs.QuoteSummary.Error.Description)
	}

	for _, modules := range qs.QuoteSummary.Result {
		if m, ok := modules[s.module]; ok && m.ForwardEps != nil {
			return m.ForwardEps.Raw, nil
		}
	}
	return 0, fmt.Errorf("%s: no forwardEps value", s.module)
}
