package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Candidate is a single match returned by the symbol-search API.
type Candidate struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"shortname"`
	QuoteType string `json:"quoteType"`
	Exchange  string `json:"exchange"`
}

// Searcher looks up ticker candidates for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
	Name() string
}

// YahooSearcher implements Searcher using Yahoo Finance's search endpoint.
type YahooSearcher struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooSearcher creates a searcher with optional proxy support.
func NewYahooSearcher(baseURL, proxyURL string) *YahooSearcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooSearcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (s *YahooSearcher) Name() string { return "yahoo-search" }

// yahooSearchResponse is the response structure from the search API.
type yahooSearchResponse struct {
	Quotes []Candidate `json:"quotes"`
}

func (s *YahooSearcher) Search(ctx context.Context, query string) ([]Candidate, error) {
	u := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=5&newsCount=0",
		s.BaseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("search read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: status %d, body: %s", resp.StatusCode, string(body))
	}

	var sr yahooSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("search decode: %w", err)
	}
	return sr.Quotes, nil
}
