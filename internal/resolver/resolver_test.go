package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stocksearch/internal/cache"
)

type stubSearcher struct {
	candidates []Candidate
	err        error
	calls      int
}

func (s *stubSearcher) Name() string { return "stub" }

func (s *stubSearcher) Search(_ context.Context, _ string) ([]Candidate, error) {
	s.calls++
	return s.candidates, s.err
}

func TestResolve_LiteralTicker(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"AAPL", "AAPL"},
		{"aapl", "AAPL"},
		{" msft ", "MSFT"},
		{"brk4", "BRK4"},
		{"v", "V"},
		{"abc12", "ABC12"},
	}
	for _, tt := range tests {
		stub := &stubSearcher{}
		r := NewResolver(stub, nil, time.Minute)
		got, ok := r.Resolve(context.Background(), tt.input)
		if !ok {
			t.Errorf("Resolve(%q): expected ok", tt.input)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.want)
		}
		if stub.calls != 0 {
			t.Errorf("Resolve(%q): expected no search call, got %d", tt.input, stub.calls)
		}
	}
}

func TestResolve_EmptyInput(t *testing.T) {
	stub := &stubSearcher{}
	r := NewResolver(stub, nil, time.Minute)
	for _, input := range []string{"", "   ", "\t\n"} {
		if _, ok := r.Resolve(context.Background(), input); ok {
			t.Errorf("Resolve(%q): expected not ok", input)
		}
	}
	if stub.calls != 0 {
		t.Errorf("expected no search calls for empty input, got %d", stub.calls)
	}
}

func TestResolve_SearchTopCandidate(t *testing.T) {
	stub := &stubSearcher{candidates: []Candidate{
		{Symbol: "ibm", ShortName: "International Business Machines"},
		{Symbol: "IBM-DE"},
	}}
	r := NewResolver(stub, nil, time.Minute)
	got, ok := r.Resolve(context.Background(), "international business machines")
	if !ok || got != "IBM" {
		t.Fatalf("Resolve = %q, %v; want IBM, true", got, ok)
	}
	if stub.calls != 1 {
		t.Errorf("expected 1 search call, got %d", stub.calls)
	}
}

func TestResolve_NonLiteralShortInput(t *testing.T) {
	// Short but not purely ASCII alphanumeric: must go through search.
	stub := &stubSearcher{candidates: []Candidate{{Symbol: "005930.KS"}}}
	r := NewResolver(stub, nil, time.Minute)
	got, ok := r.Resolve(context.Background(), "삼성전자")
	if !ok || got != "005930.KS" {
		t.Fatalf("Resolve = %q, %v; want 005930.KS, true", got, ok)
	}
	if stub.calls != 1 {
		t.Errorf("expected 1 search call, got %d", stub.calls)
	}
}

func TestResolve_SearchFailures(t *testing.T) {
	tests := []struct {
		name string
		stub *stubSearcher
	}{
		{"upstream error", &stubSearcher{err: errors.New("boom")}},
		{"no candidates", &stubSearcher{}},
		{"blank symbol", &stubSearcher{candidates: []Candidate{{Symbol: ""}}}},
	}
	for _, tt := range tests {
		r := NewResolver(tt.stub, nil, time.Minute)
		if got, ok := r.Resolve(context.Background(), "some long company name"); ok {
			t.Errorf("%s: expected not ok, got %q", tt.name, got)
		}
	}
}

func TestResolve_CachesSearchResult(t *testing.T) {
	stub := &stubSearcher{candidates: []Candidate{{Symbol: "NVDA"}}}
	r := NewResolver(stub, cache.NewMemory(), time.Minute)

	for i := 0; i < 3; i++ {
		got, ok := r.Resolve(context.Background(), "nvidia corporation")
		if !ok || got != "NVDA" {
			t.Fatalf("Resolve #%d = %q, %v; want NVDA, true", i, got, ok)
		}
	}
	if stub.calls != 1 {
		t.Errorf("expected 1 search call with cache, got %d", stub.calls)
	}
}

func TestYahooSearcher_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/finance/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "apple inc" {
			t.Errorf("q = %q, want %q", got, "apple inc")
		}
		fmt.Fprint(w, `{"quotes":[{"symbol":"AAPL","shortname":"Apple Inc.","quoteType":"EQUITY","exchange":"NMS"}]}`)
	}))
	defer srv.Close()

	s := NewYahooSearcher(srv.URL, "")
	got, err := s.Search(context.Background(), "apple inc")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Symbol != "AAPL" {
		t.Fatalf("Search = %+v, want single AAPL candidate", got)
	}
}

func TestYahooSearcher_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}},
		{"malformed body", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"quotes":[`)
		}},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(tt.handler)
		s := NewYahooSearcher(srv.URL, "")
		if _, err := s.Search(context.Background(), "anything"); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
		srv.Close()
	}
}
