// Package server exposes the search pipeline over HTTP: an embedded
// single-page UI and a JSON API that runs input → resolve → fetch and
// converts every failure into a user-facing status message.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"stocksearch/internal/fetcher"
	"stocksearch/internal/model"
	"stocksearch/internal/recorder"
)

//go:embed static/index.html
var staticFS embed.FS

// Response statuses, also recorded to search history.
const (
	StatusOK       = "ok"
	StatusEmpty    = "empty"
	StatusNotFound = "not_found"
	StatusNoData   = "no_data"
	StatusError    = "error"
)

const (
	msgEmptyInput = "Enter a company name or ticker to search."
	msgNotFound   = "No matching ticker was found (no search API result, or a typo)."
	msgFetchError = "An error occurred while loading the data. Check the server logs."
	noteNoEPS     = "Forward EPS data is not provided for this ticker (missing or unavailable from the API)."
)

// sampleSize is how many recent rows the success payload carries.
const sampleSize = 10

// TickerResolver is the slice of the resolver the server needs.
type TickerResolver interface {
	Resolve(ctx context.Context, query string) (string, bool)
}

// Server wires the pipeline stages behind an http.Handler.
type Server struct {
	Resolver TickerResolver
	Quoter   fetcher.Quoter
	Recorder recorder.Recorder
	mux      *http.ServeMux
}

// New creates a Server with all routes registered.
func New(res TickerResolver, q fetcher.Quoter, rec recorder.Recorder) *Server {
	s := &Server{Resolver: res, Quoter: q, Recorder: rec}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/api/search", s.handleSearch)
	s.mux = mux
	return s
}

// Handler returns the root handler for the HTTP server.
func (s *Server) Handler() http.Handler { return s.mux }

// searchResponse is the JSON payload for one search request.
type searchResponse struct {
	Status     string             `json:"status"`
	Message    string             `json:"message,omitempty"`
	Note       string             `json:"note,omitempty"`
	Error      string             `json:"error,omitempty"`
	Ticker     string             `json:"ticker,omitempty"`
	Points     []model.PricePoint `json:"points,omitempty"`
	ForwardEPS *float64           `json:"forwardEps,omitempty"`
	Sample     []model.PricePoint `json:"sample,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()
	query := r.URL.Query().Get("q")
	log.Printf("[INFO] search %s: q=%q", reqID, query)

	resp := s.search(r.Context(), query, reqID)
	s.record(query, resp)
	writeJSON(w, http.StatusOK, resp)
}

// search runs the pipeline. Each stage short-circuits to a terminal
// user-facing message instead of propagating a failure.
func (s *Server) search(ctx context.Context, query, reqID string) *searchResponse {
	if strings.TrimSpace(query) == "" {
		return &searchResponse{Status: StatusEmpty, Message: msgEmptyInput}
	}

	ticker, ok := s.Resolver.Resolve(ctx, query)
	if !ok {
		log.Printf("[INFO] search %s: no ticker for %q", reqID, query)
		return &searchResponse{Status: StatusNotFound, Message: msgNotFound}
	}

	res, err := s.Quoter.FetchQuote(ctx, ticker)
	if err != nil {
		log.Printf("[WARN] search %s: fetch %s: %v", reqID, ticker, err)
		return &searchResponse{
			Status:  StatusError,
			Ticker:  ticker,
			Message: msgFetchError,
			Error:   err.Error(),
		}
	}
	if res.Empty() {
		return &searchResponse{
			Status:  StatusNoData,
			Ticker:  ticker,
			Message: fmt.Sprintf("No price data could be loaded for %s.", ticker),
		}
	}

	resp := &searchResponse{
		Status:     StatusOK,
		Ticker:     ticker,
		Message:    fmt.Sprintf("Resolved ticker: %s", ticker),
		Points:     res.Points,
		ForwardEPS: res.ForwardEPS,
		Sample:     tail(res.Points, sampleSize),
	}
	if res.ForwardEPS == nil {
		resp.Note = noteNoEPS
	}
	return resp
}

func (s *Server) record(query string, resp *searchResponse) {
	rec := &recorder.SearchRecord{
		Query:      strings.TrimSpace(query),
		Ticker:     resp.Ticker,
		Status:     resp.Status,
		Points:     len(resp.Points),
		ForwardEPS: resp.ForwardEPS,
	}
	if err := s.Recorder.RecordSearch(rec); err != nil {
		log.Printf("[WARN] record search: %v", err)
	}
}

func tail(points []model.PricePoint, n int) []model.PricePoint {
	if len(points) <= n {
		return points
	}
	return points[len(points)-n:]
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}
