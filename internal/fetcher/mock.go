package fetcher

import (
	"context"
	"time"

	"stocksearch/internal/model"
)

// MockQuoter returns controllable fixed data for development and testing.
type MockQuoter struct {
	Result *model.QuoteResult
	Err    error
	Calls  int
}

func (m *MockQuoter) Name() string { return "mock" }

func (m *MockQuoter) FetchQuote(_ context.Context, ticker string) (*model.QuoteResult, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result != nil {
		return m.Result, nil
	}
	return &model.QuoteResult{
		Ticker:    ticker,
		Points:    GenerateMockPoints(100, 60),
		FetchedAt: time.Now().UTC(),
	}, nil
}

// GenerateMockPoints builds a gently trending monthly series ending now.
func GenerateMockPoints(basePrice float64, count int) []model.PricePoint {
	points := make([]model.PricePoint, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.002)
		points[i] = model.PricePoint{
			Time:  time.Now().UTC().AddDate(0, -(count - i), 0),
			Price: p,
		}
	}
	return points
}
