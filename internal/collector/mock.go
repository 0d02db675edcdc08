package collector

import (
	"context"
	"time"

	"SwingSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Quotes map[string]model.Quote
	Bars   map[string][]model.Bar
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Quote(_ context.Context, symbol string) (model.Quote, error) {
	if m.Err != nil {
		return model.Quote{}, m.Err
	}
	q, ok := m.Quotes[symbol]
	if !ok {
		return model.Quote{}, ErrUnavailable
	}
	return q, nil
}

func (m *MockFetcher) DailyBars(_ context.Context, symbol string, _, _ time.Time) ([]model.Bar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Bars[symbol], nil
}

// GenerateBars builds a deterministic ascending bar sequence around basePrice.
func GenerateBars(symbol string, basePrice float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Symbol:    symbol,
			Timestamp: time.Now().AddDate(0, 0, -(count - i)),
			Open:      p * 0.999,
			High:      p * 1.005,
			Low:       p * 0.995,
			Close:     p,
			Volume:    1000000,
		}
	}
	return bars
}
