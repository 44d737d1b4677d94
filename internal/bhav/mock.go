package bhav

import (
	"context"
	"time"

	"BhavSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Symbols []string
	Price   float64
	Bars    []model.PriceBar // when set, returned as-is
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDay(_ context.Context, day time.Time) ([]model.PriceBar, error) {
	if m.Bars != nil {
		return m.Bars, nil
	}
	bars := make([]model.PriceBar, 0, len(m.Symbols))
	for i, sym := range m.Symbols {
		p := m.Price * (1 + float64(i)*0.01)
		bars = append(bars, model.PriceBar{
			Symbol:    sym,
			Date:      day,
			Open:      p * 0.999,
			High:      p * 1.005,
			Low:       p * 0.995,
			Close:     p,
			PrevClose: p * 0.998,
			Volume:    100000,
		})
	}
	return bars, nil
}
