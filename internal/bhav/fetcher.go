package bhav

import (
	"context"
	"errors"
	"time"

	"BhavSentinel/internal/model"
)

// ErrNoData indicates no bhavcopy exists for the requested date
// (weekend, holiday, or not yet published).
var ErrNoData = errors.New("no bhavcopy for date")

// Fetcher defines the interface for fetching a day's bhavcopy.
type Fetcher interface {
	FetchDay(ctx context.Context, day time.Time) ([]model.PriceBar, error)
	Name() string
}
