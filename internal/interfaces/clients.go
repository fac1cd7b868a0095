// Package interfaces defines service contracts for fxtrend
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/fxtrend/internal/models"
)

// SeriesProvider provides access to a statistical time-series API
type SeriesProvider interface {
	// GetSeries retrieves raw observations for a single series code
	GetSeries(ctx context.Context, code string, opts ...SeriesOption) (*models.RawSeries, error)
}

// SeriesOption configures series requests
type SeriesOption func(*SeriesParams)

// SeriesParams holds series query parameters
type SeriesParams struct {
	From time.Time
	To   time.Time
}

// WithDateRange sets the date range for a series query
func WithDateRange(from, to time.Time) SeriesOption {
	return func(p *SeriesParams) {
		p.From = from
		p.To = to
	}
}

// WithWindow sets the date range from a lookback window
func WithWindow(w models.TimeWindow) SeriesOption {
	return WithDateRange(w.Start, w.End)
}
