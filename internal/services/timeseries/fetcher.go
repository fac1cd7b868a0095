package timeseries

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/bobmcallan/fxtrend/internal/common"
	"github.com/bobmcallan/fxtrend/internal/interfaces"
	"github.com/bobmcallan/fxtrend/internal/models"
)

// Fetcher makes a single provider call per run and contains its failures.
type Fetcher struct {
	provider interfaces.SeriesProvider
	logger   arbor.ILogger
}

// NewFetcher creates a fetcher over the given provider.
func NewFetcher(provider interfaces.SeriesProvider, logger arbor.ILogger) *Fetcher {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Fetcher{provider: provider, logger: logger}
}

// Fetch requests one series over the window. It never returns a provider error
// directly: failures become FetchFailed with the cause in Err, and a response
// with no rows becomes FetchEmpty.
func (f *Fetcher) Fetch(ctx context.Context, code string, window models.TimeWindow) models.FetchResult {
	f.logger.Info().
		Str("series", code).
		Str("start", window.StartParam()).
		Str("end", window.EndParam()).
		Msg("Fetching series")

	raw, err := f.provider.GetSeries(ctx, code, interfaces.WithWindow(window))
	if err != nil {
		f.logger.Warn().Err(err).Str("series", code).Msg("Series request failed")
		return models.FetchResult{
			Status: models.FetchFailed,
			Series: models.RawSeries{Code: code},
			Err:    err,
		}
	}

	if raw == nil || len(raw.Observations) == 0 {
		f.logger.Info().Str("series", code).Msg("Provider returned no rows")
		empty := models.RawSeries{Code: code}
		if raw != nil {
			empty.Column = raw.Column
		}
		return models.FetchResult{Status: models.FetchEmpty, Series: empty}
	}

	f.logger.Info().Str("series", code).Int("rows", len(raw.Observations)).Msg("Series fetched")
	return models.FetchResult{Status: models.FetchOK, Series: *raw}
}
