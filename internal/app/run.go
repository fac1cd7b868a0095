package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bobmcallan/fxtrend/internal/models"
	"github.com/bobmcallan/fxtrend/internal/services/report"
	"github.com/bobmcallan/fxtrend/internal/services/timeseries"
)

// RunResult records what a run did, for logging and tests.
type RunResult struct {
	RunID       string
	Window      models.TimeWindow
	FetchStatus models.FetchStatus
	FetchErr    error
	RawRows     int
	ValidRows   int
	Summary     *models.ChangeSummary
	ChartErr    error
}

// NoData reports whether the run ended on the no-data path.
func (r *RunResult) NoData() bool {
	return r.Summary == nil
}

// Run executes the pipeline once: window, fetch, normalize, summarize, present.
// Provider failures, empty responses and all-invalid rows converge on the same
// no-data report. Only a failure to write the report is returned as an error;
// a chart failure is logged and recorded in the result.
func (a *App) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	code := a.Config.Series.Code

	result := &RunResult{
		RunID:  a.RunID,
		Window: timeseries.NewWindow(a.Clock),
	}

	fetched := a.Fetcher.Fetch(ctx, code, result.Window)
	result.FetchStatus = fetched.Status
	result.FetchErr = fetched.Err
	result.RawRows = fetched.Series.Len()

	if fetched.IsEmpty() {
		a.Logger.Info().
			Str("series", code).
			Str("fetch_status", fetched.Status.String()).
			Msg("Nothing to report")
		return result, a.present(ctx, result, nil, models.NormalizedSeries{})
	}

	series, ok := timeseries.Normalize(fetched.Series)
	result.ValidRows = series.Len()
	a.Logger.Debug().
		Int("raw_rows", result.RawRows).
		Int("valid_rows", result.ValidRows).
		Msg("Series normalized")

	if !ok {
		a.Logger.Warn().Str("series", code).Int("raw_rows", result.RawRows).Msg("No valid rows after normalization")
		return result, a.present(ctx, result, nil, series)
	}

	summary, err := timeseries.Summarize(series)
	switch {
	case errors.Is(err, timeseries.ErrPercentUndefined):
		a.Logger.Warn().Str("series", code).Msg("First value is zero, percent change unavailable")
	case err != nil:
		return result, fmt.Errorf("summarize %s: %w", code, err)
	}
	result.Summary = &summary

	if err := a.present(ctx, result, &summary, series); err != nil {
		return result, err
	}

	a.Logger.Info().
		Str("series", code).
		Float64("first", summary.FirstValue).
		Float64("last", summary.LastValue).
		Float64("change", summary.AbsoluteChange).
		Str("direction", string(summary.Direction)).
		Str("elapsed", time.Since(start).String()).
		Msg("Report complete")

	return result, nil
}

// present hands off to the presenter. Chart failures are kept on the result
// rather than failing the run; the text report is already written by then.
func (a *App) present(ctx context.Context, result *RunResult, summary *models.ChangeSummary, series models.NormalizedSeries) error {
	err := a.Presenter.Present(ctx, summary, series)
	if err == nil {
		return nil
	}
	if errors.Is(err, report.ErrChartRender) {
		result.ChartErr = err
		a.Logger.Warn().Err(err).Msg("Chart not rendered")
		return nil
	}
	return err
}
