package timeseries

import (
	"errors"

	"github.com/bobmcallan/fxtrend/internal/models"
)

var (
	// ErrEmptySeries is returned when there is nothing to summarize.
	ErrEmptySeries = errors.New("series has no observations")

	// ErrPercentUndefined accompanies a summary whose first value is zero.
	ErrPercentUndefined = errors.New("percent change undefined: first value is zero")
)

// Summarize compares the earliest and latest observations. When the first value
// is zero the summary is still returned, with PercentAvailable false, together
// with ErrPercentUndefined.
func Summarize(series models.NormalizedSeries) (models.ChangeSummary, error) {
	if series.Len() == 0 {
		return models.ChangeSummary{}, ErrEmptySeries
	}

	first := series.First()
	last := series.Last()
	diff := last.Value - first.Value

	summary := models.ChangeSummary{
		Code:           series.Code,
		FirstDate:      first.Date,
		LastDate:       last.Date,
		FirstValue:     first.Value,
		LastValue:      last.Value,
		AbsoluteChange: diff,
		Direction:      models.DirectionOf(diff),
	}

	if first.Value == 0 {
		return summary, ErrPercentUndefined
	}

	summary.PercentChange = diff / first.Value * 100
	summary.PercentAvailable = true
	return summary, nil
}
