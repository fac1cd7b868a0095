package timeseries

import (
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/fxtrend/internal/models"
)

// Normalize forward-fills missing values, parses dates, drops invalid rows and
// sorts ascending by date. The second result is false when nothing survives.
//
// Forward fill only looks backwards in response order, so a leading run of
// missing values stays missing and is dropped rather than backfilled.
func Normalize(raw models.RawSeries) (models.NormalizedSeries, bool) {
	out := models.NormalizedSeries{Code: raw.Code}
	if len(raw.Observations) == 0 {
		return out, false
	}

	filled := forwardFill(raw.Observations)

	out.Observations = make([]models.Observation, 0, len(filled))
	for _, row := range filled {
		if row.Value == nil {
			continue
		}
		date, ok := parseDate(row.Date)
		if !ok {
			continue
		}
		out.Observations = append(out.Observations, models.Observation{Date: date, Value: *row.Value})
	}

	// Stable so duplicate dates keep response order
	sort.SliceStable(out.Observations, func(i, j int) bool {
		return out.Observations[i].Date.Before(out.Observations[j].Date)
	})

	return out, len(out.Observations) > 0
}

// forwardFill returns a copy with each missing value replaced by the nearest
// preceding non-missing value.
func forwardFill(rows []models.RawObservation) []models.RawObservation {
	filled := make([]models.RawObservation, len(rows))
	var last *float64
	for i, row := range rows {
		filled[i] = row
		if row.Value != nil {
			v := *row.Value
			last = &v
			continue
		}
		if last != nil {
			v := *last
			filled[i].Value = &v
		}
	}
	return filled
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(models.ProviderDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Denormalize renders a normalized series back into provider rows.
func Denormalize(series models.NormalizedSeries) models.RawSeries {
	raw := models.RawSeries{
		Code:         series.Code,
		Observations: make([]models.RawObservation, len(series.Observations)),
	}
	for i, o := range series.Observations {
		v := o.Value
		raw.Observations[i] = models.RawObservation{
			Date:  o.Date.Format(models.ProviderDateLayout),
			Value: &v,
		}
	}
	return raw
}
