// Package timeseries implements the fetch, normalize and summarize stages of a report run.
package timeseries

import (
	"time"

	"github.com/bobmcallan/fxtrend/internal/models"
)

// LookbackDays is the fixed length of the requested window.
const LookbackDays = 365

// NewWindow returns the lookback window ending at the clock's current time.
// A nil clock uses time.Now.
func NewWindow(clock func() time.Time) models.TimeWindow {
	if clock == nil {
		clock = time.Now
	}
	return WindowEndingAt(clock())
}

// WindowEndingAt returns the window [end-365d, end].
func WindowEndingAt(end time.Time) models.TimeWindow {
	return models.TimeWindow{
		Start: end.AddDate(0, 0, -LookbackDays),
		End:   end,
	}
}
