// Package models defines data structures for fxtrend
package models

import (
	"time"
)

// ProviderDateLayout is the date format the EVDS provider uses for both request
// parameters and the date column of its responses (DD-MM-YYYY).
const ProviderDateLayout = "02-01-2006"

// TimeWindow is the lookback range requested from the provider.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// StartParam returns the window start formatted for the provider.
func (w TimeWindow) StartParam() string {
	return w.Start.Format(ProviderDateLayout)
}

// EndParam returns the window end formatted for the provider.
func (w TimeWindow) EndParam() string {
	return w.End.Format(ProviderDateLayout)
}

// RawObservation is a single row as returned by the provider.
// A nil Value means the provider reported no value for that date.
type RawObservation struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// IsMissing reports whether the observation has no value.
func (o RawObservation) IsMissing() bool {
	return o.Value == nil
}

// RawSeries holds provider rows in response order (not necessarily chronological).
type RawSeries struct {
	Code         string           `json:"code"`
	Column       string           `json:"column"`
	Observations []RawObservation `json:"observations"`
}

// Len returns the number of raw rows.
func (s RawSeries) Len() int {
	return len(s.Observations)
}

// FetchStatus tags the outcome of a provider call.
type FetchStatus int

const (
	FetchOK FetchStatus = iota
	FetchEmpty
	FetchFailed
)

func (s FetchStatus) String() string {
	switch s {
	case FetchOK:
		return "ok"
	case FetchEmpty:
		return "empty"
	case FetchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchResult is the tagged outcome of a single fetch. Err is only set when
// Status is FetchFailed; the series is empty for both FetchEmpty and FetchFailed.
type FetchResult struct {
	Status FetchStatus
	Series RawSeries
	Err    error
}

// IsEmpty reports whether there is nothing to normalize, whatever the cause.
func (r FetchResult) IsEmpty() bool {
	return r.Status != FetchOK || len(r.Series.Observations) == 0
}

// Observation is a validated, dated value.
type Observation struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// NormalizedSeries is sorted ascending by date and contains no missing values.
type NormalizedSeries struct {
	Code         string        `json:"code"`
	Observations []Observation `json:"observations"`
}

// Len returns the number of observations.
func (s NormalizedSeries) Len() int {
	return len(s.Observations)
}

// First returns the earliest observation. The series must be non-empty.
func (s NormalizedSeries) First() Observation {
	return s.Observations[0]
}

// Last returns the latest observation. The series must be non-empty.
func (s NormalizedSeries) Last() Observation {
	return s.Observations[len(s.Observations)-1]
}
