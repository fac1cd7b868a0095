package models

import (
	"math"
	"time"
)

// Direction is the categorical sign of a change.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// DirectionOf classifies a change by its sign at the two decimals the report
// prints, so float noise never shows up as "📉 -0.00".
func DirectionOf(change float64) Direction {
	change = math.Round(change*100) / 100
	switch {
	case change > 0:
		return DirectionUp
	case change < 0:
		return DirectionDown
	default:
		return DirectionFlat
	}
}

// Symbol returns the console marker for the direction.
func (d Direction) Symbol() string {
	switch d {
	case DirectionUp:
		return "📈"
	case DirectionDown:
		return "📉"
	default:
		return "➖"
	}
}

// ChangeSummary compares the first and last observations of a normalized series.
// PercentChange is only meaningful when PercentAvailable is true (first value non-zero).
type ChangeSummary struct {
	Code             string    `json:"code"`
	FirstDate        time.Time `json:"first_date"`
	LastDate         time.Time `json:"last_date"`
	FirstValue       float64   `json:"first_value"`
	LastValue        float64   `json:"last_value"`
	AbsoluteChange   float64   `json:"absolute_change"`
	PercentChange    float64   `json:"percent_change"`
	PercentAvailable bool      `json:"percent_available"`
	Direction        Direction `json:"direction"`
}

// ChartPoint is one (date, value) pair handed to the chart renderer.
type ChartPoint struct {
	Date  time.Time
	Value float64
}

// ChartRequest describes a single line chart.
type ChartRequest struct {
	Title  string
	XLabel string
	YLabel string
	Points []ChartPoint
}
