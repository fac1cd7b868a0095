package interfaces

import (
	"context"

	"github.com/bobmcallan/fxtrend/internal/models"
)

// ChartRenderer draws a line chart from ordered (date, value) pairs.
// Rendering is a terminal side effect; nothing is returned besides an error.
type ChartRenderer interface {
	Render(ctx context.Context, req models.ChartRequest) error
}

// ReportPresenter writes the change report and requests the chart.
// A nil summary means no data was available.
type ReportPresenter interface {
	Present(ctx context.Context, summary *models.ChangeSummary, series models.NormalizedSeries) error
}
