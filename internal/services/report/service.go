// Package report presents change summaries on the console and as a chart
package report

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ternarybob/arbor"

	"github.com/bobmcallan/fxtrend/internal/common"
	"github.com/bobmcallan/fxtrend/internal/interfaces"
	"github.com/bobmcallan/fxtrend/internal/models"
)

// ErrChartRender wraps renderer failures so callers can tell them apart from
// failures to write the text report.
var ErrChartRender = errors.New("render chart")

// Service implements ReportPresenter
type Service struct {
	out      io.Writer
	renderer interfaces.ChartRenderer
	chart    common.ChartConfig
	unit     string
	logger   arbor.ILogger
}

var _ interfaces.ReportPresenter = (*Service)(nil)

// NewService creates a new report service
func NewService(
	out io.Writer,
	renderer interfaces.ChartRenderer,
	chart common.ChartConfig,
	unit string,
	logger arbor.ILogger,
) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		out:      out,
		renderer: renderer,
		chart:    chart,
		unit:     unit,
		logger:   logger,
	}
}

// Present writes the text report and, when a summary exists, requests one chart
// of the full series. A nil summary writes only the no-data notice.
// The text is always written before rendering, so a render error leaves the
// report intact.
func (s *Service) Present(ctx context.Context, summary *models.ChangeSummary, series models.NormalizedSeries) error {
	if summary == nil {
		if _, err := io.WriteString(s.out, FormatNoData()); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		return nil
	}

	if _, err := io.WriteString(s.out, FormatSummary(*summary, s.unit)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if err := s.renderer.Render(ctx, s.chartRequest(series)); err != nil {
		s.logger.Error().Err(err).Str("series", series.Code).Msg("Chart render failed")
		return fmt.Errorf("%w: %w", ErrChartRender, err)
	}
	return nil
}

func (s *Service) chartRequest(series models.NormalizedSeries) models.ChartRequest {
	points := make([]models.ChartPoint, len(series.Observations))
	for i, o := range series.Observations {
		points[i] = models.ChartPoint{Date: o.Date, Value: o.Value}
	}
	return models.ChartRequest{
		Title:  s.chart.Title,
		XLabel: s.chart.XLabel,
		YLabel: s.chart.YLabel,
		Points: points,
	}
}
