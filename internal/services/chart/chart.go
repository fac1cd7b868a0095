// Package chart renders series line charts to PNG with go-chart.
package chart

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/fxtrend/internal/common"
	"github.com/bobmcallan/fxtrend/internal/interfaces"
	"github.com/bobmcallan/fxtrend/internal/models"
)

// Renderer writes each requested chart to a PNG file.
type Renderer struct {
	outputPath string
	width      int
	height     int
	logger     arbor.ILogger
}

var _ interfaces.ChartRenderer = (*Renderer)(nil)

// NewRenderer creates a renderer using the chart output settings.
func NewRenderer(cfg common.ChartConfig, logger arbor.ILogger) *Renderer {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Renderer{
		outputPath: cfg.OutputPath,
		width:      cfg.Width,
		height:     cfg.Height,
		logger:     logger,
	}
}

// Render draws the chart and writes it to the output path.
func (r *Renderer) Render(ctx context.Context, req models.ChartRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	png, err := RenderLineChart(req, r.width, r.height)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(r.outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create chart directory: %w", err)
		}
	}
	if err := os.WriteFile(r.outputPath, png, 0644); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}

	r.logger.Info().
		Str("path", r.outputPath).
		Int("points", len(req.Points)).
		Int("bytes", len(png)).
		Msg("Chart written")
	return nil
}

// RenderLineChart renders a single line series with point markers, dashed grid
// lines and rotated date labels. Returns raw PNG bytes.
//
// go-chart rejects a zero-width x range and maps a zero-width y range through a
// division by zero, so a series whose points share one date gets the x axis
// padded by a day either side, and a constant series gets the y axis padded by
// 1% of its value.
func RenderLineChart(req models.ChartRequest, width, height int) ([]byte, error) {
	if len(req.Points) == 0 {
		return nil, fmt.Errorf("no data points to render")
	}

	xValues := make([]time.Time, len(req.Points))
	yValues := make([]float64, len(req.Points))
	minDate, maxDate := req.Points[0].Date, req.Points[0].Date
	minValue, maxValue := req.Points[0].Value, req.Points[0].Value
	for i, p := range req.Points {
		xValues[i] = p.Date
		yValues[i] = p.Value
		if p.Date.Before(minDate) {
			minDate = p.Date
		}
		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
		minValue = math.Min(minValue, p.Value)
		maxValue = math.Max(maxValue, p.Value)
	}

	var xRange *gochart.ContinuousRange
	if minDate.Equal(maxDate) {
		xRange = &gochart.ContinuousRange{
			Min: gochart.TimeToFloat64(minDate.AddDate(0, 0, -1)),
			Max: gochart.TimeToFloat64(maxDate.AddDate(0, 0, 1)),
		}
		if len(xValues) == 1 {
			xValues = append(xValues, xValues[0])
			yValues = append(yValues, yValues[0])
		}
	}

	var yRange *gochart.ContinuousRange
	if minValue == maxValue {
		pad := math.Abs(minValue) / 100
		if pad == 0 {
			pad = 1
		}
		yRange = &gochart.ContinuousRange{Min: minValue - pad, Max: maxValue + pad}
	}

	lineColor := drawing.ColorFromHex("1f77b4")
	series := gochart.TimeSeries{
		Name: req.YLabel,
		Style: gochart.Style{
			StrokeColor: lineColor,
			StrokeWidth: 1.5,
			DotColor:    lineColor,
			DotWidth:    2.5,
		},
		XValues: xValues,
		YValues: yValues,
	}

	grid := gochart.Style{
		StrokeColor:     drawing.ColorFromHex("cccccc"),
		StrokeWidth:     1.0,
		StrokeDashArray: []float64{4.0, 3.0},
	}

	graph := gochart.Chart{
		Title:  req.Title,
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 30, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:           req.XLabel,
			TickPosition:   gochart.TickPositionBetweenTicks,
			TickStyle:      gochart.Style{TextRotationDegrees: 45.0},
			GridMajorStyle: grid,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return gochart.TimeFromFloat64(t).Format("2006-01-02")
				}
				return ""
			},
		},
		YAxis: gochart.YAxis{
			Name:           req.YLabel,
			GridMajorStyle: grid,
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Series: []gochart.Series{series},
	}

	if xRange != nil {
		graph.XAxis.Range = xRange
	}
	if yRange != nil {
		graph.YAxis.Range = yRange
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
