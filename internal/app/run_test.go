package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/fxtrend/internal/clients/evds"
	"github.com/bobmcallan/fxtrend/internal/common"
	"github.com/bobmcallan/fxtrend/internal/models"
	"github.com/bobmcallan/fxtrend/internal/services/chart"
	"github.com/bobmcallan/fxtrend/internal/services/report"
)

var fixedNow = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

// evdsServer serves a canned EVDS response body with the given status.
func evdsServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T, baseURL string) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.Chart.OutputPath = filepath.Join(t.TempDir(), "chart.png")
	cfg.Chart.Width = 800
	cfg.Chart.Height = 400

	client := evds.NewClient("test-key", evds.WithBaseURL(baseURL), evds.WithTimeout(2*time.Second))

	var out bytes.Buffer
	a := New(cfg, nil, "test-run", client, &out)
	a.Clock = func() time.Time { return fixedNow }
	return a, &out
}

func TestRun_Report(t *testing.T) {
	body := `{"totalCount":5,"items":[
		{"Tarih":"06-01-2025","TP_DK_USD_A_YTL":"35.3000"},
		{"Tarih":"02-01-2025","TP_DK_USD_A_YTL":"35.0000"},
		{"Tarih":"03-01-2025","TP_DK_USD_A_YTL":"35.2000"},
		{"Tarih":"04-01-2025","TP_DK_USD_A_YTL":null},
		{"Tarih":"05-01-2025","TP_DK_USD_A_YTL":null}
	]}`
	srv := evdsServer(t, http.StatusOK, body)
	a, out := newTestApp(t, srv.URL)

	result, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.FetchOK, result.FetchStatus)
	assert.Equal(t, 5, result.RawRows)
	assert.Equal(t, 5, result.ValidRows)
	require.NotNil(t, result.Summary)
	assert.Equal(t, 35.0, result.Summary.FirstValue)
	assert.Equal(t, 35.3, result.Summary.LastValue)
	assert.Equal(t, models.DirectionUp, result.Summary.Direction)
	assert.NoError(t, result.ChartErr)

	assert.Contains(t, out.String(), "💵 Your 1 dollar was 35.00 TL")
	assert.Contains(t, out.String(), "💵 Now it is 35.30 TL")
	assert.Contains(t, out.String(), "📈 Change: 0.30 TL (+0.86%)")

	_, statErr := os.Stat(a.Config.Chart.OutputPath)
	assert.NoError(t, statErr, "chart file should exist")
}

func TestRun_WindowIsFixedLookback(t *testing.T) {
	srv := evdsServer(t, http.StatusOK, `{"totalCount":0,"items":[]}`)
	a, _ := newTestApp(t, srv.URL)

	result, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "11-01-2024", result.Window.StartParam(), "365 days back across the leap day")
	assert.Equal(t, "10-01-2025", result.Window.EndParam())
}

func TestRun_FailureAndEmptyReportIdentically(t *testing.T) {
	failing := evdsServer(t, http.StatusInternalServerError, "upstream down")
	empty := evdsServer(t, http.StatusOK, `{"totalCount":0,"items":[]}`)

	failApp, failOut := newTestApp(t, failing.URL)
	failResult, err := failApp.Run(context.Background())
	require.NoError(t, err)

	emptyApp, emptyOut := newTestApp(t, empty.URL)
	emptyResult, err := emptyApp.Run(context.Background())
	require.NoError(t, err)

	// Same primary report
	assert.Equal(t, report.NoDataMessage+"\n", failOut.String())
	assert.Equal(t, failOut.String(), emptyOut.String())
	assert.True(t, failResult.NoData())
	assert.True(t, emptyResult.NoData())

	// Distinguishable only in the auxiliary record
	assert.Equal(t, models.FetchFailed, failResult.FetchStatus)
	var apiErr *evds.APIError
	assert.True(t, errors.As(failResult.FetchErr, &apiErr))
	assert.Equal(t, models.FetchEmpty, emptyResult.FetchStatus)
	assert.NoError(t, emptyResult.FetchErr)

	for _, a := range []*App{failApp, emptyApp} {
		_, statErr := os.Stat(a.Config.Chart.OutputPath)
		assert.True(t, os.IsNotExist(statErr), "no chart on the no-data path")
	}
}

func TestRun_AllRowsInvalid(t *testing.T) {
	body := `{"totalCount":2,"items":[
		{"Tarih":"01-01-2025","TP_DK_USD_A_YTL":null},
		{"Tarih":"not-a-date","TP_DK_USD_A_YTL":"35.1"}
	]}`
	srv := evdsServer(t, http.StatusOK, body)
	a, out := newTestApp(t, srv.URL)

	result, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.FetchOK, result.FetchStatus)
	assert.True(t, result.NoData())
	assert.Equal(t, report.NoDataMessage+"\n", out.String())
}

func TestRun_ZeroFirstValue(t *testing.T) {
	body := `{"totalCount":2,"items":[
		{"Tarih":"01-01-2025","TP_DK_USD_A_YTL":0},
		{"Tarih":"02-01-2025","TP_DK_USD_A_YTL":1.5}
	]}`
	srv := evdsServer(t, http.StatusOK, body)
	a, out := newTestApp(t, srv.URL)

	result, err := a.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Summary)
	assert.False(t, result.Summary.PercentAvailable)
	assert.Contains(t, out.String(), "("+report.PercentUnavailable+")")
}

func TestRun_SinglePointCharted(t *testing.T) {
	body := `{"totalCount":1,"items":[{"Tarih":"02-01-2025","TP_DK_USD_A_YTL":"35.0"}]}`
	srv := evdsServer(t, http.StatusOK, body)
	a, out := newTestApp(t, srv.URL)

	result, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.NoError(t, result.ChartErr)
	assert.Contains(t, out.String(), "➖ Change: 0.00 TL (+0.00%)")

	_, statErr := os.Stat(a.Config.Chart.OutputPath)
	assert.NoError(t, statErr, "single observation should still be charted")
}

func TestRun_DuplicateDatesCharted(t *testing.T) {
	body := `{"totalCount":2,"items":[
		{"Tarih":"02-01-2025","TP_DK_USD_A_YTL":"35.0"},
		{"Tarih":"02-01-2025","TP_DK_USD_A_YTL":"35.4"}
	]}`
	srv := evdsServer(t, http.StatusOK, body)
	a, out := newTestApp(t, srv.URL)

	result, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.NoError(t, result.ChartErr)
	require.NotNil(t, result.Summary)
	assert.Equal(t, 35.4, result.Summary.LastValue, "ties keep response order")
	assert.Contains(t, out.String(), "📈 Change: 0.40 TL")

	_, statErr := os.Stat(a.Config.Chart.OutputPath)
	assert.NoError(t, statErr)
}

func TestRun_ChartFailureIsNotFatal(t *testing.T) {
	body := `{"totalCount":2,"items":[
		{"Tarih":"02-01-2025","TP_DK_USD_A_YTL":"35.0"},
		{"Tarih":"03-01-2025","TP_DK_USD_A_YTL":"35.2"}
	]}`
	srv := evdsServer(t, http.StatusOK, body)
	a, out := newTestApp(t, srv.URL)

	// A regular file where the chart directory should be
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	a.Config.Chart.OutputPath = filepath.Join(blocker, "chart.png")
	a.Presenter = report.NewService(out, chart.NewRenderer(a.Config.Chart, nil), a.Config.Chart, "TL", nil)

	result, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, result.ChartErr, report.ErrChartRender)
	assert.Contains(t, out.String(), "💵 Now it is 35.20 TL")
}

func TestNewApp_MissingAPIKey(t *testing.T) {
	t.Setenv("TCMB_API_KEY", "")
	t.Setenv("FXTREND_EVDS_API_KEY", "")

	path := filepath.Join(t.TempDir(), "fxtrend.toml")
	require.NoError(t, os.WriteFile(path, []byte("env_file = \"\"\n"), 0644))

	_, err := NewApp(path, &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingAPIKey)
}

func TestNewApp_Wired(t *testing.T) {
	t.Setenv("TCMB_API_KEY", "abc123")

	path := filepath.Join(t.TempDir(), "fxtrend.toml")
	require.NoError(t, os.WriteFile(path, []byte("env_file = \"\"\n[logging]\noutputs = []\n"), 0644))

	a, err := NewApp(path, &bytes.Buffer{})
	require.NoError(t, err)
	assert.NotEmpty(t, a.RunID)
	assert.IsType(t, &evds.Client{}, a.Provider)
	assert.Equal(t, "TP.DK.USD.A.YTL", a.Config.Series.Code)
}
