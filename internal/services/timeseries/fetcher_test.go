package timeseries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/fxtrend/internal/interfaces"
	"github.com/bobmcallan/fxtrend/internal/models"
)

type stubProvider struct {
	series *models.RawSeries
	err    error
	calls  int
	params interfaces.SeriesParams
}

func (s *stubProvider) GetSeries(ctx context.Context, code string, opts ...interfaces.SeriesOption) (*models.RawSeries, error) {
	s.calls++
	for _, opt := range opts {
		opt(&s.params)
	}
	return s.series, s.err
}

func TestFetch_OK(t *testing.T) {
	raw := rawSeries(models.RawObservation{Date: "01-01-2024", Value: val(30)})
	provider := &stubProvider{series: &raw}
	window := WindowEndingAt(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	result := NewFetcher(provider, nil).Fetch(context.Background(), raw.Code, window)

	assert.Equal(t, models.FetchOK, result.Status)
	assert.NoError(t, result.Err)
	assert.False(t, result.IsEmpty())
	assert.Equal(t, raw, result.Series)
	assert.Equal(t, window.Start, provider.params.From)
	assert.Equal(t, window.End, provider.params.To)
}

func TestFetch_Empty(t *testing.T) {
	provider := &stubProvider{series: &models.RawSeries{Code: "X", Column: "X"}}

	result := NewFetcher(provider, nil).Fetch(context.Background(), "X", NewWindow(nil))

	assert.Equal(t, models.FetchEmpty, result.Status)
	assert.NoError(t, result.Err)
	assert.True(t, result.IsEmpty())
}

func TestFetch_FailureContained(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	provider := &stubProvider{err: cause}

	result := NewFetcher(provider, nil).Fetch(context.Background(), "X", NewWindow(nil))

	require.Equal(t, models.FetchFailed, result.Status)
	assert.ErrorIs(t, result.Err, cause)
	assert.True(t, result.IsEmpty())
	assert.Empty(t, result.Series.Observations)
	assert.Equal(t, 1, provider.calls, "no retry")
}
