// Package evds provides a client for the CBRT Electronic Data Delivery System (EVDS) API
package evds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/fxtrend/internal/common"
	"github.com/bobmcallan/fxtrend/internal/interfaces"
	"github.com/bobmcallan/fxtrend/internal/models"
)

const (
	DefaultBaseURL   = "https://evds2.tcmb.gov.tr/service/evds"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 2 // requests per second

	// DateColumn is the date field of every EVDS item ("Tarih").
	DateColumn = "Tarih"
)

// ColumnName returns the response field EVDS uses for a series code.
func ColumnName(code string) string {
	return strings.ReplaceAll(code, ".", "_")
}

// Client implements the SeriesProvider interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond < 1 {
			requestsPerSecond = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new EVDS client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

var _ interfaces.SeriesProvider = (*Client)(nil)

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Series     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EVDS API error: %s (status: %d, series: %s)", e.Message, e.StatusCode, e.Series)
}

// seriesResponse is the JSON envelope returned for a series query.
// Items carry the date column plus one column per requested series.
type seriesResponse struct {
	TotalCount int                          `json:"totalCount"`
	Items      []map[string]json.RawMessage `json:"items"`
}

// GetSeries retrieves raw observations for one series code. Rows are returned in
// response order and values EVDS reports as null, blank or non-numeric are missing.
func (c *Client) GetSeries(ctx context.Context, code string, opts ...interfaces.SeriesOption) (*models.RawSeries, error) {
	params := &interfaces.SeriesParams{}
	for _, opt := range opts {
		opt(params)
	}

	var query strings.Builder
	query.WriteString("series=")
	query.WriteString(code)
	if !params.From.IsZero() {
		query.WriteString("&startDate=")
		query.WriteString(params.From.Format(models.ProviderDateLayout))
	}
	if !params.To.IsZero() {
		query.WriteString("&endDate=")
		query.WriteString(params.To.Format(models.ProviderDateLayout))
	}
	query.WriteString("&type=json")

	var resp seriesResponse
	if err := c.get(ctx, code, query.String(), &resp); err != nil {
		return nil, err
	}

	column := ColumnName(code)
	series := &models.RawSeries{
		Code:         code,
		Column:       column,
		Observations: make([]models.RawObservation, 0, len(resp.Items)),
	}

	for _, item := range resp.Items {
		var date string
		if raw, ok := item[DateColumn]; ok {
			// Non-string dates are left blank and fail parsing downstream
			_ = json.Unmarshal(raw, &date)
		}
		series.Observations = append(series.Observations, models.RawObservation{
			Date:  date,
			Value: parseValue(item[column]),
		})
	}

	c.logger.Debug().
		Str("series", code).
		Int("rows", len(series.Observations)).
		Int("total_count", resp.TotalCount).
		Msg("EVDS series received")

	return series, nil
}

// get performs a rate-limited GET request. EVDS encodes the query in the path
// segment rather than the query string, and expects the key as a request header.
func (c *Client) get(ctx context.Context, code, query string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + "/" + query

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", reqURL).Msg("EVDS API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Series:     code,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// parseValue handles values that may be a number, a numeric string, or null.
func parseValue(raw json.RawMessage) *float64 {
	// null unmarshals into float64 without error, so it must be caught first
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return &num
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "ND") || strings.EqualFold(s, "N/A") {
		return nil
	}
	num, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &num
}
