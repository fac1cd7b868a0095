package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/bobmcallan/fxtrend/internal/clients/evds"
	"github.com/bobmcallan/fxtrend/internal/common"
	"github.com/bobmcallan/fxtrend/internal/interfaces"
	"github.com/bobmcallan/fxtrend/internal/services/chart"
	"github.com/bobmcallan/fxtrend/internal/services/report"
	"github.com/bobmcallan/fxtrend/internal/services/timeseries"
)

// App holds the configuration and the collaborators of a single report run.
type App struct {
	Config    *common.Config
	Logger    arbor.ILogger
	RunID     string
	Provider  interfaces.SeriesProvider
	Fetcher   *timeseries.Fetcher
	Presenter interfaces.ReportPresenter

	// Clock supplies "now" for the lookback window
	Clock func() time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// resolveConfigPath picks the config file: explicit path, FXTREND_CONFIG,
// fxtrend.toml next to the binary, then config/fxtrend.toml for development.
func resolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("FXTREND_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "fxtrend.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/fxtrend.toml"
		}
	}
	return configPath
}

// NewApp loads configuration, resolves the provider credential and wires the
// pipeline. The report is written to out. A missing credential is returned as
// an error wrapping common.ErrMissingAPIKey.
func NewApp(configPath string, out io.Writer) (*App, error) {
	common.LoadVersionFromFile()

	config, err := common.LoadConfig(resolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	apiKey, err := common.ResolveAPIKey("evds_api_key", config.Clients.EVDS.APIKey)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	logger := common.NewLogger(config.Logging).WithCorrelationId(runID)

	client := evds.NewClient(apiKey,
		evds.WithBaseURL(config.Clients.EVDS.BaseURL),
		evds.WithLogger(logger),
		evds.WithRateLimit(config.Clients.EVDS.RateLimit),
		evds.WithTimeout(config.Clients.EVDS.GetTimeout()),
	)

	return New(config, logger, runID, client, out), nil
}

// New wires an App around an already constructed provider.
func New(config *common.Config, logger arbor.ILogger, runID string, provider interfaces.SeriesProvider, out io.Writer) *App {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	if runID == "" {
		runID = uuid.New().String()
	}

	renderer := chart.NewRenderer(config.Chart, logger)

	return &App{
		Config:    config,
		Logger:    logger,
		RunID:     runID,
		Provider:  provider,
		Fetcher:   timeseries.NewFetcher(provider, logger),
		Presenter: report.NewService(out, renderer, config.Chart, config.Series.Currency, logger),
		Clock:     time.Now,
	}
}
