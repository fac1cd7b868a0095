package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bobmcallan/fxtrend/internal/app"
	"github.com/bobmcallan/fxtrend/internal/common"
)

func main() {
	// Resolve config path
	configPath := os.Getenv("FXTREND_CONFIG")

	a, err := app.NewApp(configPath, os.Stdout)
	if err != nil {
		if errors.Is(err, common.ErrMissingAPIKey) {
			fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		}
		os.Exit(1)
	}

	common.PrintBanner(os.Stderr, a.Config, a.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := a.Run(ctx)
	if err != nil {
		a.Logger.Error().Err(err).Msg("Run failed")
		os.Exit(1)
	}

	a.Logger.Info().
		Str("run_id", result.RunID).
		Str("fetch_status", result.FetchStatus.String()).
		Bool("no_data", result.NoData()).
		Msg("Run finished")
}
