package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/foodshare/foodshare/internal/buildinfo"
	"github.com/foodshare/foodshare/internal/client/cli"
	"github.com/foodshare/foodshare/internal/client/config"
	"github.com/foodshare/foodshare/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
