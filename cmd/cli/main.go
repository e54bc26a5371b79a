package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/avoronin/jotter/internal/buildinfo"
	"github.com/avoronin/jotter/internal/client/cli"
	"github.com/avoronin/jotter/internal/client/config"
	"github.com/avoronin/jotter/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
