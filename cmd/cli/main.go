package main

import (
	"context"
	"log"
	"os"

	"github.com/rs/zerolog"

	"github.com/foliotrack/folio/internal/buildinfo"
	"github.com/foliotrack/folio/internal/client/cli"
	"github.com/foliotrack/folio/internal/client/config"
	"github.com/foliotrack/folio/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zl := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	logger := logging.NewZerologLogger(zl)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
