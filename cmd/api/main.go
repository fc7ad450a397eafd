package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"github.com/urmzd/irhome/pkg/api"
	"github.com/urmzd/irhome/pkg/app"
	"github.com/urmzd/irhome/pkg/config"

	_ "github.com/urmzd/irhome/docs"
)

// @title           irhome API
// @version         1.0
// @description     REST API for learning and sending infrared remote commands

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd().Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("API server stopped")
	}
}

func cmd() *cli.Command {
	return &cli.Command{
		Name:    "irhome-api",
		Usage:   "Serve the irhome REST API",
		Version: version,
		Flags:   config.Flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.Load(cmd)
			if err := config.SetupLogging(os.Stderr, cfg.LogLevel); err != nil {
				return err
			}

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					log.Error().Err(err).Msg("Failed to close resources")
				}
			}()

			router := api.NewRouter(a.Controller, a.Validator)
			return app.Serve(ctx, router.Server(a.ListenAddress()), cfg.API.ShutdownTimeout)
		},
	}
}
