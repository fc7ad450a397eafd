package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"github.com/urmzd/irhome/pkg/app"
	"github.com/urmzd/irhome/pkg/config"
	irmcp "github.com/urmzd/irhome/pkg/mcp"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd().Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("MCP server stopped")
	}
}

func cmd() *cli.Command {
	flags := append(config.Flags(), &cli.StringFlag{
		Name:    "mcp-listen",
		Usage:   "Serve streamable HTTP on this address instead of stdio",
		Sources: cli.EnvVars("IRHOME_MCP_LISTEN"),
	})

	return &cli.Command{
		Name:    "irhome-mcp",
		Usage:   "Serve irhome device control as MCP tools",
		Version: version,
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.Load(cmd)
			// stdout is the MCP transport in stdio mode
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

			s := irmcp.NewServer(a.Controller, a.Validator, version)
			if addr := cmd.String("mcp-listen"); addr != "" {
				srv := &http.Server{
					Addr:              addr,
					Handler:           s.Handler(),
					ReadHeaderTimeout: 10 * time.Second,
				}
				return app.Serve(ctx, srv, cfg.API.ShutdownTimeout)
			}

			log.Info().Msg("Starting MCP server on stdio")
			return s.ServeStdio(ctx, os.Stdin, os.Stdout)
		},
	}
}
