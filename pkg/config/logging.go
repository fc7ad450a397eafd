package config

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func parseLevel(level string) (zerolog.Level, error) {
	l, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}

// SetupLogging points the global logger at a console writer on w and sets
// the global level. Binaries pass os.Stderr; stdout belongs to command
// output and to the MCP transport.
func SetupLogging(w io.Writer, level string) error {
	if w == nil {
		w = os.Stderr
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})

	l, err := parseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(l)
	return nil
}
