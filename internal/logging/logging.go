// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controls log level and output format
type Config struct {
	Level        string `json:"level"`
	Format       string `json:"format"` // "json" or "pretty"
	TimeFormat   string `json:"time_format,omitempty"`
	ReportCaller bool   `json:"report_caller,omitempty"`
}

// DefaultConfig logs info and above as human-readable lines on stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "pretty"}
}

// Init replaces the global logger according to config and returns it.
// Logs go to stderr so stdout stays free for command output.
func Init(config Config) zerolog.Logger {
	return InitWriter(config, os.Stderr)
}

// InitWriter is Init with an explicit destination.
func InitWriter(config Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(config.Level)))
	if err != nil || config.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	output := w
	if config.Format == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: timeFormatOr(config.TimeFormat, time.Kitchen),
		}
	}

	ctx := zerolog.New(output).Level(level).With().Timestamp()
	if config.ReportCaller {
		ctx = ctx.Caller()
	}

	logger := ctx.Logger()
	log.Logger = logger
	return logger
}

// WithRun returns a child logger tagged with a pipeline run ID.
func WithRun(logger zerolog.Logger, runID string) zerolog.Logger {
	return logger.With().Str("run_id", runID).Logger()
}

func timeFormatOr(format, fallback string) string {
	if format == "" {
		return fallback
	}
	return format
}
