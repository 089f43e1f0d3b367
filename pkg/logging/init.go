package logging

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

const (
	JSON = "json"
	Text = "text"
	Tint = "tint"
)

// Initialize installs the default slog handler. Logs go to stderr:
// stdout is reserved for doctor output and publish reports.
func Initialize(loggingType string, logLevelName string) error {
	var logLevel slog.Level
	err := logLevel.UnmarshalText([]byte(logLevelName))
	if err != nil {
		return fmt.Errorf("could not parse log level: %v", err)
	}

	options := slog.HandlerOptions{Level: logLevel}

	var logHandler slog.Handler
	switch loggingType {
	case JSON:
		logHandler = slog.NewJSONHandler(os.Stderr, &options)
	case Text:
		logHandler = slog.NewTextHandler(os.Stderr, &options)
	case Tint:
		logHandler = tint.NewHandler(os.Stderr, &tint.Options{Level: options.Level})
	default:
		return fmt.Errorf("unknown logging type: %s", loggingType)
	}

	slog.SetDefault(slog.New(logHandler))
	return nil
}
