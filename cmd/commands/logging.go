package commands

import (
	"log/slog"
	"os"
	"strings"
)

// logLevel is shared by the default handler so a config reload can change it.
var logLevel = new(slog.LevelVar)

func init() {
	logLevel.Set(slog.LevelWarn)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

// setupLogging applies a level name; debug wins over it.
func setupLogging(debug bool, level string) {
	if debug {
		logLevel.Set(slog.LevelDebug)
		return
	}
	if level != "" {
		logLevel.Set(parseLevel(level))
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
