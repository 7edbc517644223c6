package util

import (
	"log/slog"
	"os"
	"strings"
)

// InitSlog configures slog based on LOG_LEVEL environment variable.
// Supported levels: debug, info, warn, error
func InitSlog() {
	if logLevel, ok := os.LookupEnv("LOG_LEVEL"); ok {
		SetLogLevel(logLevel)
	}
}

// SetLogLevel installs a stderr text handler at the given level. Unknown levels mean info.
func SetLogLevel(logLevel string) {
	opts := &slog.HandlerOptions{
		Level: ParseLogLevel(logLevel),
	}
	handler := slog.NewTextHandler(os.Stderr, opts)
	slog.SetDefault(slog.New(handler))
}

func ParseLogLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
