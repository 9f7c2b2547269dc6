package log

import (
	"log/slog"
	"os"
)

// New constructs a JSON slog.Logger preconfigured at info level
func New(service, version string) *slog.Logger {
	return NewWithLevel(service, version, slog.LevelInfo)
}

// NewWithLevel constructs a JSON slog.Logger at the provided level. Output
// goes to stderr so command output on stdout stays machine-readable
func NewWithLevel(service, version string, lvl slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})

	return slog.New(handler).With(
		slog.String("service", service),
		slog.String("version", version))
}
