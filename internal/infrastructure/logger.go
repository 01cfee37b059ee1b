package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/JaimeStill/spotter/internal/config"
)

// newLogger builds the run logger. When cfg.File is set, records are written
// to stderr and appended to the file; the returned func closes the file.
func newLogger(cfg *config.LogConfig) (*slog.Logger, func() error, error) {
	var w io.Writer = os.Stderr
	closer := func() error { return nil }

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, f)
		closer = f.Close
	}

	return slog.New(newHandler(w, cfg)), closer, nil
}

func newHandler(w io.Writer, cfg *config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
