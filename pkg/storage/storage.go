// Package storage provides read access to the image data lake. Keys are
// slash-separated paths relative to the lake root, e.g. "newsA/images/message_101.jpg".
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Entry is one immediate child of a listed prefix.
type Entry struct {
	Name string
	Dir  bool
	Size int64
}

// System lists and reads objects in the data lake.
type System interface {
	// List returns the immediate children of prefix. An empty prefix lists
	// the root. Returns ErrNotFound if the prefix does not exist.
	List(ctx context.Context, prefix string) ([]Entry, error)
	// Download returns a stream for the object at key. The caller must close the reader.
	// Returns ErrNotFound if the object does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Location describes where key lives, for log output.
	Location(key string) string
}

// New creates the storage system selected by cfg.Backend.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	switch cfg.Backend {
	case BackendLocal:
		return NewLocal(cfg.Root, logger)
	case BackendAzure:
		return NewAzure(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return validatePrefix(key)
}

func validatePrefix(prefix string) error {
	for _, seg := range strings.Split(prefix, "/") {
		if seg == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}
