package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

type local struct {
	root   string
	logger *slog.Logger
}

// NewLocal creates a storage system rooted at a filesystem directory.
// The root is not required to exist until it is listed.
func NewLocal(root string, logger *slog.Logger) (System, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}

	return &local{
		root:   abs,
		logger: logger.With("system", "storage", "backend", BackendLocal),
	}, nil
}

func (l *local) Location(key string) string {
	return filepath.Join(l.root, filepath.FromSlash(key))
}

func (l *local) List(ctx context.Context, prefix string) ([]Entry, error) {
	if err := validatePrefix(prefix); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := l.Location(prefix)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, ErrNotFound
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, d := range dirEntries {
		// Stat follows symlinks so linked channel directories are listed as directories.
		fi, err := os.Stat(filepath.Join(dir, d.Name()))
		if err != nil {
			l.logger.Warn("skipping unreadable entry", "path", filepath.Join(dir, d.Name()), "error", err)
			continue
		}
		entries = append(entries, Entry{
			Name: d.Name(),
			Dir:  fi.IsDir(),
			Size: fi.Size(),
		})
	}

	return entries, nil
}

func (l *local) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(l.Location(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open %s: %w", key, err)
	}

	return f, nil
}
