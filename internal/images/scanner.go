package images

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"path"
	"strings"

	"github.com/JaimeStill/spotter/pkg/storage"
)

// Scanner walks the <channel>/images layout of the data lake.
type Scanner struct {
	store  storage.System
	exts   map[string]struct{}
	logger *slog.Logger
}

// NewScanner creates a Scanner selecting files whose extension is in
// extensions (case-insensitive, leading dot optional). An empty list
// falls back to DefaultExtensions.
func NewScanner(store storage.System, extensions []string, logger *slog.Logger) *Scanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		e = normalizeExt(e)
		if e != "" {
			exts[e] = struct{}{}
		}
	}

	return &Scanner{
		store:  store,
		exts:   exts,
		logger: logger.With("system", "scanner"),
	}
}

// Scan lazily yields one Task per matching image. Every call re-lists
// storage, and order follows the backend listing, which is not sorted.
//
// A root listing failure is yielded once as an error wrapping
// ErrRootUnreadable and ends the sequence. A failure listing one channel
// is yielded as an error and scanning continues with the next channel.
// Channels without an images directory are logged and skipped.
func (s *Scanner) Scan(ctx context.Context) iter.Seq2[Task, error] {
	return func(yield func(Task, error) bool) {
		channels, err := s.store.List(ctx, "")
		if err != nil {
			yield(Task{}, fmt.Errorf("%w: %w", ErrRootUnreadable, err))
			return
		}

		for _, ch := range channels {
			if !ch.Dir {
				continue
			}
			if ctx.Err() != nil {
				return
			}

			dir := path.Join(ch.Name, ImagesDir)
			entries, err := s.store.List(ctx, dir)
			if errors.Is(err, storage.ErrNotFound) {
				s.logger.Info("no images directory", "channel", ch.Name)
				continue
			}
			if err != nil {
				if !yield(Task{Channel: ch.Name}, fmt.Errorf("list %s: %w", s.store.Location(dir), err)) {
					return
				}
				continue
			}

			for _, e := range entries {
				if e.Dir || isHidden(e.Name) || !s.matches(e.Name) {
					continue
				}

				task := Task{
					Channel:  ch.Name,
					Path:     path.Join(dir, e.Name),
					Filename: e.Name,
					Size:     e.Size,
				}
				if !yield(task, nil) {
					return
				}
			}
		}
	}
}

func (s *Scanner) matches(name string) bool {
	_, ok := s.exts[normalizeExt(path.Ext(name))]
	return ok
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
