package detector

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/JaimeStill/spotter/internal/images"
	"github.com/JaimeStill/spotter/pkg/formatting"
	"github.com/JaimeStill/spotter/pkg/storage"
)

// Adapter reads images from storage and runs them through a Model.
type Adapter struct {
	model   Model
	store   storage.System
	maxSize formatting.ByteSize
	logger  *slog.Logger
}

// NewAdapter creates an Adapter. A zero maxSize disables the size guard.
func NewAdapter(model Model, store storage.System, maxSize formatting.ByteSize, logger *slog.Logger) *Adapter {
	return &Adapter{
		model:   model,
		store:   store,
		maxSize: maxSize,
		logger:  logger.With("system", "detector"),
	}
}

// Detect runs a single forward pass over the task's image and returns the
// labelled detections in model order. An empty result is not an error.
func (a *Adapter) Detect(ctx context.Context, task images.Task) ([]Result, error) {
	if a.maxSize > 0 && task.Size > int64(a.maxSize) {
		return nil, fmt.Errorf("%w: %s > %s", ErrImageTooLarge, formatting.ByteSize(task.Size), a.maxSize)
	}

	data, err := a.read(ctx, task.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if a.maxSize > 0 && int64(len(data)) > int64(a.maxSize) {
		return nil, fmt.Errorf("%w: %s > %s", ErrImageTooLarge, formatting.ByteSize(len(data)), a.maxSize)
	}

	boxes, err := a.model.Infer(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInference, err)
	}

	labels := a.model.Labels()
	results := make([]Result, 0, len(boxes))
	for _, b := range boxes {
		results = append(results, Result{
			Class:      Label(labels, b.Class),
			Confidence: b.Confidence,
		})
	}

	a.logger.Debug("inference complete", "path", task.Path, "boxes", len(boxes))
	return results, nil
}

func (a *Adapter) read(ctx context.Context, key string) ([]byte, error) {
	rc, err := a.store.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	// one byte past the guard marks the stream as oversized
	var r io.Reader = rc
	if a.maxSize > 0 {
		r = io.LimitReader(rc, int64(a.maxSize)+1)
	}

	return io.ReadAll(r)
}
