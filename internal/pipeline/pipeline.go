// Package pipeline runs discovered images through detection and persistence,
// one image at a time, isolating failures to the image that caused them.
package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"iter"
	"log/slog"

	"github.com/JaimeStill/spotter/internal/detections"
	"github.com/JaimeStill/spotter/internal/detector"
	"github.com/JaimeStill/spotter/internal/images"
	"github.com/JaimeStill/spotter/pkg/repository"
)

// Scanner yields image tasks.
type Scanner interface {
	Scan(ctx context.Context) iter.Seq2[images.Task, error]
}

// Detector produces labelled detections for one image.
type Detector interface {
	Detect(ctx context.Context, task images.Task) ([]detector.Result, error)
}

// Pipeline ties the scanner, detector, and writer to one database handle.
type Pipeline struct {
	db       *sql.DB
	scanner  Scanner
	detector Detector
	writer   *detections.Writer
	logger   *slog.Logger
}

// New creates a Pipeline. All collaborators are owned by the caller.
func New(
	db *sql.DB,
	scanner Scanner,
	det Detector,
	writer *detections.Writer,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		db:       db,
		scanner:  scanner,
		detector: det,
		writer:   writer,
		logger:   logger.With("system", "pipeline"),
	}
}

// Run ensures the detection table exists, then processes every discovered
// image sequentially. Per-image failures are logged and counted in the
// Summary; only schema failure, an unreadable data-lake root, or context
// cancellation end the run early with an error.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	if err := detections.EnsureSchema(ctx, p.db, p.logger); err != nil {
		return summary, err
	}

	// an image already in flight finishes its transaction even if the run is cancelled
	work := context.WithoutCancel(ctx)

	for task, err := range p.scanner.Scan(ctx) {
		if err != nil {
			if errors.Is(err, images.ErrRootUnreadable) {
				return summary, err
			}
			p.logger.Error("channel scan failed", "channel", task.Channel, "error", err)
			summary.record(failed(StageScan, Discovered, err))
			continue
		}

		summary.Discovered++
		summary.Bytes += task.Size
		summary.record(p.Process(work, task))

		if ctx.Err() != nil {
			break
		}
	}

	if err := ctx.Err(); err != nil {
		p.logger.Warn("run interrupted", "discovered", summary.Discovered)
		return summary, err
	}

	return summary, nil
}

// Process moves one task through parse, detect, and persist. It never
// returns an error: failures come back as a Failed outcome tagged with the
// stage, and any insert error leaves the transaction rolled back.
func (p *Pipeline) Process(ctx context.Context, task images.Task) Outcome {
	logger := p.logger.With("channel", task.Channel, "path", task.Path)

	id, err := images.ParseMessageID(task.Filename)
	if err != nil {
		logger.Error("error processing image", "stage", StageParse, "error", err)
		return failed(StageParse, Discovered, err)
	}

	results, err := p.detector.Detect(ctx, task)
	if err != nil {
		logger.Error("error processing image", "stage", StageDetect, "message_id", id, "error", err)
		o := failed(StageDetect, IDParsed, err)
		o.MessageID = id
		return o
	}

	if len(results) == 0 {
		logger.Info("no detections", "message_id", id)
		return Outcome{State: Detected, MessageID: id}
	}

	rows, err := repository.WithTx(ctx, p.db, func(tx *sql.Tx) (int, error) {
		return p.writer.Write(ctx, tx, task.Channel, id, task.Filename, results)
	})
	if err != nil {
		logger.Error("error processing image", "stage", StagePersist, "message_id", id, "error", err)
		o := failed(StagePersist, Detected, err)
		o.MessageID = id
		return o
	}

	logger.Info("processed image", "message_id", id, "detections", rows)
	return Outcome{State: Persisted, MessageID: id, Rows: rows}
}
