package detections

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/spotter/internal/detector"
	"github.com/JaimeStill/spotter/pkg/repository"
)

// Writer inserts the detections of one image as a single statement.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a Writer.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logger.With("system", "detections")}
}

// Write inserts one row per result on e, which is normally the caller's
// transaction; the caller commits, or rolls back on error. No results means
// no database operation and a count of zero.
func (w *Writer) Write(
	ctx context.Context,
	e repository.Executor,
	channel string,
	messageID int64,
	filename string,
	results []detector.Result,
) (int, error) {
	if len(results) == 0 {
		return 0, nil
	}

	q, args := buildInsert(FromResults(channel, messageID, filename, results))

	if _, err := e.ExecContext(ctx, q, args...); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInsert, repository.MapError(err, pgErrors))
	}

	w.logger.Debug("detections inserted", "channel", channel, "message_id", messageID, "rows", len(results))
	return len(results), nil
}

// buildInsert renders a parameterized multi-row INSERT with rows in order.
func buildInsert(rows []Detection) (string, []any) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", Table, strings.Join(columns, ", "))

	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		placeholders := make([]string, len(columns))
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", len(args)+j+1)
		}
		sb.WriteString("(" + strings.Join(placeholders, ", ") + ")")
		args = append(args, row.values()...)
	}

	return sb.String(), args
}
