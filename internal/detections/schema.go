package detections

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/spotter/pkg/repository"
)

const createSchema = `CREATE SCHEMA IF NOT EXISTS raw`

const createTable = `
	CREATE TABLE IF NOT EXISTS raw.image_detections (
		channel_name VARCHAR(255),
		message_id BIGINT,
		image_filename VARCHAR(255),
		detected_object_class VARCHAR(100),
		confidence_score FLOAT,
		detection_timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

// EnsureSchema creates the raw schema and image_detections table when absent,
// in one committed transaction. It is safe to call repeatedly and never
// touches existing rows.
func EnsureSchema(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	_, err := repository.WithTx(ctx, db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecAll(ctx, tx, createSchema, createTable)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}

	logger.Info("detection table ready", "table", Table)
	return nil
}
