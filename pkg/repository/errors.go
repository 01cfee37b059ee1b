package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the domain packages translate.
const (
	CodeStringTooLong  = "22001"
	CodeUndefinedTable = "42P01"
	CodeInvalidSchema  = "3F000"
)

// MapError translates PostgreSQL errors to domain errors.
// mapping is keyed by SQLSTATE code; a matched error wraps both the domain
// error and the original so either can be inspected with errors.Is.
// Unmatched errors are returned unchanged.
func MapError(err error, mapping map[string]error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if domain, ok := mapping[pgErr.Code]; ok {
			return fmt.Errorf("%w: %w", domain, err)
		}
	}

	return err
}
