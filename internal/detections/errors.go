package detections

import (
	"errors"

	"github.com/JaimeStill/spotter/pkg/repository"
)

// Domain errors for detection persistence.
var (
	ErrSchema       = errors.New("detection schema unavailable")
	ErrInsert       = errors.New("detection insert failed")
	ErrValueTooLong = errors.New("detection value exceeds column length")
)

var pgErrors = map[string]error{
	repository.CodeStringTooLong:  ErrValueTooLong,
	repository.CodeUndefinedTable: ErrSchema,
	repository.CodeInvalidSchema:  ErrSchema,
}
