package images

import (
	"errors"
	"fmt"
)

var (
	// ErrParse indicates a filename does not carry a message identifier.
	ErrParse = errors.New("filename does not match <prefix>_<digits>.<ext>")
	// ErrRootUnreadable indicates the data-lake root could not be listed.
	ErrRootUnreadable = errors.New("data lake root unreadable")
)

// ParseError reports the filename that failed to parse and why.
type ParseError struct {
	Filename string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse message id from %q: %s", e.Filename, e.Reason)
}

// Unwrap lets errors.Is match ErrParse.
func (e *ParseError) Unwrap() error {
	return ErrParse
}
