package database

import "errors"

// ErrUnreachable indicates the database could not be reached at startup.
var ErrUnreachable = errors.New("database unreachable")
