package images

import (
	"strconv"
	"strings"
)

// ParseMessageID extracts the message identifier from a filename of the form
// <prefix>_<digits>.<ext>: the run between the first underscore and the
// first dot after it. A filename with no dot after the underscore uses the
// remainder. Failures return a *ParseError.
func ParseMessageID(filename string) (int64, error) {
	_, rest, ok := strings.Cut(filename, "_")
	if !ok {
		return 0, &ParseError{Filename: filename, Reason: "no underscore"}
	}

	digits, _, _ := strings.Cut(rest, ".")
	if digits == "" {
		return 0, &ParseError{Filename: filename, Reason: "empty identifier"}
	}

	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, &ParseError{Filename: filename, Reason: "identifier is not numeric"}
		}
	}

	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, &ParseError{Filename: filename, Reason: "identifier out of range"}
	}

	return id, nil
}
