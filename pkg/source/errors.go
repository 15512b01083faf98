package source

import "errors"

var (
	// ErrSourceUnavailable is returned when a source cannot be read, e.g. it does not exist.
	ErrSourceUnavailable = errors.New("battery source unavailable")

	// ErrMalformedSource is returned when a required key is missing or its value cannot be parsed.
	ErrMalformedSource = errors.New("malformed battery source")
)
