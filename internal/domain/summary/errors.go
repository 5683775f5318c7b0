package summary

import "errors"

// Sentinel kinds for summary errors.
var (
	ErrBadTimestamp = errors.New("invalid timestamp")
)
