package risk

import "errors"

// Sentinel kinds for risk model errors.
var (
	ErrInvalidProfile = errors.New("invalid athlete profile")
)
