package media

import (
	"errors"
	"fmt"
)

// Rejection reasons reported for a refused file.
const (
	ReasonUnsupportedFormat = "unsupported-format"
	ReasonFileTooLarge      = "file-too-large"
	ReasonEmptyFile         = "empty-file"
)

// Sentinel kinds for media errors.
var (
	ErrValidation = errors.New("media validation failed")
)

// ValidationError reports why a file was refused. It is user-correctable
// and never changes pipeline state.
type ValidationError struct {
	Reason   string
	FileName string
	MIMEType string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%s, %s)", ErrValidation, e.Reason, e.FileName, e.MIMEType)
}

// Is makes errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ReasonOf extracts the rejection reason from err, or "" when err is not a validation error.
func ReasonOf(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return ""
}
