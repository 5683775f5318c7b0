// Package media validates user-chosen files before they enter a submission pipeline.
package media

import (
	"strings"

	"github.com/okian/fightlab/internal/domain/model"
)

// DefaultMaxSizeBytes is the advertised upload limit.
const DefaultMaxSizeBytes int64 = 200 * 1024 * 1024

// AcceptedMIMETypes lists the video containers the pipelines understand.
var AcceptedMIMETypes = []string{"video/mp4", "video/webm", "video/quicktime"}

// Validator checks file metadata against an allow-list and a size cap.
type Validator struct {
	accepted     map[string]struct{}
	maxSizeBytes int64
	enforceSize  bool
}

// NewValidator creates a Validator; by default it accepts AcceptedMIMETypes
// and enforces DefaultMaxSizeBytes.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		maxSizeBytes: DefaultMaxSizeBytes,
		enforceSize:  true,
	}
	WithAcceptedTypes(AcceptedMIMETypes...)(v)

	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultValidator = NewValidator()

// ValidateMedia checks f with the default validator.
func ValidateMedia(f model.SubmissionFile) error {
	return defaultValidator.Validate(f)
}

// Validate returns a *ValidationError when f is refused. Format is checked first.
func (v *Validator) Validate(f model.SubmissionFile) error {
	if _, ok := v.accepted[normalizeMIME(f.MIMEType)]; !ok {
		return v.reject(f, ReasonUnsupportedFormat)
	}
	if f.SizeBytes <= 0 {
		return v.reject(f, ReasonEmptyFile)
	}
	if v.enforceSize && f.SizeBytes > v.maxSizeBytes {
		return v.reject(f, ReasonFileTooLarge)
	}
	return nil
}

// MaxSizeBytes returns the configured size cap, or 0 when it is not enforced.
func (v *Validator) MaxSizeBytes() int64 {
	if !v.enforceSize {
		return 0
	}
	return v.maxSizeBytes
}

func (v *Validator) reject(f model.SubmissionFile, reason string) error {
	return &ValidationError{Reason: reason, FileName: f.Name, MIMEType: f.MIMEType}
}

// normalizeMIME lowercases t and drops parameters such as "; codecs=avc1".
func normalizeMIME(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.ToLower(strings.TrimSpace(t))
}
