package model

// SubmissionFile describes a user-chosen file. Only metadata is known; bytes are never read.
type SubmissionFile struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	MIMEType  string `json:"mime_type"`
}
