package documents

import "time"

// Document records an uploaded file and the analysis it fed.
type Document struct {
	ID         string
	FileName   string
	MimeType   string
	SizeBytes  int64
	StorageKey string
	TextKey    string
	Mode       string
	IsResume   *bool
	CreatedAt  time.Time
}
