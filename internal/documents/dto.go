package documents

import "time"

// DocumentResponse is the outward representation of a stored document. Storage
// keys stay internal; HasText tells the caller whether extracted text was
// archived alongside the original.
type DocumentResponse struct {
	DocumentID string    `json:"documentId"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	Mode       string    `json:"mode"`
	IsResume   *bool     `json:"isResume,omitempty"`
	HasText    bool      `json:"hasText"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID: doc.ID,
		FileName:   doc.FileName,
		MimeType:   doc.MimeType,
		SizeBytes:  doc.SizeBytes,
		Mode:       doc.Mode,
		IsResume:   doc.IsResume,
		HasText:    doc.TextKey != "",
		UploadedAt: doc.CreatedAt,
	}
}
