package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID   string     `json:"documentId"`
	FileName     string     `json:"fileName"`
	MimeType     string     `json:"mimeType"`
	SizeBytes    int64      `json:"sizeBytes"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	UploadedAt   time.Time  `json:"uploadedAt"`
	ProcessedAt  *time.Time `json:"processedAt,omitempty"`

	// Populated from the extraction once processing completes.
	ExtractedName  string `json:"extractedName,omitempty"`
	ExtractedEmail string `json:"extractedEmail,omitempty"`
}

// StatusResponse is the polling view of a document's lifecycle.
type StatusResponse struct {
	DocumentID   string `json:"documentId"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:   doc.ID,
		FileName:     doc.FileName,
		MimeType:     doc.MimeType,
		SizeBytes:    doc.SizeBytes,
		Status:       doc.Status,
		ErrorMessage: doc.ErrorMessage,
		UploadedAt:   doc.UploadedAt,
		ProcessedAt:  doc.ProcessedAt,
	}
}

func toStatusResponse(doc Document) StatusResponse {
	return StatusResponse{
		DocumentID:   doc.ID,
		Status:       doc.Status,
		ErrorMessage: doc.ErrorMessage,
	}
}
