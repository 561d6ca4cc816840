package ingest

import (
	"context"
	"errors"
	"strings"

	"cv-backend/internal/extract"
)

// Failure codes recorded on the document when processing fails.
const (
	ErrorCodeUnsupportedFormat = "unsupported_format"
	ErrorCodeExtraction        = "extraction_failed"
	ErrorCodeStorage           = "storage_error"
	ErrorCodeTimeout           = "timeout"
	ErrorCodeInternal          = "internal_error"
)

func classifyFailure(err error) string {
	if err == nil {
		return ErrorCodeInternal
	}
	if errors.Is(err, extract.ErrUnsupportedFormat) {
		return ErrorCodeUnsupportedFormat
	}
	if errors.Is(err, extract.ErrExtractionFailed) {
		return ErrorCodeExtraction
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorCodeTimeout
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "document lookup") || strings.Contains(msg, "load object") || strings.Contains(msg, "save extraction") || strings.Contains(msg, "set completed") {
		return ErrorCodeStorage
	}
	return ErrorCodeInternal
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
