package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Accepted MIME types. Anything else is rejected before extraction starts.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeDOC  = "application/msword"
)

var (
	// ErrUnsupportedFormat marks a MIME type outside the accepted set.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrExtractionFailed marks a Word document that could not be decoded.
	ErrExtractionFailed = errors.New("text extraction failed")
)

// PDFPlaceholder substitutes for PDF content that could not be read (scanned
// image with no text layer, or a corrupt file). Downgrading instead of
// failing keeps the document lifecycle on the completed path; that trade-off
// is deliberate and surfaced through Result.Degraded.
const PDFPlaceholder = "Unable to read PDF content. The file may be a scanned image or damaged. Please review the extracted fields manually."

// Result is the outcome of a text extraction. Degraded means the pipeline
// should continue on placeholder text rather than fail the document.
type Result struct {
	Text     string
	Degraded bool
}

// IsSupportedMimeType reports whether mimeType is one of the three accepted
// document formats.
func IsSupportedMimeType(mimeType string) bool {
	switch normalizeMimeType(mimeType) {
	case MimePDF, MimeDOCX, MimeDOC:
		return true
	}
	return false
}

// FromBytes converts a stored document into plain text, dispatching on the
// declared MIME type. The text keeps its embedded newlines; normalization is
// the parser's job. It never returns an empty text without error.
func FromBytes(data []byte, mimeType string) (Result, error) {
	switch normalizeMimeType(mimeType) {
	case MimePDF:
		text, err := extractPDF(data)
		if err != nil || strings.TrimSpace(text) == "" {
			return Result{Text: PDFPlaceholder, Degraded: true}, nil
		}
		return Result{Text: text}, nil
	case MimeDOCX:
		text, err := extractDOCX(data)
		if err != nil {
			return Result{}, fmt.Errorf("%w: docx: %v", ErrExtractionFailed, err)
		}
		if strings.TrimSpace(text) == "" {
			return Result{}, fmt.Errorf("%w: docx: empty document", ErrExtractionFailed)
		}
		return Result{Text: text}, nil
	case MimeDOC:
		text, err := extractDOC(data)
		if err != nil {
			return Result{}, fmt.Errorf("%w: doc: %v", ErrExtractionFailed, err)
		}
		if strings.TrimSpace(text) == "" {
			return Result{}, fmt.Errorf("%w: doc: empty document", ErrExtractionFailed)
		}
		return Result{Text: text}, nil
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	return stripDocxXML(string(raw)), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if last := buf.Len(); last > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func normalizeMimeType(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}
