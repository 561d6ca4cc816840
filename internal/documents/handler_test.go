package documents_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"cv-backend/internal/bootstrap"
	"cv-backend/internal/extract"
	"cv-backend/internal/shared/config"
)

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>jane.doe@example.com</w:t></w:r></w:p>
    <w:p><w:r><w:t>(555) 123-4567</w:t></w:r></w:p>
    <w:p><w:r><w:t>Austin, TX</w:t></w:r></w:p>
    <w:p><w:r><w:t>Skills</w:t></w:r></w:p>
    <w:p><w:r><w:t>Python, Go, Docker</w:t></w:r></w:p>
  </w:body>
</w:document>`

func buildTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:3000"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func buildDocxUpload(t *testing.T, fileName string) (*bytes.Buffer, string) {
	t.Helper()

	var docx bytes.Buffer
	zw := zip.NewWriter(&docx)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(sampleDocumentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", extract.MimeDOCX)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create form part: %v", err)
	}
	if _, err := part.Write(docx.Bytes()); err != nil {
		t.Fatalf("write form part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func doRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	req.Header.Set("X-User-Id", "tester")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func pollStatus(t *testing.T, router *gin.Engine, documentID string) string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+documentID+"/status", nil)
		resp := doRequest(router, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("status poll: http %d", resp.Code)
		}
		var status struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			t.Fatalf("decode status: %v", err)
		}
		if status.Status == "completed" || status.Status == "failed" {
			return status.Status
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("document did not reach a terminal status")
	return ""
}

func TestUploadProcessAndFetchExtracted(t *testing.T) {
	app := buildTestApp(t)
	router := app.Router

	body, contentType := buildDocxUpload(t, "resume.docx")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	resp := doRequest(router, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		DocumentID string `json:"documentId"`
		FileName   string `json:"fileName"`
		Status     string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.DocumentID == "" {
		t.Fatal("expected documentId, got empty")
	}
	if created.Status != "pending" {
		t.Fatalf("status = %q, want pending", created.Status)
	}

	if got := pollStatus(t, router, created.DocumentID); got != "completed" {
		t.Fatalf("terminal status = %q, want completed", got)
	}

	// Extracted fields are available once processing completes.
	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.DocumentID+"/extracted", nil)
	respGet := doRequest(router, reqGet)
	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", respGet.Code, respGet.Body.String())
	}

	var info struct {
		DocumentID string `json:"documentId"`
		Extracted  struct {
			FullName string   `json:"fullName"`
			Email    string   `json:"email"`
			Phone    string   `json:"phone"`
			Location string   `json:"location"`
			Skills   []string `json:"skills"`
		} `json:"extracted"`
	}
	if err := json.NewDecoder(respGet.Body).Decode(&info); err != nil {
		t.Fatalf("decode extracted response: %v", err)
	}
	if info.Extracted.FullName != "Jane Doe" {
		t.Fatalf("fullName = %q", info.Extracted.FullName)
	}
	if info.Extracted.Email != "jane.doe@example.com" {
		t.Fatalf("email = %q", info.Extracted.Email)
	}
	if info.Extracted.Location != "Austin, TX" {
		t.Fatalf("location = %q", info.Extracted.Location)
	}
	if len(info.Extracted.Skills) == 0 {
		t.Fatal("expected skills")
	}

	// Listing shows the processed document.
	reqList := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	respList := doRequest(router, reqList)
	if respList.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respList.Code)
	}
	var listed []struct {
		DocumentID     string `json:"documentId"`
		Status         string `json:"status"`
		ExtractedName  string `json:"extractedName"`
		ExtractedEmail string `json:"extractedEmail"`
	}
	if err := json.NewDecoder(respList.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed) != 1 || listed[0].DocumentID != created.DocumentID {
		t.Fatalf("list = %+v", listed)
	}
	if listed[0].ExtractedName != "Jane Doe" || listed[0].ExtractedEmail != "jane.doe@example.com" {
		t.Fatalf("listed contact fields = %q / %q", listed[0].ExtractedName, listed[0].ExtractedEmail)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	app := buildTestApp(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="photo.png"`)
	header.Set("Content-Type", "image/png")
	part, _ := writer.CreatePart(header)
	part.Write([]byte("not a resume"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := doRequest(app.Router, req)

	if resp.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected status 415, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestProcessRejectsCompletedDocument(t *testing.T) {
	app := buildTestApp(t)
	router := app.Router

	body, contentType := buildDocxUpload(t, "resume.docx")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	resp := doRequest(router, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var created struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if got := pollStatus(t, router, created.DocumentID); got != "completed" {
		t.Fatalf("terminal status = %q, want completed", got)
	}

	reqRetry := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+created.DocumentID+"/process", nil)
	respRetry := doRequest(router, reqRetry)
	if respRetry.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", respRetry.Code, respRetry.Body.String())
	}
}

func TestDocumentsScopedToUser(t *testing.T) {
	app := buildTestApp(t)
	router := app.Router

	body, contentType := buildDocxUpload(t, "resume.docx")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	resp := doRequest(router, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var created struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	reqOther := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.DocumentID, nil)
	reqOther.Header.Set("X-User-Id", "someone-else")
	respOther := httptest.NewRecorder()
	router.ServeHTTP(respOther, reqOther)
	if respOther.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", respOther.Code)
	}
}
