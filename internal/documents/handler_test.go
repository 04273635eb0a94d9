package documents

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestRouter(repo DocumentsRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(repo).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func seedRepo(t *testing.T) *MemoryRepo {
	t.Helper()
	repo := NewMemoryRepo()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	isResume := true
	docs := []Document{
		{ID: "doc-1", FileName: "old.pdf", MimeType: "application/pdf", SizeBytes: 100, Mode: "full-match", CreatedAt: base},
		{ID: "doc-2", FileName: "mid.docx", MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", SizeBytes: 200, Mode: "validity-check", IsResume: &isResume, TextKey: "text/doc-2.txt", CreatedAt: base.Add(time.Hour)},
		{ID: "doc-3", FileName: "new.txt", MimeType: "text/plain", SizeBytes: 300, Mode: "full-match", CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, doc := range docs {
		if err := repo.Create(context.Background(), doc); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return repo
}

func TestListDocuments_NewestFirstWithLimit(t *testing.T) {
	router := newTestRouter(seedRepo(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents?limit=2", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Documents []DocumentResponse `json:"documents"`
		Limit     int                `json:"limit"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Limit != 2 {
		t.Fatalf("limit = %d, want 2", body.Limit)
	}
	if len(body.Documents) != 2 {
		t.Fatalf("got %d documents, want 2", len(body.Documents))
	}
	if body.Documents[0].DocumentID != "doc-3" || body.Documents[1].DocumentID != "doc-2" {
		t.Fatalf("unexpected order: %+v", body.Documents)
	}
}

func TestListDocuments_OffsetPastEndIsEmpty(t *testing.T) {
	router := newTestRouter(seedRepo(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents?offset=10", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Documents []DocumentResponse `json:"documents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Documents == nil || len(body.Documents) != 0 {
		t.Fatalf("expected empty list, got %+v", body.Documents)
	}
}

func TestListDocuments_RejectsNegativeLimit(t *testing.T) {
	router := newTestRouter(seedRepo(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents?limit=-1", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetDocument_ByID(t *testing.T) {
	router := newTestRouter(seedRepo(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc-2", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var doc DocumentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.DocumentID != "doc-2" || doc.FileName != "mid.docx" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if !doc.HasText {
		t.Fatalf("expected hasText for an archived text key: %+v", doc)
	}
	if doc.IsResume == nil || !*doc.IsResume {
		t.Fatalf("expected isResume true, got %+v", doc.IsResume)
	}
}

func TestGetDocument_UnknownIDIs404(t *testing.T) {
	router := newTestRouter(seedRepo(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/nope", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != errorCodeNotFound {
		t.Fatalf("error code = %q, want %q", body.Error.Code, errorCodeNotFound)
	}
}
