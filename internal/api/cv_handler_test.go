package api

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"jobhelper/internal/config"
	"jobhelper/internal/storage"
)

type fakeStorage struct {
	uploaded map[string][]byte
	deleted  []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploaded: map[string][]byte{}}
}

func (s *fakeStorage) UploadFile(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (*minio.UploadInfo, error) {
	b, _ := io.ReadAll(reader)
	s.uploaded[objectName] = b
	return &minio.UploadInfo{}, nil
}

func (s *fakeStorage) GeneratePresignedURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://example.invalid/" + objectKey, nil
}

func (s *fakeStorage) ListObjects(_ context.Context, prefix string, limit int) ([]storage.ObjectMeta, error) {
	var result []storage.ObjectMeta
	for key, data := range s.uploaded {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		result = append(result, storage.ObjectMeta{Key: key, Size: int64(len(data))})
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	delete(s.uploaded, objectKey)
	return nil
}

func newCVHandlerForTest(store *fakeStorage) *CVHandler {
	return &CVHandler{
		Storage:   store,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		ClamdAddr: "",
		Upload: config.UploadConfig{
			MaxBytes:      1024,
			MIMEWhitelist: []string{"application/pdf"},
		},
	}
}

func newMultipartUpload(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func uploadContext(t *testing.T, userID uuid.UUID, body *bytes.Buffer, contentType string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	req := httptest.NewRequest(http.MethodPost, "/api/cv", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("userID", userID)
	return c, w
}

func TestUploadCV_StoresUnderUserPrefix(t *testing.T) {
	store := newFakeStorage()
	h := newCVHandlerForTest(store)
	userID := uuid.New()

	body, contentType := newMultipartUpload(t, "cv.pdf", "application/pdf", []byte("%PDF-1.4"))
	c, w := uploadContext(t, userID, body, contentType)

	h.UploadCV(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
	}
	if len(store.uploaded) != 1 {
		t.Fatalf("expected one uploaded object, got %d", len(store.uploaded))
	}
	for key := range store.uploaded {
		if !strings.HasPrefix(key, "user-cv/"+userID.String()+"/") {
			t.Fatalf("object stored outside user prefix: %s", key)
		}
		if !strings.HasSuffix(key, ".pdf") {
			t.Fatalf("expected original extension kept, got %s", key)
		}
	}
}

func TestUploadCV_RejectsDisallowedMIME(t *testing.T) {
	store := newFakeStorage()
	h := newCVHandlerForTest(store)

	body, contentType := newMultipartUpload(t, "cv.exe", "application/x-msdownload", []byte("MZ"))
	c, w := uploadContext(t, uuid.New(), body, contentType)

	h.UploadCV(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", w.Code, w.Body.String())
	}
	if len(store.uploaded) != 0 {
		t.Fatalf("expected nothing stored, got %d objects", len(store.uploaded))
	}
}

func TestUploadCV_RejectsOversizedFile(t *testing.T) {
	store := newFakeStorage()
	h := newCVHandlerForTest(store)

	body, contentType := newMultipartUpload(t, "cv.pdf", "application/pdf", bytes.Repeat([]byte("a"), 2048))
	c, w := uploadContext(t, uuid.New(), body, contentType)

	h.UploadCV(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", w.Code, w.Body.String())
	}
	if len(store.uploaded) != 0 {
		t.Fatalf("expected nothing stored, got %d objects", len(store.uploaded))
	}
}

func TestGetCVURL_DeniesForeignKey(t *testing.T) {
	store := newFakeStorage()
	h := newCVHandlerForTest(store)
	userID := uuid.New()

	gin.SetMode(gin.TestMode)
	req := httptest.NewRequest(http.MethodGet, "/api/cv/url?key=user-cv/"+uuid.NewString()+"/other.pdf", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("userID", userID)

	h.GetCVURL(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestDeleteCV_RemovesOwnObject(t *testing.T) {
	store := newFakeStorage()
	h := newCVHandlerForTest(store)
	userID := uuid.New()
	key := "user-cv/" + userID.String() + "/doc.pdf"
	store.uploaded[key] = []byte("%PDF-1.4")

	gin.SetMode(gin.TestMode)
	req := httptest.NewRequest(http.MethodDelete, "/api/cv?key="+key, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("userID", userID)

	h.DeleteCV(c)
	c.Writer.WriteHeaderNow()

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", w.Code, w.Body.String())
	}
	if len(store.deleted) != 1 || store.deleted[0] != key {
		t.Fatalf("expected %s deleted, got %v", key, store.deleted)
	}
}
