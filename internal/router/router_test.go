package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shimizu-Technology/ocr-api/internal/handlers"
	"github.com/Shimizu-Technology/ocr-api/internal/services/extract"
	"github.com/Shimizu-Technology/ocr-api/internal/services/worker"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type ocrReady bool

func (o ocrReady) Available() bool { return bool(o) }

// testServer wires the real router, handlers, worker pool and dispatcher to
// fake extractors keyed on file content.
func testServer(t *testing.T, maxUpload int64) (*gin.Engine, string) {
	t.Helper()
	dir := t.TempDir()

	textLayer := extract.Strategy{Name: "default", Parse: func(_ context.Context, data []byte) (string, error) {
		if bytes.Contains(data, []byte("BT (Invoice")) {
			return "Invoice #42\nTotal: $100.00", nil
		}
		return "", errors.New("no text layer")
	}}
	emptyStrategy := func(name string) extract.Strategy {
		return extract.Strategy{Name: name, Parse: func(context.Context, []byte) (string, error) { return "", nil }}
	}
	docx := extract.ExtractorFunc(func(_ context.Context, path string) (string, error) {
		data, err := os.ReadFile(path)
		return string(data), err
	})
	image := extract.ExtractorFunc(func(context.Context, string) (string, error) { return "", nil })

	d := extract.NewDispatcher(extract.NewFallback(textLayer, emptyStrategy("max0"), emptyStrategy("pagerender")), docx, image)
	pool := worker.NewPool(2, 10, d)
	pool.Start()
	t.Cleanup(pool.Stop)

	h := handlers.NewHandler(nil, pool, ocrReady(true), dir, maxUpload)
	return Setup(h, 0, []string{"*"}), dir
}

func upload(t *testing.T, r http.Handler, field, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if name != "" {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/ocr", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func assertNoScratchFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch files left behind")
}

func TestOCR_EndToEnd(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		content    string
		wantStatus int
		wantText   string
		wantError  string
		wantType   string
	}{
		{
			name:       "pdf with text layer",
			filename:   "invoice.pdf",
			content:    "%PDF-1.4 BT (Invoice #42) Tj ET",
			wantStatus: http.StatusOK,
			wantText:   "Invoice #42\nTotal: $100.00",
			wantType:   "pdf",
		},
		{
			name:       "scanned pdf",
			filename:   "scan.pdf",
			content:    "%PDF-1.4 /Subtype /Image",
			wantStatus: http.StatusInternalServerError,
			wantError:  "Unable to extract text from this PDF",
		},
		{
			name:       "word document",
			filename:   "notes.docx",
			content:    "Meeting notes\n\nAction items",
			wantStatus: http.StatusOK,
			wantText:   "Meeting notes\n\nAction items",
			wantType:   "docx",
		},
		{
			name:       "image without text",
			filename:   "photo.png",
			content:    "\x89PNG",
			wantStatus: http.StatusOK,
			wantText:   extract.MsgNoTextInImage,
			wantType:   "image",
		},
		{
			name:       "unsupported type",
			filename:   "archive.zip",
			content:    "PK",
			wantStatus: http.StatusBadRequest,
			wantError:  "Unsupported file type",
		},
		{
			name:       "upper case extension",
			filename:   "INVOICE.PDF",
			content:    "%PDF-1.4 BT (Invoice #42) Tj ET",
			wantStatus: http.StatusOK,
			wantText:   "Invoice #42\nTotal: $100.00",
			wantType:   "pdf",
		},
		{
			name:       "empty file",
			filename:   "blank.pdf",
			content:    "",
			wantStatus: http.StatusBadRequest,
			wantError:  extract.MsgEmptyFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, dir := testServer(t, 1<<20)

			w := upload(t, r, "file", tt.filename, []byte(tt.content))
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			body := decode(t, w)
			if tt.wantError != "" {
				assert.Contains(t, body["error"], tt.wantError)
			} else {
				assert.Equal(t, tt.wantText, body["text"])
				assert.Equal(t, tt.wantType, body["file_type"])
				assert.Equal(t, tt.filename, body["filename"])
				assert.EqualValues(t, len([]rune(tt.wantText)), body["length"])
			}
			assertNoScratchFiles(t, dir)
		})
	}
}

func TestOCR_StrategyReported(t *testing.T) {
	r, _ := testServer(t, 1<<20)
	w := upload(t, r, "file", "invoice.pdf", []byte("BT (Invoice"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "default", decode(t, w)["strategy"])
}

func TestOCR_MissingFile(t *testing.T) {
	r, _ := testServer(t, 1<<20)

	w := upload(t, r, "file", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file uploaded", decode(t, w)["error"])

	w = upload(t, r, "document", "invoice.pdf", []byte("BT (Invoice"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOCR_TooLarge(t *testing.T) {
	r, dir := testServer(t, 16)
	w := upload(t, r, "file", "big.pdf", []byte(strings.Repeat("x", 64)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, decode(t, w)["error"], "File too large")
	assertNoScratchFiles(t, dir)
}

func TestOCR_MethodNotAllowed(t *testing.T) {
	r, _ := testServer(t, 1<<20)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/api/ocr", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.Equal(t, "Method not allowed", decode(t, w)["error"])
		})
	}
}

func TestHealth(t *testing.T) {
	r, _ := testServer(t, 1<<20)

	for _, path := range []string{"/health", "/api/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "disabled", body["database"])
		assert.Equal(t, "available", body["tesseract"])
		assert.EqualValues(t, 2, body["workers"])
	}
}

func TestExtractions_DisabledWithoutDatabase(t *testing.T) {
	r, _ := testServer(t, 1<<20)

	for _, path := range []string{"/api/extractions", "/api/extractions/abc"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	}
}
