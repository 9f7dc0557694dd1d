package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noilens/internal/config"
	"noilens/internal/domain"
	"noilens/internal/extractor"
	"noilens/internal/middleware"
)

const statementCSV = `Gross Potential Rent,80000.00
Vacancy Loss,2000.00
Concessions,1000.00
Bad Debt,500.00
Other Income,3950.00
Effective Gross Income,80450.00
Total Operating Expenses,16250.00
Net Operating Income,64200.00
`

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := extractor.NewEngine(nil, &config.ExtractorConfig{
		MaxAttempts:  1,
		PromptBudget: 3000,
		Concurrency:  2,
	})
	h := NewExtractionHandler(engine, &config.UploadConfig{MaxFileSizeMB: 1})

	r := gin.New()
	r.Use(middleware.RequestID())
	r.POST("/api/v1/extractions", h.Extract)
	r.POST("/api/v1/extractions/batch", h.ExtractBatch)
	r.GET("/healthz", NewHealthHandler().Liveness)
	return r
}

func multipartBody(t *testing.T, field string, files map[string]string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for name, content := range files {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestExtractEndpoint(t *testing.T) {
	r := testRouter(t)
	body, contentType := multipartBody(t, "file",
		map[string]string{"may_actuals.csv": statementCSV},
		map[string]string{"document_type": "current_month_actuals"},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extractions", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool                     `json:"success"`
		Data    *domain.ExtractionResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "may_actuals.csv", resp.Data.Record.FileName)
	assert.Equal(t, domain.StatusCompleted, resp.Data.Record.ExtractionStatus)
	assert.Equal(t, domain.DocTypeCurrentMonthActuals, resp.Data.Record.DocumentType)
	assert.InDelta(t, 64200.0, resp.Data.Record.Fields[domain.FieldNetOperatingIncome], 0.01)
}

func TestExtractEndpointMissingFile(t *testing.T) {
	r := testRouter(t)
	body, contentType := multipartBody(t, "file", nil, map[string]string{"document_type": "budget"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extractions", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "MISSING_FILE", resp.Error.Code)
}

func TestExtractEndpointUnsupportedFormat(t *testing.T) {
	r := testRouter(t)
	body, contentType := multipartBody(t, "file",
		map[string]string{"report.bin": "\x00\x01\x02\x03 not a document"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extractions", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNSUPPORTED_FORMAT", resp.Error.Code)
}

func TestExtractBatchEndpoint(t *testing.T) {
	r := testRouter(t)
	body, contentType := multipartBody(t, "files", map[string]string{
		"may.csv":  statementCSV,
		"june.csv": statementCSV,
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extractions/batch", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool                       `json:"success"`
		Data    []*domain.ExtractionResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 2)
	for _, res := range resp.Data {
		assert.Equal(t, domain.StatusCompleted, res.Record.ExtractionStatus)
	}
}

func TestExtractBatchEndpointCSVFormat(t *testing.T) {
	r := testRouter(t)
	body, contentType := multipartBody(t, "files",
		map[string]string{"may.csv": statementCSV}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extractions/batch?format=csv", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	out := w.Body.String()
	assert.True(t, strings.HasPrefix(out, "\xEF\xBB\xBF"), "expected UTF-8 BOM prefix")
	assert.Contains(t, out, "Document Name")
	assert.Contains(t, out, "may.csv")
	assert.Contains(t, out, "64200.00")
}

func TestExtractBatchEndpointNoFiles(t *testing.T) {
	r := testRouter(t)
	body, contentType := multipartBody(t, "files", nil, map[string]string{"note": "empty"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extractions/batch", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "MISSING_FILES", resp.Error.Code)
}

func TestExtractEndpointFileTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := extractor.NewEngine(nil, &config.ExtractorConfig{MaxAttempts: 1, Concurrency: 1})
	// 0 MB cap makes any non-empty upload oversized.
	h := NewExtractionHandler(engine, &config.UploadConfig{MaxFileSizeMB: 0})
	r := gin.New()
	r.POST("/api/v1/extractions", h.Extract)

	body, contentType := multipartBody(t, "file",
		map[string]string{"may.csv": statementCSV}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extractions", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FILE_TOO_LARGE", resp.Error.Code)
}

func TestHealthEndpoint(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
