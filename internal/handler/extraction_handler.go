package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"noilens/internal/config"
	"noilens/internal/domain"
	"noilens/internal/export"
	"noilens/internal/extractor"
)

// ExtractionHandler handles document extraction endpoints.
type ExtractionHandler struct {
	engine   *extractor.Engine
	maxBytes int64
}

// NewExtractionHandler creates a new ExtractionHandler.
func NewExtractionHandler(engine *extractor.Engine, uploadCfg *config.UploadConfig) *ExtractionHandler {
	return &ExtractionHandler{
		engine:   engine,
		maxBytes: uploadCfg.MaxFileSizeMB * 1024 * 1024,
	}
}

// Extract handles POST /api/v1/extractions. Expects a multipart form with a
// "file" part and an optional "document_type" field.
func (h *ExtractionHandler) Extract(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart field 'file' is required")
		return
	}
	data, err := h.readUpload(fileHeader)
	if err != nil {
		HandleError(c, err)
		return
	}

	hint := domain.DocumentType(c.PostForm("document_type"))
	result, err := h.engine.Extract(c.Request.Context(), data, fileHeader.Filename, hint)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, result)
}

// ExtractBatch handles POST /api/v1/extractions/batch. Expects one or more
// "files" parts; "?format=csv" streams the results as a CSV attachment
// instead of JSON.
func (h *ExtractionHandler) ExtractBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORM", "multipart form could not be parsed")
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILES", "at least one 'files' part is required")
		return
	}

	docs := make([]domain.RawDocument, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		data, err := h.readUpload(fh)
		if err != nil {
			HandleError(c, err)
			return
		}
		docs = append(docs, domain.RawDocument{FileName: fh.Filename, Data: data})
	}

	results := h.engine.ExtractAll(c.Request.Context(), docs)

	if c.Query("format") == "csv" {
		h.respondCSV(c, results)
		return
	}
	RespondCreated(c, results)
}

func (h *ExtractionHandler) respondCSV(c *gin.Context, results []*domain.ExtractionResult) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename="+export.BuildFilename("extractions"))
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write(export.BOM); err != nil {
		return
	}
	w := export.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteResults(results); err != nil {
		return
	}
	w.Flush()
}

func (h *ExtractionHandler) readUpload(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > h.maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, h.maxBytes+1))
}
