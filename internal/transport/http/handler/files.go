package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"academy-qabot/internal/storage"
	"academy-qabot/internal/transport/http/response"
)

type FileDownloader interface {
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)
}

type FilesHandler struct {
	files FileDownloader
}

func NewFilesHandler(files FileDownloader) *FilesHandler {
	return &FilesHandler{files: files}
}

// Download streams a crawled attachment by its storage path.
func (h *FilesHandler) Download(c *gin.Context) {
	storagePath := strings.TrimPrefix(c.Param("path"), "/")
	if storagePath == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file path")
		return
	}

	rc, err := h.files.Download(c.Request.Context(), storagePath)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			response.Error(c, http.StatusNotFound, response.CodeFileNotFound, "file not found")
		case errors.Is(err, storage.ErrInvalidPath):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid file path")
		default:
			log.Printf("download %s failed: %v", storagePath, err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "download failed")
		}
		return
	}
	defer rc.Close()

	name := path.Base(storagePath)
	c.Header("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(name, `"`, "")+`"`)
	c.DataFromReader(http.StatusOK, -1, storage.ContentType(name), rc, nil)
}
