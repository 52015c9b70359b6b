package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"academy-qabot/internal/app"
	"academy-qabot/internal/transport/http/response"
)

const maxUploadSize = 10 << 20 // 10 MB

type Ingester interface {
	Ingest(ctx context.Context, source app.IngestSource) (*app.IngestResult, error)
}

// CacheFlusher drops cached answers after the index changed.
type CacheFlusher interface {
	Flush(ctx context.Context) (int, error)
}

type IngestHandler struct {
	ingest Ingester
	cache  CacheFlusher
}

type CrawlRequest struct {
	URL string `json:"url"`
}

// NewIngestHandler takes an optional cache; nil skips flushing.
func NewIngestHandler(ingest Ingester, cache CacheFlusher) *IngestHandler {
	return &IngestHandler{ingest: ingest, cache: cache}
}

// Upload accepts a multipart form with "kind", "file" and optional "name"
// and "attached_files" (comma separated).
func (h *IngestHandler) Upload(c *gin.Context) {
	kind, ok := app.ParseSourceKind(c.PostForm("kind"))
	if !ok || kind == app.SourceCrawl {
		response.Error(c, http.StatusBadRequest, response.CodeUnsupportedSource, "unsupported source kind")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if file.Size > maxUploadSize {
		response.Error(c, http.StatusBadRequest, response.CodeFileTooLarge, "file too large (max 10MB)")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		name = file.Filename
	}

	h.run(c, app.IngestSource{
		Kind:          kind,
		Name:          name,
		Content:       content,
		AttachedFiles: splitList(c.PostForm("attached_files")),
	})
}

// Crawl crawls the given URL, or the configured start page when empty.
func (h *IngestHandler) Crawl(c *gin.Context) {
	var req CrawlRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
			return
		}
	}
	h.run(c, app.IngestSource{Kind: app.SourceCrawl, URL: req.URL})
}

func (h *IngestHandler) run(c *gin.Context, source app.IngestSource) {
	result, err := h.ingest.Ingest(c.Request.Context(), source)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "source is empty")
		case errors.Is(err, app.ErrUnsupportedSource):
			response.Error(c, http.StatusBadRequest, response.CodeUnsupportedSource, err.Error())
		default:
			log.Printf("ingest %s failed: %v", source.Kind, err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ingest failed")
		}
		return
	}

	if h.cache != nil && result.ChunkCount > 0 {
		if n, err := h.cache.Flush(c.Request.Context()); err != nil {
			log.Printf("flush answer cache failed: %v", err)
		} else {
			log.Printf("answer cache flushed: keys=%d", n)
		}
	}
	response.OK(c, result)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
