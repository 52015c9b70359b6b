package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"academy-qabot/internal/model"
	"academy-qabot/internal/transport/http/response"
)

type QALogLister interface {
	ListRecent(ctx context.Context, category string, limit int) ([]model.QALog, error)
}

type LogsHandler struct {
	logs QALogLister
}

func NewLogsHandler(logs QALogLister) *LogsHandler {
	return &LogsHandler{logs: logs}
}

// List returns recent QA logs, filtered by the optional "category" query.
func (h *LogsHandler) List(c *gin.Context) {
	category := c.Query("category")
	if category != "" {
		if _, ok := model.ParseCategory(category); !ok {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "unknown category")
			return
		}
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.logs.ListRecent(c.Request.Context(), category, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list qa logs failed")
		return
	}
	response.OK(c, entries)
}
