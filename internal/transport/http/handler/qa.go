package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"academy-qabot/internal/app"
	"academy-qabot/internal/transport/http/response"
)

type Asker interface {
	Ask(ctx context.Context, input app.AskInput) (*app.AskResult, error)
}

type QAHandler struct {
	qa Asker
}

type AskRequest struct {
	Question string `json:"question" binding:"required,max=2000"`
}

func NewQAHandler(qa Asker) *QAHandler {
	return &QAHandler{qa: qa}
}

func (h *QAHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.qa.Ask(c.Request.Context(), app.AskInput{Question: req.Question})
	if err != nil {
		var dateErr *app.DateExtractionError
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "question is empty")
		case errors.As(err, &dateErr):
			log.Printf("ask failed: %v", err)
			response.Error(c, http.StatusBadGateway, response.CodeDateExtraction, "could not read dates from the question")
		default:
			log.Printf("ask failed: %v", err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "answer generation failed")
		}
		return
	}
	response.OK(c, result)
}
