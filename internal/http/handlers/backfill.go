package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mathforge/curriculum-backend/internal/http/response"
	"github.com/mathforge/curriculum-backend/internal/services"
)

type BackfillHandler struct {
	svc services.EmbeddingBackfillService
}

func NewBackfillHandler(svc services.EmbeddingBackfillService) *BackfillHandler {
	return &BackfillHandler{svc: svc}
}

// POST /api/exercises/embeddings/backfill
func (h *BackfillHandler) Backfill(c *gin.Context) {
	var opts services.BackfillOptions
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&opts); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
			return
		}
	}

	result, err := h.svc.Backfill(c.Request.Context(), opts)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}
