package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mathforge/curriculum-backend/internal/http/response"
	"github.com/mathforge/curriculum-backend/internal/pkg/ctxutil"
	"github.com/mathforge/curriculum-backend/internal/services"
)

type CurriculumMergeHandler struct {
	svc services.MergeService
}

func NewCurriculumMergeHandler(svc services.MergeService) *CurriculumMergeHandler {
	return &CurriculumMergeHandler{svc: svc}
}

type mergeRequest struct {
	Table         string    `json:"table"`
	SourceID      uuid.UUID `json:"sourceId"`
	DestinationID uuid.UUID `json:"destinationId"`
}

// POST /api/curriculum/merge
func (h *CurriculumMergeHandler) Merge(c *gin.Context) {
	var req mergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	table, err := services.ParseMergeTable(req.Table)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	actor := ctxutil.GetActorID(c.Request.Context())
	report, err := h.svc.Merge(c.Request.Context(), table, req.SourceID, req.DestinationID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, report)
}
