package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mathforge/curriculum-backend/internal/http/response"
	"github.com/mathforge/curriculum-backend/internal/services"
)

type CurriculumTreeHandler struct {
	svc services.TreeService
}

func NewCurriculumTreeHandler(svc services.TreeService) *CurriculumTreeHandler {
	return &CurriculumTreeHandler{svc: svc}
}

// GET /api/curriculum/tree?gradeIds=a,b,c
func (h *CurriculumTreeHandler) GetTree(c *gin.Context) {
	var gradeIDs []uuid.UUID
	if raw := strings.TrimSpace(c.Query("gradeIds")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				response.RespondError(c, http.StatusBadRequest, "invalid_grade_id", err)
				return
			}
			gradeIDs = append(gradeIDs, id)
		}
	}

	tree, err := h.svc.ListTree(c.Request.Context(), gradeIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, tree)
}
