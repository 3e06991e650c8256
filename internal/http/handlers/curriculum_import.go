package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mathforge/curriculum-backend/internal/http/response"
	"github.com/mathforge/curriculum-backend/internal/pkg/ctxutil"
	"github.com/mathforge/curriculum-backend/internal/services"
)

type CurriculumImportHandler struct {
	svc services.ExerciseImportService
}

func NewCurriculumImportHandler(svc services.ExerciseImportService) *CurriculumImportHandler {
	return &CurriculumImportHandler{svc: svc}
}

type importRequest struct {
	Exercises []services.ImportRow `json:"exercises"`
}

// POST /api/curriculum/import
func (h *CurriculumImportHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	actor := ctxutil.GetActorID(c.Request.Context())
	report, err := h.svc.ImportExercises(c.Request.Context(), req.Exercises, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, report)
}
