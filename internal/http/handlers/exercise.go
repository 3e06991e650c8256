package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mathforge/curriculum-backend/internal/http/response"
	"github.com/mathforge/curriculum-backend/internal/services"
)

type ExerciseHandler struct {
	svc services.ExerciseService
}

func NewExerciseHandler(svc services.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{svc: svc}
}

// GET /api/exercises?search=...&offset=0&limit=20
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	params := services.ExerciseListParams{
		Search: c.Query("search"),
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_offset", err)
			return
		}
		params.Offset = offset
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		params.Limit = limit
	}

	page, err := h.svc.ListExercises(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, page)
}
