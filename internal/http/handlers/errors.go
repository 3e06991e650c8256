package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mathforge/curriculum-backend/internal/http/response"
	"github.com/mathforge/curriculum-backend/internal/platform/apierr"
	pkgerrors "github.com/mathforge/curriculum-backend/internal/pkg/errors"
)

// respondServiceError translates service-layer failures to HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		response.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Err)
		return
	}
	switch {
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerrors.ErrConflict):
		response.RespondError(c, http.StatusConflict, "conflict", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
