package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mathforge/curriculum-backend/internal/pkg/ctxutil"
)

const actorHeader = "X-Actor-Id"

// AttachRequestContext copies the acting-user header into the request context
// so audit columns downstream see who made the change. Requests without the
// header act as systemActor.
func AttachRequestContext(systemActor string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader(actorHeader))
		if actor == "" {
			actor = systemActor
		}
		if actor != "" {
			ctx := ctxutil.WithActorID(c.Request.Context(), actor)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
