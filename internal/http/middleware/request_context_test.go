package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mathforge/curriculum-backend/internal/pkg/ctxutil"
)

func TestAttachRequestContextCopiesActor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var got string
	r := gin.New()
	r.Use(AttachRequestContext("system"))
	r.GET("/probe", func(c *gin.Context) {
		got = ctxutil.GetActorID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-Actor-Id", "  editor@example.org ")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if got != "editor@example.org" {
		t.Fatalf("unexpected actor: got=%q", got)
	}

	// Without the header the configured system identity takes over.
	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	if got != "system" {
		t.Fatalf("expected system actor fallback, got=%q", got)
	}
}
