package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mathforge/curriculum-backend/internal/services"
)

type stubTreeService struct {
	grades []services.TreeGrade
	filter []uuid.UUID
}

func (s *stubTreeService) ListTree(ctx context.Context, gradeIDs []uuid.UUID) ([]services.TreeGrade, error) {
	s.filter = gradeIDs
	return s.grades, nil
}

func performTree(t *testing.T, svc services.TreeService, query string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	h := NewCurriculumTreeHandler(svc)
	r.GET("/api/curriculum/tree", h.GetTree)

	req := httptest.NewRequest(http.MethodGet, "/api/curriculum/tree"+query, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestTreeHandlerReturnsBareArray(t *testing.T) {
	stub := &stubTreeService{grades: []services.TreeGrade{
		{ID: uuid.New(), Name: "a grade", Textbooks: []services.TreeTextbook{}},
		{ID: uuid.New(), Name: "B Grade", Textbooks: []services.TreeTextbook{}},
	}}
	rec := performTree(t, stub, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}

	// The payload is the ordered array itself, not an envelope.
	var got []services.TreeGrade
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("expected a top-level array, got %s: %v", rec.Body.String(), err)
	}
	if len(got) != 2 || got[0].Name != "a grade" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestTreeHandlerParsesGradeFilter(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	stub := &stubTreeService{grades: []services.TreeGrade{}}

	rec := performTree(t, stub, "?gradeIds="+a.String()+","+b.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d", rec.Code)
	}
	if len(stub.filter) != 2 || stub.filter[0] != a || stub.filter[1] != b {
		t.Fatalf("unexpected filter: %v", stub.filter)
	}

	rec = performTree(t, stub, "?gradeIds=not-a-uuid")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status for bad id: got=%d", rec.Code)
	}
}
