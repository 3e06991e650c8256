package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/mathforge/curriculum-backend/internal/http/handlers"
	httpMW "github.com/mathforge/curriculum-backend/internal/http/middleware"
)

type RouterConfig struct {
	CORSOrigins []string
	SystemActor string

	ImportHandler   *httpH.CurriculumImportHandler
	MergeHandler    *httpH.CurriculumMergeHandler
	TreeHandler     *httpH.CurriculumTreeHandler
	ExerciseHandler *httpH.ExerciseHandler
	BackfillHandler *httpH.BackfillHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.AttachRequestContext(cfg.SystemActor))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Curriculum
		if cfg.ImportHandler != nil {
			api.POST("/curriculum/import", cfg.ImportHandler.Import)
		}
		if cfg.MergeHandler != nil {
			api.POST("/curriculum/merge", cfg.MergeHandler.Merge)
		}
		if cfg.TreeHandler != nil {
			api.GET("/curriculum/tree", cfg.TreeHandler.GetTree)
		}

		// Exercises
		if cfg.ExerciseHandler != nil {
			api.GET("/exercises", cfg.ExerciseHandler.ListExercises)
		}
		if cfg.BackfillHandler != nil {
			api.POST("/exercises/embeddings/backfill", cfg.BackfillHandler.Backfill)
		}
	}

	return r
}
