package app

import (
	"github.com/gin-gonic/gin"

	"github.com/mathforge/curriculum-backend/internal/http"
	httpH "github.com/mathforge/curriculum-backend/internal/http/handlers"
	"github.com/mathforge/curriculum-backend/internal/pkg/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Import   *httpH.CurriculumImportHandler
	Merge    *httpH.CurriculumMergeHandler
	Tree     *httpH.CurriculumTreeHandler
	Exercise *httpH.ExerciseHandler
	Backfill *httpH.BackfillHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(),
		Import:   httpH.NewCurriculumImportHandler(services.Import),
		Merge:    httpH.NewCurriculumMergeHandler(services.Merge),
		Tree:     httpH.NewCurriculumTreeHandler(services.Tree),
		Exercise: httpH.NewExerciseHandler(services.Exercise),
		Backfill: httpH.NewBackfillHandler(services.Backfill),
	}
}

func wireRouter(cfg Config, handlers Handlers) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		CORSOrigins:     cfg.CORSOrigins,
		SystemActor:     cfg.SystemActor,
		HealthHandler:   handlers.Health,
		ImportHandler:   handlers.Import,
		MergeHandler:    handlers.Merge,
		TreeHandler:     handlers.Tree,
		ExerciseHandler: handlers.Exercise,
		BackfillHandler: handlers.Backfill,
	})
}
