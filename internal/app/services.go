package app

import (
	"gorm.io/gorm"

	"github.com/mathforge/curriculum-backend/internal/pkg/logger"
	"github.com/mathforge/curriculum-backend/internal/platform/openai"
	"github.com/mathforge/curriculum-backend/internal/services"
)

type Services struct {
	Import   services.ExerciseImportService
	Merge    services.MergeService
	Tree     services.TreeService
	Exercise services.ExerciseService
	Backfill services.EmbeddingBackfillService
}

func wireServices(db *gorm.DB, log *logger.Logger, reposet Repos) Services {
	log.Info("Wiring services...")

	// Embeddings are optional; without a key the exercise list degrades to
	// substring search and the backfill endpoint rejects requests.
	var embedder services.EmbeddingService
	if client, err := openai.NewClient(log); err != nil {
		log.Warn("OpenAI client unavailable, semantic search disabled", "error", err)
	} else {
		embedder = client
	}

	return Services{
		Import: services.NewExerciseImportService(
			db,
			reposet.Grade,
			reposet.Textbook,
			reposet.Unit,
			reposet.Lesson,
			reposet.Format,
			reposet.ExerciseType,
			reposet.Exercise,
			log,
		),
		Merge: services.NewMergeService(
			db,
			reposet.Grade,
			reposet.Unit,
			reposet.Lesson,
			reposet.Format,
			reposet.ExerciseType,
			reposet.Textbook,
			reposet.Exercise,
			log,
		),
		Tree:     services.NewTreeService(reposet.Grade, log),
		Exercise: services.NewExerciseService(reposet.Exercise, embedder, log),
		Backfill: services.NewEmbeddingBackfillService(reposet.Exercise, embedder, log),
	}
}
