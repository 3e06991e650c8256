package app

import (
	"gorm.io/gorm"

	"github.com/mathforge/curriculum-backend/internal/data/repos"
	"github.com/mathforge/curriculum-backend/internal/pkg/logger"
)

type Repos struct {
	Grade        repos.GradeRepo
	Textbook     repos.TextbookRepo
	Unit         repos.UnitRepo
	Lesson       repos.LessonRepo
	Format       repos.FormatRepo
	ExerciseType repos.ExerciseTypeRepo
	Exercise     repos.ExerciseRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Grade:        repos.NewGradeRepo(db, log),
		Textbook:     repos.NewTextbookRepo(db, log),
		Unit:         repos.NewUnitRepo(db, log),
		Lesson:       repos.NewLessonRepo(db, log),
		Format:       repos.NewFormatRepo(db, log),
		ExerciseType: repos.NewExerciseTypeRepo(db, log),
		Exercise:     repos.NewExerciseRepo(db, log),
	}
}
