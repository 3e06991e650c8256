package repos

import (
	"github.com/mathforge/curriculum-backend/internal/data/repos/curriculum"
)

type GradeRepo = curriculum.GradeRepo
type TextbookRepo = curriculum.TextbookRepo
type UnitRepo = curriculum.UnitRepo
type LessonRepo = curriculum.LessonRepo
type FormatRepo = curriculum.FormatRepo
type ExerciseTypeRepo = curriculum.ExerciseTypeRepo
type ExerciseRepo = curriculum.ExerciseRepo

type ExerciseSearchParams = curriculum.ExerciseSearchParams

var NewGradeRepo = curriculum.NewGradeRepo
var NewTextbookRepo = curriculum.NewTextbookRepo
var NewUnitRepo = curriculum.NewUnitRepo
var NewLessonRepo = curriculum.NewLessonRepo
var NewFormatRepo = curriculum.NewFormatRepo
var NewExerciseTypeRepo = curriculum.NewExerciseTypeRepo
var NewExerciseRepo = curriculum.NewExerciseRepo
