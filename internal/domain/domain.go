package domain

import (
	"github.com/mathforge/curriculum-backend/internal/domain/curriculum"
)

type Grade = curriculum.Grade
type Textbook = curriculum.Textbook
type Unit = curriculum.Unit
type Lesson = curriculum.Lesson
type Format = curriculum.Format
type ExerciseType = curriculum.ExerciseType
type Exercise = curriculum.Exercise
