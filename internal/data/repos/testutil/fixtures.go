package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/mathforge/curriculum-backend/internal/domain"
)

const Actor = "test-actor"

func SeedGrade(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Grade {
	tb.Helper()
	g := &types.Grade{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: Actor,
		UpdatedBy: Actor,
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed grade: %v", err)
	}
	return g
}

func SeedTextbook(tb testing.TB, ctx context.Context, tx *gorm.DB, gradeID uuid.UUID, name string) *types.Textbook {
	tb.Helper()
	b := &types.Textbook{
		ID:        uuid.New(),
		Name:      name,
		GradeID:   gradeID,
		CreatedBy: Actor,
		UpdatedBy: Actor,
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed textbook: %v", err)
	}
	return b
}

func SeedUnit(tb testing.TB, ctx context.Context, tx *gorm.DB, textbookID uuid.UUID, name string) *types.Unit {
	tb.Helper()
	u := &types.Unit{
		ID:         uuid.New(),
		Name:       name,
		TextbookID: textbookID,
		CreatedBy:  Actor,
		UpdatedBy:  Actor,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed unit: %v", err)
	}
	return u
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, unitID uuid.UUID, name string) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		ID:        uuid.New(),
		Name:      name,
		UnitID:    unitID,
		CreatedBy: Actor,
		UpdatedBy: Actor,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedFormat(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Format {
	tb.Helper()
	f := &types.Format{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: Actor,
		UpdatedBy: Actor,
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed format: %v", err)
	}
	return f
}

func SeedExerciseType(tb testing.TB, ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, name string) *types.ExerciseType {
	tb.Helper()
	et := &types.ExerciseType{
		ID:        uuid.New(),
		Name:      name,
		LessonID:  &lessonID,
		CreatedBy: Actor,
		UpdatedBy: Actor,
	}
	if err := tx.WithContext(ctx).Create(et).Error; err != nil {
		tb.Fatalf("seed exercise type: %v", err)
	}
	return et
}

func SeedExercise(tb testing.TB, ctx context.Context, tx *gorm.DB, lessonID, formatID uuid.UUID, question, key string) *types.Exercise {
	tb.Helper()
	e := &types.Exercise{
		ID:        uuid.New(),
		LessonID:  lessonID,
		FormatID:  formatID,
		Question:  question,
		Solution:  "solution",
		Key:       key,
		CreatedBy: Actor,
		UpdatedBy: Actor,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed exercise: %v", err)
	}
	return e
}
