package curriculum_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	types "github.com/mathforge/curriculum-backend/internal/domain"

	"github.com/mathforge/curriculum-backend/internal/data/repos/curriculum"
	"github.com/mathforge/curriculum-backend/internal/data/repos/testutil"
)

func TestGradeRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	repo := curriculum.NewGradeRepo(db, log)

	grade := &types.Grade{Name: "Grade 7", CreatedBy: testutil.Actor, UpdatedBy: testutil.Actor}
	created, err := repo.CreateIfAbsent(ctx, tx, grade)
	if err != nil {
		t.Fatalf("CreateIfAbsent: %v", err)
	}
	if !created {
		t.Fatal("expected first insert to create the grade")
	}

	// Same name with different casing must hit the partial unique index.
	dup := &types.Grade{Name: "grade 7", CreatedBy: testutil.Actor, UpdatedBy: testutil.Actor}
	created, err = repo.CreateIfAbsent(ctx, tx, dup)
	if err != nil {
		t.Fatalf("CreateIfAbsent duplicate: %v", err)
	}
	if created {
		t.Fatal("expected duplicate insert to be rejected")
	}

	found, err := repo.FindActiveByName(ctx, tx, "  GRADE 7  ")
	if err != nil {
		t.Fatalf("FindActiveByName: %v", err)
	}
	if found == nil || found.ID != grade.ID {
		t.Fatalf("expected to find grade %s, got %+v", grade.ID, found)
	}

	byID, err := repo.GetActiveByID(ctx, tx, grade.ID)
	if err != nil {
		t.Fatalf("GetActiveByID: %v", err)
	}
	if byID == nil {
		t.Fatal("expected grade by id")
	}

	if err := repo.Retire(ctx, tx, grade.ID, "merge-actor"); err != nil {
		t.Fatalf("Retire: %v", err)
	}
	found, err = repo.FindActiveByName(ctx, tx, "Grade 7")
	if err != nil {
		t.Fatalf("FindActiveByName after retire: %v", err)
	}
	if found != nil {
		t.Fatal("retired grade must not resolve by name")
	}

	// With the old row retired the name is free again.
	again := &types.Grade{Name: "Grade 7", CreatedBy: testutil.Actor, UpdatedBy: testutil.Actor}
	created, err = repo.CreateIfAbsent(ctx, tx, again)
	if err != nil {
		t.Fatalf("CreateIfAbsent after retire: %v", err)
	}
	if !created {
		t.Fatal("expected name to be reusable after retire")
	}
}

func TestGradeRepoGetActiveTree(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	repo := curriculum.NewGradeRepo(db, log)

	grade := testutil.SeedGrade(t, ctx, tx, "Tree Grade")
	textbook := testutil.SeedTextbook(t, ctx, tx, grade.ID, "Tree Textbook")
	unit := testutil.SeedUnit(t, ctx, tx, textbook.ID, "Tree Unit")
	lesson := testutil.SeedLesson(t, ctx, tx, unit.ID, "Tree Lesson")
	testutil.SeedExerciseType(t, ctx, tx, lesson.ID, "Tree Type")

	retired := testutil.SeedTextbook(t, ctx, tx, grade.ID, "Retired Textbook")
	if err := tx.WithContext(ctx).Where("id = ?", retired.ID).Delete(&types.Textbook{}).Error; err != nil {
		t.Fatalf("soft delete textbook: %v", err)
	}

	grades, err := repo.GetActiveTree(ctx, tx, []uuid.UUID{grade.ID})
	if err != nil {
		t.Fatalf("GetActiveTree: %v", err)
	}
	if len(grades) != 1 {
		t.Fatalf("expected 1 grade, got %d", len(grades))
	}
	root := grades[0]
	if len(root.Textbooks) != 1 {
		t.Fatalf("expected retired textbook excluded, got %d textbooks", len(root.Textbooks))
	}
	if len(root.Textbooks[0].Units) != 1 ||
		len(root.Textbooks[0].Units[0].Lessons) != 1 ||
		len(root.Textbooks[0].Units[0].Lessons[0].ExerciseTypes) != 1 {
		t.Fatal("expected full chain textbook > unit > lesson > type")
	}
}
