package curriculum_test

import (
	"context"
	"testing"

	"github.com/pgvector/pgvector-go"

	"github.com/mathforge/curriculum-backend/internal/data/repos/curriculum"
	"github.com/mathforge/curriculum-backend/internal/data/repos/testutil"
	types "github.com/mathforge/curriculum-backend/internal/domain"
)

func TestExerciseRepoFindActiveDuplicate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	repo := curriculum.NewExerciseRepo(db, log)

	grade := testutil.SeedGrade(t, ctx, tx, "Dup Grade")
	textbook := testutil.SeedTextbook(t, ctx, tx, grade.ID, "Dup Textbook")
	unit := testutil.SeedUnit(t, ctx, tx, textbook.ID, "Dup Unit")
	lesson := testutil.SeedLesson(t, ctx, tx, unit.ID, "Dup Lesson")
	other := testutil.SeedLesson(t, ctx, tx, unit.ID, "Other Lesson")
	format := testutil.SeedFormat(t, ctx, tx, "Dup Format")

	testutil.SeedExercise(t, ctx, tx, lesson.ID, format.ID, "What is 2+2?", "arith-add")

	dup, err := repo.FindActiveDuplicate(ctx, tx, lesson.ID, "WHAT IS 2+2?", "ARITH-ADD")
	if err != nil {
		t.Fatalf("FindActiveDuplicate: %v", err)
	}
	if dup == nil {
		t.Fatal("expected case-insensitive duplicate match")
	}

	// Same question and key under a different lesson is not a duplicate.
	dup, err = repo.FindActiveDuplicate(ctx, tx, other.ID, "What is 2+2?", "arith-add")
	if err != nil {
		t.Fatalf("FindActiveDuplicate other lesson: %v", err)
	}
	if dup != nil {
		t.Fatal("duplicate detection must be scoped to the lesson")
	}

	// Same question, different key: not a duplicate.
	dup, err = repo.FindActiveDuplicate(ctx, tx, lesson.ID, "What is 2+2?", "arith-sub")
	if err != nil {
		t.Fatalf("FindActiveDuplicate different key: %v", err)
	}
	if dup != nil {
		t.Fatal("both question and key must match for a duplicate")
	}
}

func TestExerciseRepoReassign(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	repo := curriculum.NewExerciseRepo(db, log)

	grade := testutil.SeedGrade(t, ctx, tx, "Move Grade")
	textbook := testutil.SeedTextbook(t, ctx, tx, grade.ID, "Move Textbook")
	unit := testutil.SeedUnit(t, ctx, tx, textbook.ID, "Move Unit")
	src := testutil.SeedLesson(t, ctx, tx, unit.ID, "Source Lesson")
	dst := testutil.SeedLesson(t, ctx, tx, unit.ID, "Destination Lesson")
	format := testutil.SeedFormat(t, ctx, tx, "Move Format")

	testutil.SeedExercise(t, ctx, tx, src.ID, format.ID, "Q one", "k1")
	testutil.SeedExercise(t, ctx, tx, src.ID, format.ID, "Q two", "k2")
	testutil.SeedExercise(t, ctx, tx, dst.ID, format.ID, "Q three", "k3")

	moved, err := repo.ReassignLesson(ctx, tx, src.ID, dst.ID, "merge-actor")
	if err != nil {
		t.Fatalf("ReassignLesson: %v", err)
	}
	if moved != 2 {
		t.Fatalf("expected 2 rows moved, got %d", moved)
	}

	var count int64
	if err := tx.WithContext(ctx).Model(&types.Exercise{}).Where("lesson_id = ?", dst.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected destination to hold 3 exercises, got %d", count)
	}

	var stamped int64
	if err := tx.WithContext(ctx).Model(&types.Exercise{}).
		Where("lesson_id = ? AND updated_by = ?", dst.ID, "merge-actor").
		Count(&stamped).Error; err != nil {
		t.Fatalf("count stamped: %v", err)
	}
	if stamped != 2 {
		t.Fatalf("expected 2 rows stamped with merge actor, got %d", stamped)
	}
}

func TestExerciseRepoSearchSubstring(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	repo := curriculum.NewExerciseRepo(db, log)

	grade := testutil.SeedGrade(t, ctx, tx, "Search Grade")
	textbook := testutil.SeedTextbook(t, ctx, tx, grade.ID, "Search Textbook")
	unit := testutil.SeedUnit(t, ctx, tx, textbook.ID, "Search Unit")
	lesson := testutil.SeedLesson(t, ctx, tx, unit.ID, "Search Lesson")
	format := testutil.SeedFormat(t, ctx, tx, "Search Format")

	testutil.SeedExercise(t, ctx, tx, lesson.ID, format.ID, "Factor the quadratic", "quad-1")
	testutil.SeedExercise(t, ctx, tx, lesson.ID, format.ID, "Solve the linear equation", "lin-1")

	rows, total, err := repo.Search(ctx, tx, curriculum.ExerciseSearchParams{Search: "QUADRATIC", Limit: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("expected 1 match, got total=%d len=%d", total, len(rows))
	}
	if rows[0].Lesson == nil || rows[0].Lesson.Unit == nil ||
		rows[0].Lesson.Unit.Textbook == nil || rows[0].Lesson.Unit.Textbook.Grade == nil {
		t.Fatal("expected hierarchy preloads on search results")
	}
}

func TestExerciseRepoEmbeddings(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	repo := curriculum.NewExerciseRepo(db, log)

	grade := testutil.SeedGrade(t, ctx, tx, "Embed Grade")
	textbook := testutil.SeedTextbook(t, ctx, tx, grade.ID, "Embed Textbook")
	unit := testutil.SeedUnit(t, ctx, tx, textbook.ID, "Embed Unit")
	lesson := testutil.SeedLesson(t, ctx, tx, unit.ID, "Embed Lesson")
	format := testutil.SeedFormat(t, ctx, tx, "Embed Format")

	a := testutil.SeedExercise(t, ctx, tx, lesson.ID, format.ID, "Embed question A", "ea")
	testutil.SeedExercise(t, ctx, tx, lesson.ID, format.ID, "Embed question B", "eb")

	missing, err := repo.ListMissingEmbeddings(ctx, tx, 10, 0, true)
	if err != nil {
		t.Fatalf("ListMissingEmbeddings: %v", err)
	}
	if len(missing) != 2 {
		t.Fatalf("expected 2 rows missing embeddings, got %d", len(missing))
	}

	vec := make([]float32, 1536)
	vec[0] = 1
	if err := repo.UpdateQuestionEmbedding(ctx, tx, a.ID, pgvector.NewVector(vec)); err != nil {
		t.Fatalf("UpdateQuestionEmbedding: %v", err)
	}

	missing, err = repo.ListMissingEmbeddings(ctx, tx, 10, 0, true)
	if err != nil {
		t.Fatalf("ListMissingEmbeddings after update: %v", err)
	}
	if len(missing) != 1 {
		t.Fatalf("expected 1 row still missing an embedding, got %d", len(missing))
	}
}
