package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mathforge/curriculum-backend/internal/data/repos/testutil"
	types "github.com/mathforge/curriculum-backend/internal/domain"
	pkgerrors "github.com/mathforge/curriculum-backend/internal/pkg/errors"
)

func newImportService(tb testing.TB) (ExerciseImportService, testRepos) {
	tb.Helper()
	set := newTestRepos(tb)
	svc := NewExerciseImportService(
		set.db,
		set.grades,
		set.textbooks,
		set.units,
		set.lessons,
		set.formats,
		set.exerciseTypes,
		set.exercises,
		testutil.Logger(tb),
	)
	return svc, set
}

func importRowFixture(question, key string) ImportRow {
	return ImportRow{
		Grade:    "Grade 6",
		Textbook: "Number Sense",
		Unit:     "Fractions",
		Lesson:   "Adding Fractions",
		Format:   "Multiple Choice",
		Type:     "Warmup",
		Question: question,
		Solution: "solution text",
		Key:      key,
	}
}

func TestImportExercisesEmptyInput(t *testing.T) {
	svc, _ := newImportService(t)

	report, err := svc.ImportExercises(context.Background(), nil, "importer")
	if err != nil {
		t.Fatalf("ImportExercises: %v", err)
	}
	if report.Inserted != 0 {
		t.Fatalf("expected nothing inserted, got %d", report.Inserted)
	}
	if report.DuplicateExercise == nil || report.NewGrades == nil || report.NewTypes == nil {
		t.Fatal("report slices must be empty, not nil")
	}
}

func TestImportExercisesValidation(t *testing.T) {
	svc, _ := newImportService(t)
	ctx := context.Background()

	row := importRowFixture("Q", "k")
	if _, err := svc.ImportExercises(ctx, []ImportRow{row}, "  "); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for blank actor, got %v", err)
	}

	row.Lesson = "   "
	if _, err := svc.ImportExercises(ctx, []ImportRow{row}, "importer"); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for blank lesson, got %v", err)
	}
}

func TestImportExercisesAcceptsEmptySolutionAndKey(t *testing.T) {
	svc, set := newImportService(t)
	ctx := context.Background()

	row := importRowFixture("Sketch the graph of y = x^2", "")
	row.Solution = ""

	report, err := svc.ImportExercises(ctx, []ImportRow{row}, "importer")
	if err != nil {
		t.Fatalf("ImportExercises: %v", err)
	}
	if report.Inserted != 1 {
		t.Fatalf("expected row with empty solution and key inserted, got %+v", report)
	}

	var stored []*types.Exercise
	if err := set.db.WithContext(ctx).Find(&stored).Error; err != nil {
		t.Fatalf("load exercises: %v", err)
	}
	if len(stored) != 1 || stored[0].Solution != "" || stored[0].Key != "" {
		t.Fatalf("expected empty solution and key stored as-is, got %+v", stored)
	}
}

func TestImportExercisesCreatesHierarchyAndReports(t *testing.T) {
	svc, set := newImportService(t)
	ctx := context.Background()

	rows := []ImportRow{
		importRowFixture("What is 1/2 + 1/4?", "frac-add-1"),
		importRowFixture("What is 1/3 + 1/6?", "frac-add-2"),
	}
	rows[1].Type = ""

	report, err := svc.ImportExercises(ctx, rows, "importer")
	if err != nil {
		t.Fatalf("ImportExercises: %v", err)
	}
	if report.Inserted != 2 {
		t.Fatalf("expected 2 inserted, got %d", report.Inserted)
	}
	if len(report.DuplicateExercise) != 0 {
		t.Fatalf("expected no duplicates, got %v", report.DuplicateExercise)
	}
	if len(report.NewGrades) != 1 || report.NewGrades[0] != "Grade 6" {
		t.Fatalf("expected new grade reported once, got %v", report.NewGrades)
	}
	if len(report.NewUnits) != 1 || len(report.NewLessons) != 1 || len(report.NewFormats) != 1 {
		t.Fatalf("expected each hierarchy name reported once, got %+v", report)
	}
	if len(report.NewTypes) != 1 || report.NewTypes[0] != "Warmup" {
		t.Fatalf("expected new type reported, got %v", report.NewTypes)
	}

	var count int64
	if err := set.db.WithContext(ctx).Model(&types.Exercise{}).Count(&count).Error; err != nil {
		t.Fatalf("count exercises: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 exercises stored, got %d", count)
	}

	var stored []*types.Exercise
	if err := set.db.WithContext(ctx).Order("created_at ASC").Find(&stored).Error; err != nil {
		t.Fatalf("load exercises: %v", err)
	}
	for _, e := range stored {
		if e.CreatedBy != "importer" || e.UpdatedBy != "importer" {
			t.Fatalf("expected audit columns stamped with the actor, got %+v", e)
		}
		if len(e.Metadata) == 0 {
			t.Fatal("expected import provenance metadata on the exercise")
		}
	}
	if stored[0].TypeID == nil {
		t.Fatal("expected first exercise linked to its type")
	}
	if stored[1].TypeID != nil {
		t.Fatal("expected second exercise without a type")
	}
}

func TestImportExercisesRollsBackOnMidBatchFailure(t *testing.T) {
	svc, set := newImportService(t)
	ctx := context.Background()

	good := importRowFixture("Rollback question", "rb-1")
	bad := importRowFixture("Doomed question", "rb-2")
	// Exceeds the varchar(255) grade column, failing the insert mid-batch.
	bad.Grade = strings.Repeat("x", 300)

	if _, err := svc.ImportExercises(ctx, []ImportRow{good, bad}, "importer"); err == nil {
		t.Fatal("expected mid-batch store failure to surface")
	}

	var grades, exercises int64
	if err := set.db.WithContext(ctx).Model(&types.Grade{}).Count(&grades).Error; err != nil {
		t.Fatalf("count grades: %v", err)
	}
	if err := set.db.WithContext(ctx).Model(&types.Exercise{}).Count(&exercises).Error; err != nil {
		t.Fatalf("count exercises: %v", err)
	}
	if grades != 0 || exercises != 0 {
		t.Fatalf("expected the whole batch rolled back, got %d grades and %d exercises", grades, exercises)
	}
}

func TestImportExercisesRerunIsAllDuplicates(t *testing.T) {
	svc, _ := newImportService(t)
	ctx := context.Background()

	rows := []ImportRow{importRowFixture("What is 1/2 + 1/4?", "frac-add-1")}
	if _, err := svc.ImportExercises(ctx, rows, "importer"); err != nil {
		t.Fatalf("first import: %v", err)
	}

	// Same payload, shuffled casing. Nothing new may be created.
	rerun := rows
	rerun[0].Question = "WHAT IS 1/2 + 1/4?"
	rerun[0].Key = "FRAC-ADD-1"
	rerun[0].Grade = "grade 6"

	report, err := svc.ImportExercises(ctx, rerun, "importer")
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if report.Inserted != 0 {
		t.Fatalf("expected rerun to insert nothing, got %d", report.Inserted)
	}
	if len(report.DuplicateExercise) != 1 {
		t.Fatalf("expected 1 duplicate, got %d", len(report.DuplicateExercise))
	}
	if len(report.NewGrades)+len(report.NewUnits)+len(report.NewLessons)+len(report.NewFormats)+len(report.NewTypes) != 0 {
		t.Fatalf("expected no new hierarchy names on rerun, got %+v", report)
	}
}
