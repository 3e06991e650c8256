package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mathforge/curriculum-backend/internal/data/repos"
	"github.com/mathforge/curriculum-backend/internal/data/repos/testutil"
	pkgerrors "github.com/mathforge/curriculum-backend/internal/pkg/errors"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Algebra", "algebra"},
		{"  Algebra  ", "algebra"},
		{"ALGEBRA I", "algebra i"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := normalizeName(tc.in); got != tc.want {
			t.Errorf("normalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNameSet(t *testing.T) {
	s := newNameSet()
	s.Add("Algebra")
	s.Add("algebra")
	s.Add("  ALGEBRA ")
	s.Add("Geometry")

	got := s.Names()
	if len(got) != 2 {
		t.Fatalf("expected 2 distinct names, got %v", got)
	}
	if got[0] != "Algebra" || got[1] != "Geometry" {
		t.Fatalf("expected first-seen order and casing, got %v", got)
	}

	empty := newNameSet().Names()
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", empty)
	}
}

func TestScopedKey(t *testing.T) {
	id := uuid.New()
	if scopedKey(id, " Fractions ") != scopedKey(id, "fractions") {
		t.Fatal("expected scoped keys to normalize the name")
	}
	if scopedKey(uuid.New(), "fractions") == scopedKey(uuid.New(), "fractions") {
		t.Fatal("expected different parents to yield different keys")
	}
}

// testRepos bundles the repo set over one rollback transaction.
type testRepos struct {
	db            *gorm.DB
	grades        repos.GradeRepo
	textbooks     repos.TextbookRepo
	units         repos.UnitRepo
	lessons       repos.LessonRepo
	formats       repos.FormatRepo
	exerciseTypes repos.ExerciseTypeRepo
	exercises     repos.ExerciseRepo
}

func newTestRepos(tb testing.TB) testRepos {
	tb.Helper()
	db := testutil.DB(tb)
	tx := testutil.Tx(tb, db)
	log := testutil.Logger(tb)
	return testRepos{
		db:            tx,
		grades:        repos.NewGradeRepo(tx, log),
		textbooks:     repos.NewTextbookRepo(tx, log),
		units:         repos.NewUnitRepo(tx, log),
		lessons:       repos.NewLessonRepo(tx, log),
		formats:       repos.NewFormatRepo(tx, log),
		exerciseTypes: repos.NewExerciseTypeRepo(tx, log),
		exercises:     repos.NewExerciseRepo(tx, log),
	}
}

func newTestResolver(tb testing.TB) (*hierarchyResolver, testRepos) {
	tb.Helper()
	set := newTestRepos(tb)
	r := newHierarchyResolver(set.grades, set.textbooks, set.units, set.lessons, set.formats, set.exerciseTypes, "resolver-test")
	return r, set
}

func TestHierarchyResolverCreatesOnceAndMemoizes(t *testing.T) {
	r, _ := newTestResolver(t)
	ctx := context.Background()

	first, err := r.Grade(ctx, nil, "Grade 5")
	if err != nil {
		t.Fatalf("resolve grade: %v", err)
	}
	second, err := r.Grade(ctx, nil, "  grade 5 ")
	if err != nil {
		t.Fatalf("resolve grade again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatal("expected variants of the same name to resolve to one grade")
	}
	if got := r.newGrades.Names(); len(got) != 1 || got[0] != "Grade 5" {
		t.Fatalf("expected one new grade with original casing, got %v", got)
	}

	book, err := r.Textbook(ctx, nil, first.ID, "Math Path")
	if err != nil {
		t.Fatalf("resolve textbook: %v", err)
	}
	again, err := r.Textbook(ctx, nil, first.ID, "MATH PATH")
	if err != nil {
		t.Fatalf("resolve textbook again: %v", err)
	}
	if book.ID != again.ID {
		t.Fatal("expected textbook to be reused within the grade")
	}
}

func TestHierarchyResolverReusesExistingRows(t *testing.T) {
	r, set := newTestResolver(t)
	ctx := context.Background()

	seeded := testutil.SeedGrade(t, ctx, set.db, "Existing Grade")

	resolved, err := r.Grade(ctx, nil, "existing grade")
	if err != nil {
		t.Fatalf("resolve grade: %v", err)
	}
	if resolved.ID != seeded.ID {
		t.Fatal("expected resolver to reuse the seeded grade")
	}
	if got := r.newGrades.Names(); len(got) != 0 {
		t.Fatalf("reused grade must not be reported as new, got %v", got)
	}
}

func TestHierarchyResolverRejectsEmptyNames(t *testing.T) {
	r, _ := newTestResolver(t)
	ctx := context.Background()

	if _, err := r.Grade(ctx, nil, "   "); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for blank grade, got %v", err)
	}
	if _, err := r.Format(ctx, nil, ""); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for blank format, got %v", err)
	}
}
