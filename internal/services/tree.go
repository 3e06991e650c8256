package services

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mathforge/curriculum-backend/internal/data/repos"
	types "github.com/mathforge/curriculum-backend/internal/domain"
	"github.com/mathforge/curriculum-backend/internal/pkg/logger"
)

type TreeExerciseType struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type TreeLesson struct {
	ID    uuid.UUID          `json:"id"`
	Name  string             `json:"name"`
	Types []TreeExerciseType `json:"types"`
}

type TreeUnit struct {
	ID      uuid.UUID    `json:"id"`
	Name    string       `json:"name"`
	Lessons []TreeLesson `json:"lessons"`
}

type TreeTextbook struct {
	ID    uuid.UUID  `json:"id"`
	Name  string     `json:"name"`
	Units []TreeUnit `json:"units"`
}

type TreeGrade struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Textbooks []TreeTextbook `json:"textbooks"`
}

type TreeService interface {
	ListTree(ctx context.Context, gradeIDs []uuid.UUID) ([]TreeGrade, error)
}

type treeService struct {
	grades repos.GradeRepo
	log    *logger.Logger
}

func NewTreeService(grades repos.GradeRepo, log *logger.Logger) TreeService {
	return &treeService{grades: grades, log: log}
}

// ListTree projects the active hierarchy into nested name/id nodes, every
// sibling list ordered with locale-aware comparison. Retired rows never
// appear; the soft-delete filter on every preload sees to that.
func (s *treeService) ListTree(ctx context.Context, gradeIDs []uuid.UUID) ([]TreeGrade, error) {
	grades, err := s.grades.GetActiveTree(ctx, nil, gradeIDs)
	if err != nil {
		return nil, err
	}

	coll := collate.New(language.Und, collate.IgnoreCase)

	out := make([]TreeGrade, 0, len(grades))
	for _, grade := range grades {
		out = append(out, TreeGrade{
			ID:        grade.ID,
			Name:      grade.Name,
			Textbooks: buildTextbooks(coll, grade.Textbooks),
		})
	}
	sortByName(coll, out, func(g TreeGrade) string { return g.Name })
	return out, nil
}

func buildTextbooks(coll *collate.Collator, textbooks []*types.Textbook) []TreeTextbook {
	out := make([]TreeTextbook, 0, len(textbooks))
	for _, textbook := range textbooks {
		out = append(out, TreeTextbook{
			ID:    textbook.ID,
			Name:  textbook.Name,
			Units: buildUnits(coll, textbook.Units),
		})
	}
	sortByName(coll, out, func(t TreeTextbook) string { return t.Name })
	return out
}

func buildUnits(coll *collate.Collator, units []*types.Unit) []TreeUnit {
	out := make([]TreeUnit, 0, len(units))
	for _, unit := range units {
		out = append(out, TreeUnit{
			ID:      unit.ID,
			Name:    unit.Name,
			Lessons: buildLessons(coll, unit.Lessons),
		})
	}
	sortByName(coll, out, func(u TreeUnit) string { return u.Name })
	return out
}

func buildLessons(coll *collate.Collator, lessons []*types.Lesson) []TreeLesson {
	out := make([]TreeLesson, 0, len(lessons))
	for _, lesson := range lessons {
		out = append(out, TreeLesson{
			ID:    lesson.ID,
			Name:  lesson.Name,
			Types: buildTypes(coll, lesson.ExerciseTypes),
		})
	}
	sortByName(coll, out, func(l TreeLesson) string { return l.Name })
	return out
}

func buildTypes(coll *collate.Collator, exerciseTypes []*types.ExerciseType) []TreeExerciseType {
	out := make([]TreeExerciseType, 0, len(exerciseTypes))
	for _, et := range exerciseTypes {
		out = append(out, TreeExerciseType{ID: et.ID, Name: et.Name})
	}
	sortByName(coll, out, func(t TreeExerciseType) string { return t.Name })
	return out
}

func sortByName[T any](coll *collate.Collator, items []T, name func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return coll.CompareString(name(items[i]), name(items[j])) < 0
	})
}
