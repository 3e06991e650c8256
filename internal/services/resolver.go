package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mathforge/curriculum-backend/internal/data/repos"
	types "github.com/mathforge/curriculum-backend/internal/domain"
	pkgerrors "github.com/mathforge/curriculum-backend/internal/pkg/errors"
)

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func scopedKey(parentID uuid.UUID, name string) string {
	return parentID.String() + ":" + normalizeName(name)
}

// nameSet collects distinct names in first-seen order, keyed by their
// normalized form.
type nameSet struct {
	seen  map[string]struct{}
	names []string
}

func newNameSet() *nameSet {
	return &nameSet{seen: map[string]struct{}{}}
}

func (s *nameSet) Add(name string) {
	key := normalizeName(name)
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.names = append(s.names, name)
}

func (s *nameSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// hierarchyResolver resolves (scope, name) pairs to existing or newly created
// hierarchy nodes. One resolver is built per reconciliation run and thrown
// away with it; the memo maps guarantee at most one insert per distinct
// (scope, normalized name) within the run.
//
// When an insert hits the per-scope unique index (a concurrent run created
// the node first), the resolver re-fetches the winner instead of failing.
type hierarchyResolver struct {
	grades        repos.GradeRepo
	textbooks     repos.TextbookRepo
	units         repos.UnitRepo
	lessons       repos.LessonRepo
	formats       repos.FormatRepo
	exerciseTypes repos.ExerciseTypeRepo
	actor         string

	gradeMemo    map[string]*types.Grade
	textbookMemo map[string]*types.Textbook
	unitMemo     map[string]*types.Unit
	lessonMemo   map[string]*types.Lesson
	formatMemo   map[string]*types.Format
	typeMemo     map[string]*types.ExerciseType

	newGrades  *nameSet
	newUnits   *nameSet
	newLessons *nameSet
	newFormats *nameSet
	newTypes   *nameSet
}

func newHierarchyResolver(
	grades repos.GradeRepo,
	textbooks repos.TextbookRepo,
	units repos.UnitRepo,
	lessons repos.LessonRepo,
	formats repos.FormatRepo,
	exerciseTypes repos.ExerciseTypeRepo,
	actor string,
) *hierarchyResolver {
	return &hierarchyResolver{
		grades:        grades,
		textbooks:     textbooks,
		units:         units,
		lessons:       lessons,
		formats:       formats,
		exerciseTypes: exerciseTypes,
		actor:         actor,

		gradeMemo:    map[string]*types.Grade{},
		textbookMemo: map[string]*types.Textbook{},
		unitMemo:     map[string]*types.Unit{},
		lessonMemo:   map[string]*types.Lesson{},
		formatMemo:   map[string]*types.Format{},
		typeMemo:     map[string]*types.ExerciseType{},

		newGrades:  newNameSet(),
		newUnits:   newNameSet(),
		newLessons: newNameSet(),
		newFormats: newNameSet(),
		newTypes:   newNameSet(),
	}
}

func trimmedName(kind, name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%s name must not be empty: %w", kind, pkgerrors.ErrInvalidArgument)
	}
	return trimmed, nil
}

func (r *hierarchyResolver) Grade(ctx context.Context, tx *gorm.DB, name string) (*types.Grade, error) {
	trimmed, err := trimmedName("grade", name)
	if err != nil {
		return nil, err
	}

	key := normalizeName(trimmed)
	if cached, ok := r.gradeMemo[key]; ok {
		return cached, nil
	}

	grade, err := r.grades.FindActiveByName(ctx, tx, trimmed)
	if err != nil {
		return nil, err
	}
	if grade == nil {
		candidate := &types.Grade{Name: trimmed, CreatedBy: r.actor, UpdatedBy: r.actor}
		created, err := r.grades.CreateIfAbsent(ctx, tx, candidate)
		if err != nil {
			return nil, err
		}
		if created {
			grade = candidate
			r.newGrades.Add(trimmed)
		} else {
			grade, err = r.grades.FindActiveByName(ctx, tx, trimmed)
			if err != nil {
				return nil, err
			}
			if grade == nil {
				return nil, fmt.Errorf("grade %q missing after insert conflict", trimmed)
			}
		}
	}

	r.gradeMemo[key] = grade
	return grade, nil
}

func (r *hierarchyResolver) Textbook(ctx context.Context, tx *gorm.DB, gradeID uuid.UUID, name string) (*types.Textbook, error) {
	trimmed, err := trimmedName("textbook", name)
	if err != nil {
		return nil, err
	}

	key := scopedKey(gradeID, trimmed)
	if cached, ok := r.textbookMemo[key]; ok {
		return cached, nil
	}

	textbook, err := r.textbooks.FindActiveByName(ctx, tx, gradeID, trimmed)
	if err != nil {
		return nil, err
	}
	if textbook == nil {
		candidate := &types.Textbook{Name: trimmed, GradeID: gradeID, CreatedBy: r.actor, UpdatedBy: r.actor}
		created, err := r.textbooks.CreateIfAbsent(ctx, tx, candidate)
		if err != nil {
			return nil, err
		}
		if created {
			// Newly created textbooks are not tracked in the import report.
			textbook = candidate
		} else {
			textbook, err = r.textbooks.FindActiveByName(ctx, tx, gradeID, trimmed)
			if err != nil {
				return nil, err
			}
			if textbook == nil {
				return nil, fmt.Errorf("textbook %q missing after insert conflict", trimmed)
			}
		}
	}

	r.textbookMemo[key] = textbook
	return textbook, nil
}

func (r *hierarchyResolver) Unit(ctx context.Context, tx *gorm.DB, textbookID uuid.UUID, name string) (*types.Unit, error) {
	trimmed, err := trimmedName("unit", name)
	if err != nil {
		return nil, err
	}

	key := scopedKey(textbookID, trimmed)
	if cached, ok := r.unitMemo[key]; ok {
		return cached, nil
	}

	unit, err := r.units.FindActiveByName(ctx, tx, textbookID, trimmed)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		candidate := &types.Unit{Name: trimmed, TextbookID: textbookID, CreatedBy: r.actor, UpdatedBy: r.actor}
		created, err := r.units.CreateIfAbsent(ctx, tx, candidate)
		if err != nil {
			return nil, err
		}
		if created {
			unit = candidate
			r.newUnits.Add(trimmed)
		} else {
			unit, err = r.units.FindActiveByName(ctx, tx, textbookID, trimmed)
			if err != nil {
				return nil, err
			}
			if unit == nil {
				return nil, fmt.Errorf("unit %q missing after insert conflict", trimmed)
			}
		}
	}

	r.unitMemo[key] = unit
	return unit, nil
}

func (r *hierarchyResolver) Lesson(ctx context.Context, tx *gorm.DB, unitID uuid.UUID, name string) (*types.Lesson, error) {
	trimmed, err := trimmedName("lesson", name)
	if err != nil {
		return nil, err
	}

	key := scopedKey(unitID, trimmed)
	if cached, ok := r.lessonMemo[key]; ok {
		return cached, nil
	}

	lesson, err := r.lessons.FindActiveByName(ctx, tx, unitID, trimmed)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		candidate := &types.Lesson{Name: trimmed, UnitID: unitID, CreatedBy: r.actor, UpdatedBy: r.actor}
		created, err := r.lessons.CreateIfAbsent(ctx, tx, candidate)
		if err != nil {
			return nil, err
		}
		if created {
			lesson = candidate
			r.newLessons.Add(trimmed)
		} else {
			lesson, err = r.lessons.FindActiveByName(ctx, tx, unitID, trimmed)
			if err != nil {
				return nil, err
			}
			if lesson == nil {
				return nil, fmt.Errorf("lesson %q missing after insert conflict", trimmed)
			}
		}
	}

	r.lessonMemo[key] = lesson
	return lesson, nil
}

func (r *hierarchyResolver) Format(ctx context.Context, tx *gorm.DB, name string) (*types.Format, error) {
	trimmed, err := trimmedName("format", name)
	if err != nil {
		return nil, err
	}

	key := normalizeName(trimmed)
	if cached, ok := r.formatMemo[key]; ok {
		return cached, nil
	}

	format, err := r.formats.FindActiveByName(ctx, tx, trimmed)
	if err != nil {
		return nil, err
	}
	if format == nil {
		candidate := &types.Format{Name: trimmed, CreatedBy: r.actor, UpdatedBy: r.actor}
		created, err := r.formats.CreateIfAbsent(ctx, tx, candidate)
		if err != nil {
			return nil, err
		}
		if created {
			format = candidate
			r.newFormats.Add(trimmed)
		} else {
			format, err = r.formats.FindActiveByName(ctx, tx, trimmed)
			if err != nil {
				return nil, err
			}
			if format == nil {
				return nil, fmt.Errorf("format %q missing after insert conflict", trimmed)
			}
		}
	}

	r.formatMemo[key] = format
	return format, nil
}

func (r *hierarchyResolver) ExerciseType(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, name string) (*types.ExerciseType, error) {
	trimmed, err := trimmedName("exercise type", name)
	if err != nil {
		return nil, err
	}

	key := scopedKey(lessonID, trimmed)
	if cached, ok := r.typeMemo[key]; ok {
		return cached, nil
	}

	exerciseType, err := r.exerciseTypes.FindActiveByName(ctx, tx, lessonID, trimmed)
	if err != nil {
		return nil, err
	}
	if exerciseType == nil {
		candidate := &types.ExerciseType{Name: trimmed, LessonID: &lessonID, CreatedBy: r.actor, UpdatedBy: r.actor}
		created, err := r.exerciseTypes.CreateIfAbsent(ctx, tx, candidate)
		if err != nil {
			return nil, err
		}
		if created {
			exerciseType = candidate
			r.newTypes.Add(trimmed)
		} else {
			exerciseType, err = r.exerciseTypes.FindActiveByName(ctx, tx, lessonID, trimmed)
			if err != nil {
				return nil, err
			}
			if exerciseType == nil {
				return nil, fmt.Errorf("exercise type %q missing after insert conflict", trimmed)
			}
		}
	}

	r.typeMemo[key] = exerciseType
	return exerciseType, nil
}
