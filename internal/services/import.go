package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mathforge/curriculum-backend/internal/data/repos"
	types "github.com/mathforge/curriculum-backend/internal/domain"
	pkgerrors "github.com/mathforge/curriculum-backend/internal/pkg/errors"
	"github.com/mathforge/curriculum-backend/internal/pkg/logger"
)

// ImportRow is one exercise in a bulk import payload. Hierarchy fields carry
// display names; the reconciler resolves them to nodes, creating missing ones.
type ImportRow struct {
	Grade    string `json:"grade"`
	Textbook string `json:"textbook"`
	Unit     string `json:"unit"`
	Lesson   string `json:"lesson"`
	Format   string `json:"format"`
	Type     string `json:"type,omitempty"`
	Question string `json:"question"`
	Solution string `json:"solution"`
	Key      string `json:"key"`
	HasImage bool   `json:"hasImage"`
}

// ImportReport summarizes a reconciliation run: how many exercises landed,
// which rows were skipped as duplicates, and which hierarchy names were
// created along the way.
type ImportReport struct {
	Inserted          int         `json:"inserted"`
	DuplicateExercise []ImportRow `json:"duplicateExercise"`
	NewGrades         []string    `json:"newGrades"`
	NewUnits          []string    `json:"newUnits"`
	NewLessons        []string    `json:"newLessons"`
	NewFormats        []string    `json:"newFormats"`
	NewTypes          []string    `json:"newTypes"`
}

type ExerciseImportService interface {
	ImportExercises(ctx context.Context, rows []ImportRow, actor string) (*ImportReport, error)
}

type exerciseImportService struct {
	db            *gorm.DB
	grades        repos.GradeRepo
	textbooks     repos.TextbookRepo
	units         repos.UnitRepo
	lessons       repos.LessonRepo
	formats       repos.FormatRepo
	exerciseTypes repos.ExerciseTypeRepo
	exercises     repos.ExerciseRepo
	log           *logger.Logger
}

func NewExerciseImportService(
	db *gorm.DB,
	grades repos.GradeRepo,
	textbooks repos.TextbookRepo,
	units repos.UnitRepo,
	lessons repos.LessonRepo,
	formats repos.FormatRepo,
	exerciseTypes repos.ExerciseTypeRepo,
	exercises repos.ExerciseRepo,
	log *logger.Logger,
) ExerciseImportService {
	return &exerciseImportService{
		db:            db,
		grades:        grades,
		textbooks:     textbooks,
		units:         units,
		lessons:       lessons,
		formats:       formats,
		exerciseTypes: exerciseTypes,
		exercises:     exercises,
		log:           log,
	}
}

// Solution and key may be empty; only the hierarchy names and the question
// are required.
func validateImportRow(i int, row ImportRow) error {
	required := []struct {
		field string
		value string
	}{
		{"grade", row.Grade},
		{"textbook", row.Textbook},
		{"unit", row.Unit},
		{"lesson", row.Lesson},
		{"format", row.Format},
		{"question", row.Question},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("row %d: %s is required: %w", i, f.field, pkgerrors.ErrInvalidArgument)
		}
	}
	return nil
}

func importProvenance(row ImportRow) (datatypes.JSON, error) {
	payload := map[string]string{
		"grade":    strings.TrimSpace(row.Grade),
		"textbook": strings.TrimSpace(row.Textbook),
		"unit":     strings.TrimSpace(row.Unit),
		"lesson":   strings.TrimSpace(row.Lesson),
		"format":   strings.TrimSpace(row.Format),
	}
	if t := strings.TrimSpace(row.Type); t != "" {
		payload["type"] = t
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// ImportExercises reconciles a batch of rows in a single transaction. Rows
// whose lesson already holds an exercise with the same question and key
// (case-insensitive) are reported as duplicates and skipped; everything else
// is inserted, creating any missing hierarchy nodes on the way down.
func (s *exerciseImportService) ImportExercises(ctx context.Context, rows []ImportRow, actor string) (*ImportReport, error) {
	report := &ImportReport{
		DuplicateExercise: []ImportRow{},
		NewGrades:         []string{},
		NewUnits:          []string{},
		NewLessons:        []string{},
		NewFormats:        []string{},
		NewTypes:          []string{},
	}
	if len(rows) == 0 {
		return report, nil
	}
	if strings.TrimSpace(actor) == "" {
		return nil, fmt.Errorf("actor is required: %w", pkgerrors.ErrInvalidArgument)
	}
	for i, row := range rows {
		if err := validateImportRow(i, row); err != nil {
			return nil, err
		}
	}

	resolver := newHierarchyResolver(s.grades, s.textbooks, s.units, s.lessons, s.formats, s.exerciseTypes, actor)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			grade, err := resolver.Grade(ctx, tx, row.Grade)
			if err != nil {
				return err
			}
			textbook, err := resolver.Textbook(ctx, tx, grade.ID, row.Textbook)
			if err != nil {
				return err
			}
			unit, err := resolver.Unit(ctx, tx, textbook.ID, row.Unit)
			if err != nil {
				return err
			}
			lesson, err := resolver.Lesson(ctx, tx, unit.ID, row.Lesson)
			if err != nil {
				return err
			}
			format, err := resolver.Format(ctx, tx, row.Format)
			if err != nil {
				return err
			}

			var exerciseType *types.ExerciseType
			if strings.TrimSpace(row.Type) != "" {
				exerciseType, err = resolver.ExerciseType(ctx, tx, lesson.ID, row.Type)
				if err != nil {
					return err
				}
			}

			duplicate, err := s.exercises.FindActiveDuplicate(ctx, tx, lesson.ID, row.Question, row.Key)
			if err != nil {
				return err
			}
			if duplicate != nil {
				report.DuplicateExercise = append(report.DuplicateExercise, row)
				continue
			}

			metadata, err := importProvenance(row)
			if err != nil {
				return err
			}
			exercise := &types.Exercise{
				Question:  row.Question,
				Solution:  row.Solution,
				Key:       row.Key,
				HasImage:  row.HasImage,
				LessonID:  lesson.ID,
				FormatID:  format.ID,
				Metadata:  metadata,
				CreatedBy: actor,
				UpdatedBy: actor,
			}
			if exerciseType != nil {
				exercise.TypeID = &exerciseType.ID
			}
			if _, err := s.exercises.Create(ctx, tx, []*types.Exercise{exercise}); err != nil {
				return err
			}
			report.Inserted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	report.NewGrades = resolver.newGrades.Names()
	report.NewUnits = resolver.newUnits.Names()
	report.NewLessons = resolver.newLessons.Names()
	report.NewFormats = resolver.newFormats.Names()
	report.NewTypes = resolver.newTypes.Names()

	s.log.Info("exercise import finished",
		"rows", len(rows),
		"inserted", report.Inserted,
		"duplicates", len(report.DuplicateExercise),
	)
	return report, nil
}
