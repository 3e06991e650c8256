package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mathforge/curriculum-backend/internal/data/repos"
	pkgerrors "github.com/mathforge/curriculum-backend/internal/pkg/errors"
	"github.com/mathforge/curriculum-backend/internal/pkg/logger"
)

// MergeTable names a hierarchy level that supports merging two of its nodes.
type MergeTable string

const (
	MergeGrade        MergeTable = "grade"
	MergeUnit         MergeTable = "unit"
	MergeLesson       MergeTable = "lesson"
	MergeFormat       MergeTable = "format"
	MergeExerciseType MergeTable = "exerciseType"
)

func ParseMergeTable(raw string) (MergeTable, error) {
	switch MergeTable(strings.TrimSpace(raw)) {
	case MergeGrade:
		return MergeGrade, nil
	case MergeUnit:
		return MergeUnit, nil
	case MergeLesson:
		return MergeLesson, nil
	case MergeFormat:
		return MergeFormat, nil
	case MergeExerciseType:
		return MergeExerciseType, nil
	default:
		return "", fmt.Errorf("unknown merge table %q: %w", raw, pkgerrors.ErrInvalidArgument)
	}
}

// MergeReport records what a merge touched: how many dependents were moved to
// the destination, per dependent kind, and that the source was retired.
type MergeReport struct {
	Table         MergeTable       `json:"table"`
	SourceID      uuid.UUID        `json:"sourceId"`
	DestinationID uuid.UUID        `json:"destinationId"`
	UpdatedCounts map[string]int64 `json:"updatedCounts"`
	Deleted       bool             `json:"deleted"`
}

type MergeService interface {
	Merge(ctx context.Context, table MergeTable, sourceID, destinationID uuid.UUID, actor string) (*MergeReport, error)
}

type mergeRewrite struct {
	countKey string
	reassign func(ctx context.Context, tx *gorm.DB, sourceID, destinationID uuid.UUID, actor string) (int64, error)
}

type mergeTarget struct {
	label    string
	exists   func(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
	retire   func(ctx context.Context, tx *gorm.DB, id uuid.UUID, actor string) error
	rewrites []mergeRewrite
}

type mergeService struct {
	db      *gorm.DB
	targets map[MergeTable]mergeTarget
	log     *logger.Logger
}

func NewMergeService(
	db *gorm.DB,
	grades repos.GradeRepo,
	units repos.UnitRepo,
	lessons repos.LessonRepo,
	formats repos.FormatRepo,
	exerciseTypes repos.ExerciseTypeRepo,
	textbooks repos.TextbookRepo,
	exercises repos.ExerciseRepo,
	log *logger.Logger,
) MergeService {
	targets := map[MergeTable]mergeTarget{
		MergeGrade: {
			label: "grade",
			exists: func(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
				row, err := grades.GetActiveByID(ctx, tx, id)
				return row != nil, err
			},
			retire: grades.Retire,
			rewrites: []mergeRewrite{
				{countKey: "textbooks", reassign: textbooks.ReassignGrade},
			},
		},
		MergeUnit: {
			label: "unit",
			exists: func(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
				row, err := units.GetActiveByID(ctx, tx, id)
				return row != nil, err
			},
			retire: units.Retire,
			rewrites: []mergeRewrite{
				{countKey: "lessons", reassign: lessons.ReassignUnit},
			},
		},
		MergeLesson: {
			label: "lesson",
			exists: func(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
				row, err := lessons.GetActiveByID(ctx, tx, id)
				return row != nil, err
			},
			retire: lessons.Retire,
			rewrites: []mergeRewrite{
				{countKey: "exercises", reassign: exercises.ReassignLesson},
				{countKey: "exerciseTypes", reassign: exerciseTypes.ReassignLesson},
			},
		},
		MergeFormat: {
			label: "format",
			exists: func(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
				row, err := formats.GetActiveByID(ctx, tx, id)
				return row != nil, err
			},
			retire: formats.Retire,
			rewrites: []mergeRewrite{
				{countKey: "exercises", reassign: exercises.ReassignFormat},
			},
		},
		MergeExerciseType: {
			label: "exercise type",
			exists: func(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
				row, err := exerciseTypes.GetActiveByID(ctx, tx, id)
				return row != nil, err
			},
			retire: exerciseTypes.Retire,
			rewrites: []mergeRewrite{
				{countKey: "exercises", reassign: exercises.ReassignType},
			},
		},
	}
	return &mergeService{db: db, targets: targets, log: log}
}

// Merge moves every dependent of source onto destination and retires source,
// all in one transaction. Both nodes must be active rows of the same level.
func (s *mergeService) Merge(ctx context.Context, table MergeTable, sourceID, destinationID uuid.UUID, actor string) (*MergeReport, error) {
	target, ok := s.targets[table]
	if !ok {
		return nil, fmt.Errorf("unknown merge table %q: %w", table, pkgerrors.ErrInvalidArgument)
	}
	if strings.TrimSpace(actor) == "" {
		return nil, fmt.Errorf("actor is required: %w", pkgerrors.ErrInvalidArgument)
	}
	if sourceID == destinationID {
		return nil, fmt.Errorf("source and destination must differ: %w", pkgerrors.ErrInvalidArgument)
	}

	report := &MergeReport{
		Table:         table,
		SourceID:      sourceID,
		DestinationID: destinationID,
		UpdatedCounts: map[string]int64{},
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, side := range []struct {
			name string
			id   uuid.UUID
		}{
			{"source", sourceID},
			{"destination", destinationID},
		} {
			exists, err := target.exists(ctx, tx, side.id)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("%s %s %s: %w", side.name, target.label, side.id, pkgerrors.ErrNotFound)
			}
		}

		for _, rewrite := range target.rewrites {
			count, err := rewrite.reassign(ctx, tx, sourceID, destinationID, actor)
			if err != nil {
				return err
			}
			report.UpdatedCounts[rewrite.countKey] = count
		}

		if err := target.retire(ctx, tx, sourceID, actor); err != nil {
			return err
		}
		report.Deleted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("merge completed",
		"table", string(table),
		"source_id", sourceID,
		"destination_id", destinationID,
		"updated", report.UpdatedCounts,
	)
	return report, nil
}
