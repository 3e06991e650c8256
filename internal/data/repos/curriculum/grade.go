package curriculum

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/mathforge/curriculum-backend/internal/domain"
	"github.com/mathforge/curriculum-backend/internal/pkg/logger"
)

type GradeRepo interface {
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, grade *types.Grade) (bool, error)
	FindActiveByName(ctx context.Context, tx *gorm.DB, name string) (*types.Grade, error)
	GetActiveByID(ctx context.Context, tx *gorm.DB, gradeID uuid.UUID) (*types.Grade, error)
	Retire(ctx context.Context, tx *gorm.DB, gradeID uuid.UUID, actor string) error
	GetActiveTree(ctx context.Context, tx *gorm.DB, gradeIDs []uuid.UUID) ([]*types.Grade, error)
}

type gradeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGradeRepo(db *gorm.DB, baseLog *logger.Logger) GradeRepo {
	repoLog := baseLog.With("repo", "GradeRepo")
	return &gradeRepo{db: db, log: repoLog}
}

// CreateIfAbsent inserts the grade unless an active grade with the same
// normalized name already exists. The partial unique index on lower(name)
// arbitrates concurrent writers; a conflict is reported as created=false,
// never as an error, so the caller can re-fetch the winner.
func (r *gradeRepo) CreateIfAbsent(ctx context.Context, tx *gorm.DB, grade *types.Grade) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(grade)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gradeRepo) FindActiveByName(ctx context.Context, tx *gorm.DB, name string) (*types.Grade, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Grade
	if err := transaction.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name)).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *gradeRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, gradeID uuid.UUID) (*types.Grade, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Grade
	if err := transaction.WithContext(ctx).
		Where("id = ?", gradeID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *gradeRepo) Retire(ctx context.Context, tx *gorm.DB, gradeID uuid.UUID, actor string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Grade{}).
		Where("id = ?", gradeID).
		Update("updated_by", actor).Error; err != nil {
		return err
	}
	if err := transaction.WithContext(ctx).
		Where("id = ?", gradeID).
		Delete(&types.Grade{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *gradeRepo) GetActiveTree(ctx context.Context, tx *gorm.DB, gradeIDs []uuid.UUID) ([]*types.Grade, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	byName := func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }

	q := transaction.WithContext(ctx).
		Preload("Textbooks", byName).
		Preload("Textbooks.Units", byName).
		Preload("Textbooks.Units.Lessons", byName).
		Preload("Textbooks.Units.Lessons.ExerciseTypes", byName).
		Order("name ASC")

	if len(gradeIDs) > 0 {
		q = q.Where("id IN ?", gradeIDs)
	}

	var results []*types.Grade
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
