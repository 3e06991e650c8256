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

type LessonRepo interface {
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) (bool, error)
	FindActiveByName(ctx context.Context, tx *gorm.DB, unitID uuid.UUID, name string) (*types.Lesson, error)
	GetActiveByID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (*types.Lesson, error)
	Retire(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, actor string) error
	ReassignUnit(ctx context.Context, tx *gorm.DB, sourceUnitID, destinationUnitID uuid.UUID, actor string) (int64, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (r *lessonRepo) CreateIfAbsent(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(lesson)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *lessonRepo) FindActiveByName(ctx context.Context, tx *gorm.DB, unitID uuid.UUID, name string) (*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Lesson
	if err := transaction.WithContext(ctx).
		Where("unit_id = ?", unitID).
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

func (r *lessonRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Lesson
	if err := transaction.WithContext(ctx).
		Where("id = ?", lessonID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *lessonRepo) Retire(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, actor string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Lesson{}).
		Where("id = ?", lessonID).
		Update("updated_by", actor).Error; err != nil {
		return err
	}
	if err := transaction.WithContext(ctx).
		Where("id = ?", lessonID).
		Delete(&types.Lesson{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *lessonRepo) ReassignUnit(ctx context.Context, tx *gorm.DB, sourceUnitID, destinationUnitID uuid.UUID, actor string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Lesson{}).
		Where("unit_id = ?", sourceUnitID).
		Updates(map[string]interface{}{
			"unit_id":    destinationUnitID,
			"updated_by": actor,
		})
	return res.RowsAffected, res.Error
}
