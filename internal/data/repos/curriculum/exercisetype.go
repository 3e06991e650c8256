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

type ExerciseTypeRepo interface {
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, exerciseType *types.ExerciseType) (bool, error)
	FindActiveByName(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, name string) (*types.ExerciseType, error)
	GetActiveByID(ctx context.Context, tx *gorm.DB, typeID uuid.UUID) (*types.ExerciseType, error)
	Retire(ctx context.Context, tx *gorm.DB, typeID uuid.UUID, actor string) error
	ReassignLesson(ctx context.Context, tx *gorm.DB, sourceLessonID, destinationLessonID uuid.UUID, actor string) (int64, error)
}

type exerciseTypeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExerciseTypeRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseTypeRepo {
	repoLog := baseLog.With("repo", "ExerciseTypeRepo")
	return &exerciseTypeRepo{db: db, log: repoLog}
}

func (r *exerciseTypeRepo) CreateIfAbsent(ctx context.Context, tx *gorm.DB, exerciseType *types.ExerciseType) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(exerciseType)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *exerciseTypeRepo) FindActiveByName(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, name string) (*types.ExerciseType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ExerciseType
	if err := transaction.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
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

func (r *exerciseTypeRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, typeID uuid.UUID) (*types.ExerciseType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ExerciseType
	if err := transaction.WithContext(ctx).
		Where("id = ?", typeID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *exerciseTypeRepo) Retire(ctx context.Context, tx *gorm.DB, typeID uuid.UUID, actor string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.ExerciseType{}).
		Where("id = ?", typeID).
		Update("updated_by", actor).Error; err != nil {
		return err
	}
	if err := transaction.WithContext(ctx).
		Where("id = ?", typeID).
		Delete(&types.ExerciseType{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *exerciseTypeRepo) ReassignLesson(ctx context.Context, tx *gorm.DB, sourceLessonID, destinationLessonID uuid.UUID, actor string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.ExerciseType{}).
		Where("lesson_id = ?", sourceLessonID).
		Updates(map[string]interface{}{
			"lesson_id":  destinationLessonID,
			"updated_by": actor,
		})
	return res.RowsAffected, res.Error
}
