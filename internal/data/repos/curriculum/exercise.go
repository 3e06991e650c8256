package curriculum

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	types "github.com/mathforge/curriculum-backend/internal/domain"
	"github.com/mathforge/curriculum-backend/internal/pkg/logger"
)

// ExerciseSearchParams drives Search. When Embedding is set the results are
// ranked by vector distance over rows that carry one; otherwise a non-empty
// Search term falls back to a substring match on the question.
type ExerciseSearchParams struct {
	Search    string
	Embedding *pgvector.Vector
	Offset    int
	Limit     int
}

type ExerciseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, exercises []*types.Exercise) ([]*types.Exercise, error)
	FindActiveDuplicate(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, question, key string) (*types.Exercise, error)
	ReassignLesson(ctx context.Context, tx *gorm.DB, sourceLessonID, destinationLessonID uuid.UUID, actor string) (int64, error)
	ReassignFormat(ctx context.Context, tx *gorm.DB, sourceFormatID, destinationFormatID uuid.UUID, actor string) (int64, error)
	ReassignType(ctx context.Context, tx *gorm.DB, sourceTypeID, destinationTypeID uuid.UUID, actor string) (int64, error)
	Search(ctx context.Context, tx *gorm.DB, params ExerciseSearchParams) ([]*types.Exercise, int64, error)
	ListMissingEmbeddings(ctx context.Context, tx *gorm.DB, limit, offset int, skipExisting bool) ([]*types.Exercise, error)
	UpdateQuestionEmbedding(ctx context.Context, tx *gorm.DB, exerciseID uuid.UUID, embedding pgvector.Vector) error
}

type exerciseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExerciseRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseRepo {
	repoLog := baseLog.With("repo", "ExerciseRepo")
	return &exerciseRepo{db: db, log: repoLog}
}

func (r *exerciseRepo) Create(ctx context.Context, tx *gorm.DB, exercises []*types.Exercise) ([]*types.Exercise, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(exercises) == 0 {
		return []*types.Exercise{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&exercises).Error; err != nil {
		return nil, err
	}
	return exercises, nil
}

// FindActiveDuplicate reports an active exercise in the lesson whose question
// and key both match case-insensitively, or nil when the row is fresh.
func (r *exerciseRepo) FindActiveDuplicate(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, question, key string) (*types.Exercise, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Exercise
	if err := transaction.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Where("LOWER(question) = LOWER(?)", question).
		Where(`LOWER("key") = LOWER(?)`, key).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *exerciseRepo) ReassignLesson(ctx context.Context, tx *gorm.DB, sourceLessonID, destinationLessonID uuid.UUID, actor string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Exercise{}).
		Where("lesson_id = ?", sourceLessonID).
		Updates(map[string]interface{}{
			"lesson_id":  destinationLessonID,
			"updated_by": actor,
		})
	return res.RowsAffected, res.Error
}

func (r *exerciseRepo) ReassignFormat(ctx context.Context, tx *gorm.DB, sourceFormatID, destinationFormatID uuid.UUID, actor string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Exercise{}).
		Where("format_id = ?", sourceFormatID).
		Updates(map[string]interface{}{
			"format_id":  destinationFormatID,
			"updated_by": actor,
		})
	return res.RowsAffected, res.Error
}

func (r *exerciseRepo) ReassignType(ctx context.Context, tx *gorm.DB, sourceTypeID, destinationTypeID uuid.UUID, actor string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Exercise{}).
		Where("type_id = ?", sourceTypeID).
		Updates(map[string]interface{}{
			"type_id":    destinationTypeID,
			"updated_by": actor,
		})
	return res.RowsAffected, res.Error
}

func (r *exerciseRepo) Search(ctx context.Context, tx *gorm.DB, params ExerciseSearchParams) ([]*types.Exercise, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	base := transaction.WithContext(ctx).Model(&types.Exercise{})
	switch {
	case params.Embedding != nil:
		base = base.Where("question_embedding IS NOT NULL")
	case strings.TrimSpace(params.Search) != "":
		base = base.Where("question ILIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := base.Session(&gorm.Session{}).
		Preload("Lesson.Unit.Textbook.Grade").
		Preload("Format").
		Preload("Type")

	if params.Embedding != nil {
		q = q.Select(`*, question_embedding <-> ? AS distance`, *params.Embedding).
			Order("distance ASC").
			Order("created_at DESC")
	} else {
		q = q.Order("created_at DESC")
	}

	if params.Offset > 0 {
		q = q.Offset(params.Offset)
	}
	if params.Limit > 0 {
		q = q.Limit(params.Limit)
	}

	var results []*types.Exercise
	if err := q.Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *exerciseRepo) ListMissingEmbeddings(ctx context.Context, tx *gorm.DB, limit, offset int, skipExisting bool) ([]*types.Exercise, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).
		Model(&types.Exercise{}).
		Select("id", "question", "question_embedding").
		Where("question IS NOT NULL").
		Where("TRIM(question) <> ''").
		Order("created_at ASC")

	if skipExisting {
		q = q.Where("question_embedding IS NULL")
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var results []*types.Exercise
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *exerciseRepo) UpdateQuestionEmbedding(ctx context.Context, tx *gorm.DB, exerciseID uuid.UUID, embedding pgvector.Vector) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Exercise{}).
		Where("id = ?", exerciseID).
		Update("question_embedding", embedding).Error
}
