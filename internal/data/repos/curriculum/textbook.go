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

type TextbookRepo interface {
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, textbook *types.Textbook) (bool, error)
	FindActiveByName(ctx context.Context, tx *gorm.DB, gradeID uuid.UUID, name string) (*types.Textbook, error)
	ReassignGrade(ctx context.Context, tx *gorm.DB, sourceGradeID, destinationGradeID uuid.UUID, actor string) (int64, error)
}

type textbookRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTextbookRepo(db *gorm.DB, baseLog *logger.Logger) TextbookRepo {
	repoLog := baseLog.With("repo", "TextbookRepo")
	return &textbookRepo{db: db, log: repoLog}
}

func (r *textbookRepo) CreateIfAbsent(ctx context.Context, tx *gorm.DB, textbook *types.Textbook) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(textbook)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *textbookRepo) FindActiveByName(ctx context.Context, tx *gorm.DB, gradeID uuid.UUID, name string) (*types.Textbook, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Textbook
	if err := transaction.WithContext(ctx).
		Where("grade_id = ?", gradeID).
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

// ReassignGrade moves every active textbook under the source grade to the
// destination grade, stamping the actor. Returns the number of rows moved.
func (r *textbookRepo) ReassignGrade(ctx context.Context, tx *gorm.DB, sourceGradeID, destinationGradeID uuid.UUID, actor string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Textbook{}).
		Where("grade_id = ?", sourceGradeID).
		Updates(map[string]interface{}{
			"grade_id":   destinationGradeID,
			"updated_by": actor,
		})
	return res.RowsAffected, res.Error
}
