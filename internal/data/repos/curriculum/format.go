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

type FormatRepo interface {
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, format *types.Format) (bool, error)
	FindActiveByName(ctx context.Context, tx *gorm.DB, name string) (*types.Format, error)
	GetActiveByID(ctx context.Context, tx *gorm.DB, formatID uuid.UUID) (*types.Format, error)
	Retire(ctx context.Context, tx *gorm.DB, formatID uuid.UUID, actor string) error
}

type formatRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFormatRepo(db *gorm.DB, baseLog *logger.Logger) FormatRepo {
	repoLog := baseLog.With("repo", "FormatRepo")
	return &formatRepo{db: db, log: repoLog}
}

func (r *formatRepo) CreateIfAbsent(ctx context.Context, tx *gorm.DB, format *types.Format) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(format)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *formatRepo) FindActiveByName(ctx context.Context, tx *gorm.DB, name string) (*types.Format, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Format
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

func (r *formatRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, formatID uuid.UUID) (*types.Format, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Format
	if err := transaction.WithContext(ctx).
		Where("id = ?", formatID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *formatRepo) Retire(ctx context.Context, tx *gorm.DB, formatID uuid.UUID, actor string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Format{}).
		Where("id = ?", formatID).
		Update("updated_by", actor).Error; err != nil {
		return err
	}
	if err := transaction.WithContext(ctx).
		Where("id = ?", formatID).
		Delete(&types.Format{}).Error; err != nil {
		return err
	}
	return nil
}
