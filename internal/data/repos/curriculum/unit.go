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

type UnitRepo interface {
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, unit *types.Unit) (bool, error)
	FindActiveByName(ctx context.Context, tx *gorm.DB, textbookID uuid.UUID, name string) (*types.Unit, error)
	GetActiveByID(ctx context.Context, tx *gorm.DB, unitID uuid.UUID) (*types.Unit, error)
	Retire(ctx context.Context, tx *gorm.DB, unitID uuid.UUID, actor string) error
}

type unitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUnitRepo(db *gorm.DB, baseLog *logger.Logger) UnitRepo {
	repoLog := baseLog.With("repo", "UnitRepo")
	return &unitRepo{db: db, log: repoLog}
}

func (r *unitRepo) CreateIfAbsent(ctx context.Context, tx *gorm.DB, unit *types.Unit) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(unit)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *unitRepo) FindActiveByName(ctx context.Context, tx *gorm.DB, textbookID uuid.UUID, name string) (*types.Unit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Unit
	if err := transaction.WithContext(ctx).
		Where("textbook_id = ?", textbookID).
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

func (r *unitRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, unitID uuid.UUID) (*types.Unit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Unit
	if err := transaction.WithContext(ctx).
		Where("id = ?", unitID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *unitRepo) Retire(ctx context.Context, tx *gorm.DB, unitID uuid.UUID, actor string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Unit{}).
		Where("id = ?", unitID).
		Update("updated_by", actor).Error; err != nil {
		return err
	}
	if err := transaction.WithContext(ctx).
		Where("id = ?", unitID).
		Delete(&types.Unit{}).Error; err != nil {
		return err
	}
	return nil
}
