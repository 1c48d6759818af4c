package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleettrack/internal/model"
)

// SelectionRepository defines data access for saved user selections.
type SelectionRepository interface {
	Create(ctx context.Context, sel *model.UserSelection) error
	GetActiveByUser(ctx context.Context, userID uuid.UUID) (*model.UserSelection, error)
	DeactivateByUser(ctx context.Context, userID uuid.UUID) error
	DeactivateByID(ctx context.Context, userID, id uuid.UUID) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, skip int) ([]model.UserSelection, int64, error)
}

type selectionRepository struct {
	db *gorm.DB
}

func NewSelectionRepository(db *gorm.DB) SelectionRepository {
	return &selectionRepository{db: db}
}

func (r *selectionRepository) Create(ctx context.Context, sel *model.UserSelection) error {
	return GetDB(ctx, r.db).Create(sel).Error
}

func (r *selectionRepository) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*model.UserSelection, error) {
	var sel model.UserSelection
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at desc").
		First(&sel).Error
	if err != nil {
		return nil, err
	}
	return &sel, nil
}

func (r *selectionRepository) DeactivateByUser(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.UserSelection{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false).Error
}

func (r *selectionRepository) DeactivateByID(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.UserSelection{}).
		Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

func (r *selectionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, skip int) ([]model.UserSelection, int64, error) {
	q := GetDB(ctx, r.db).Model(&model.UserSelection{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var selections []model.UserSelection
	if err := q.Order("created_at desc").Offset(skip).Limit(limit).Find(&selections).Error; err != nil {
		return nil, 0, err
	}
	return selections, total, nil
}
