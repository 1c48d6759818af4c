package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleettrack/internal/model"
)

// OptionRepository defines data access for dropdown taxonomy options.
type OptionRepository interface {
	Create(ctx context.Context, option *model.DropdownOption) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.DropdownOption, error)
	// GetActive resolves an option only if it exists, is active and belongs
	// to the expected category. Used as the foreign-key validation primitive.
	GetActive(ctx context.Context, id uuid.UUID, optType model.OptionType) (*model.DropdownOption, error)
	ListActiveByType(ctx context.Context, optType model.OptionType) ([]model.DropdownOption, error)
	ListAll(ctx context.Context, optType model.OptionType, includeInactive bool) ([]model.DropdownOption, error)
	Update(ctx context.Context, option *model.DropdownOption) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateOrder(ctx context.Context, id uuid.UUID, order int) error
}

type optionRepository struct {
	db *gorm.DB
}

func NewOptionRepository(db *gorm.DB) OptionRepository {
	return &optionRepository{db: db}
}

func (r *optionRepository) Create(ctx context.Context, option *model.DropdownOption) error {
	return GetDB(ctx, r.db).Create(option).Error
}

func (r *optionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DropdownOption, error) {
	var option model.DropdownOption
	if err := GetDB(ctx, r.db).First(&option, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *optionRepository) GetActive(ctx context.Context, id uuid.UUID, optType model.OptionType) (*model.DropdownOption, error) {
	var option model.DropdownOption
	err := GetDB(ctx, r.db).
		Where("id = ? AND type = ? AND is_active = ?", id, optType, true).
		First(&option).Error
	if err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *optionRepository) ListActiveByType(ctx context.Context, optType model.OptionType) ([]model.DropdownOption, error) {
	var options []model.DropdownOption
	err := GetDB(ctx, r.db).
		Where("type = ? AND is_active = ?", optType, true).
		Order("sort_order asc, name asc").
		Find(&options).Error
	if err != nil {
		return nil, err
	}
	return options, nil
}

func (r *optionRepository) ListAll(ctx context.Context, optType model.OptionType, includeInactive bool) ([]model.DropdownOption, error) {
	q := GetDB(ctx, r.db).Order("type asc, sort_order asc, name asc")
	if optType != "" {
		q = q.Where("type = ?", optType)
	}
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}

	var options []model.DropdownOption
	if err := q.Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *optionRepository) Update(ctx context.Context, option *model.DropdownOption) error {
	return GetDB(ctx, r.db).Save(option).Error
}

func (r *optionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.DropdownOption{}).Error
}

func (r *optionRepository) UpdateOrder(ctx context.Context, id uuid.UUID, order int) error {
	return GetDB(ctx, r.db).Model(&model.DropdownOption{}).
		Where("id = ?", id).
		Update("sort_order", order).Error
}
