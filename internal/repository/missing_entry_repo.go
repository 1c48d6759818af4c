package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleettrack/internal/model"
)

// MissingEntryRepository stores workflow anomaly records. Listings are
// admin-facing, so the user filter is optional and the user is preloaded.
type MissingEntryRepository interface {
	CreateMissingLoading(ctx context.Context, entry *model.MissingLoadingPointEntry) error
	CreateMissingUnloading(ctx context.Context, entry *model.MissingUnloadingPointEntry) error
	ListMissingLoading(ctx context.Context, userID *uuid.UUID, limit, skip int) ([]model.MissingLoadingPointEntry, int64, error)
	ListMissingUnloading(ctx context.Context, userID *uuid.UUID, limit, skip int) ([]model.MissingUnloadingPointEntry, int64, error)
}

type missingEntryRepository struct {
	db *gorm.DB
}

func NewMissingEntryRepository(db *gorm.DB) MissingEntryRepository {
	return &missingEntryRepository{db: db}
}

func (r *missingEntryRepository) CreateMissingLoading(ctx context.Context, entry *model.MissingLoadingPointEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *missingEntryRepository) CreateMissingUnloading(ctx context.Context, entry *model.MissingUnloadingPointEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *missingEntryRepository) ListMissingLoading(ctx context.Context, userID *uuid.UUID, limit, skip int) ([]model.MissingLoadingPointEntry, int64, error) {
	q := GetDB(ctx, r.db).Model(&model.MissingLoadingPointEntry{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.MissingLoadingPointEntry
	err := q.Preload("User").Order("created_at desc").Offset(skip).Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *missingEntryRepository) ListMissingUnloading(ctx context.Context, userID *uuid.UUID, limit, skip int) ([]model.MissingUnloadingPointEntry, int64, error) {
	q := GetDB(ctx, r.db).Model(&model.MissingUnloadingPointEntry{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.MissingUnloadingPointEntry
	err := q.Preload("User").Order("created_at desc").Offset(skip).Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
