package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleettrack/internal/model"
)

// LocationListFilter narrows telemetry listings to a user and time window.
type LocationListFilter struct {
	UserID uuid.UUID
	From   *time.Time
	To     *time.Time
	Limit  int
	Skip   int
}

// LocationRepository defines data access for telemetry points.
type LocationRepository interface {
	CreateBatch(ctx context.Context, points []model.Location) error
	List(ctx context.Context, filter LocationListFilter) ([]model.Location, int64, error)
	Latest(ctx context.Context, userID uuid.UUID) (*model.Location, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) CreateBatch(ctx context.Context, points []model.Location) error {
	if len(points) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&points).Error
}

func (r *locationRepository) List(ctx context.Context, filter LocationListFilter) ([]model.Location, int64, error) {
	q := GetDB(ctx, r.db).Model(&model.Location{}).Where("user_id = ?", filter.UserID)
	if filter.From != nil {
		q = q.Where("timestamp >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("timestamp <= ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var points []model.Location
	if err := q.Order("timestamp desc").Offset(filter.Skip).Limit(filter.Limit).Find(&points).Error; err != nil {
		return nil, 0, err
	}
	return points, total, nil
}

func (r *locationRepository) Latest(ctx context.Context, userID uuid.UUID) (*model.Location, error) {
	var point model.Location
	err := GetDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("timestamp desc").
		First(&point).Error
	if err != nil {
		return nil, err
	}
	return &point, nil
}

func (r *locationRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("user_id = ?", userID).Delete(&model.Location{}).Error
}

func (r *locationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := GetDB(ctx, r.db).Where("timestamp < ?", cutoff).Delete(&model.Location{})
	return res.RowsAffected, res.Error
}
