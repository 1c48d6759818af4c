package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleettrack/internal/model"
)

// StageDataRepository covers the three per-stage record tables that hang off
// a trip. They share pagination and trip-scoped listing shapes so they live
// behind one interface.
type StageDataRepository interface {
	CreateWayBridge(ctx context.Context, data *model.WayBridgeData) error
	CreateLoadingPoint(ctx context.Context, data *model.LoadingPointData) error
	CreateUnloadingPoint(ctx context.Context, data *model.UnloadingPointData) error

	ListWayBridgeByUser(ctx context.Context, userID uuid.UUID, limit, skip int) ([]model.WayBridgeData, int64, error)
	ListLoadingPointByUser(ctx context.Context, userID uuid.UUID, limit, skip int) ([]model.LoadingPointData, int64, error)
	ListUnloadingPointByUser(ctx context.Context, userID uuid.UUID, limit, skip int) ([]model.UnloadingPointData, int64, error)

	GetUnloadingPointByID(ctx context.Context, id uuid.UUID) (*model.UnloadingPointData, error)
	UpdateUnloadingPoint(ctx context.Context, data *model.UnloadingPointData) error

	LatestWayBridgeByTrip(ctx context.Context, tripID uuid.UUID) (*model.WayBridgeData, error)
	LatestLoadingPointByTrip(ctx context.Context, tripID uuid.UUID) (*model.LoadingPointData, error)
}

type stageDataRepository struct {
	db *gorm.DB
}

func NewStageDataRepository(db *gorm.DB) StageDataRepository {
	return &stageDataRepository{db: db}
}

func (r *stageDataRepository) CreateWayBridge(ctx context.Context, data *model.WayBridgeData) error {
	return GetDB(ctx, r.db).Create(data).Error
}

func (r *stageDataRepository) CreateLoadingPoint(ctx context.Context, data *model.LoadingPointData) error {
	return GetDB(ctx, r.db).Create(data).Error
}

func (r *stageDataRepository) CreateUnloadingPoint(ctx context.Context, data *model.UnloadingPointData) error {
	return GetDB(ctx, r.db).Create(data).Error
}

func (r *stageDataRepository) ListWayBridgeByUser(ctx context.Context, userID uuid.UUID, limit, skip int) ([]model.WayBridgeData, int64, error) {
	q := GetDB(ctx, r.db).Model(&model.WayBridgeData{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.WayBridgeData
	if err := q.Order("created_at desc").Offset(skip).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *stageDataRepository) ListLoadingPointByUser(ctx context.Context, userID uuid.UUID, limit, skip int) ([]model.LoadingPointData, int64, error) {
	q := GetDB(ctx, r.db).Model(&model.LoadingPointData{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.LoadingPointData
	if err := q.Order("created_at desc").Offset(skip).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *stageDataRepository) ListUnloadingPointByUser(ctx context.Context, userID uuid.UUID, limit, skip int) ([]model.UnloadingPointData, int64, error) {
	q := GetDB(ctx, r.db).Model(&model.UnloadingPointData{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.UnloadingPointData
	if err := q.Order("created_at desc").Offset(skip).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *stageDataRepository) GetUnloadingPointByID(ctx context.Context, id uuid.UUID) (*model.UnloadingPointData, error) {
	var record model.UnloadingPointData
	if err := GetDB(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *stageDataRepository) UpdateUnloadingPoint(ctx context.Context, data *model.UnloadingPointData) error {
	return GetDB(ctx, r.db).Save(data).Error
}

func (r *stageDataRepository) LatestWayBridgeByTrip(ctx context.Context, tripID uuid.UUID) (*model.WayBridgeData, error) {
	var record model.WayBridgeData
	err := GetDB(ctx, r.db).
		Where("trip_id = ?", tripID).
		Order("created_at desc").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *stageDataRepository) LatestLoadingPointByTrip(ctx context.Context, tripID uuid.UUID) (*model.LoadingPointData, error) {
	var record model.LoadingPointData
	err := GetDB(ctx, r.db).
		Where("trip_id = ?", tripID).
		Order("created_at desc").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
