package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleettrack/internal/model"
)

// TripListFilter narrows trip history listings.
type TripListFilter struct {
	Status model.TripStatus
	Limit  int
	Skip   int
}

// TripRepository defines data access for Trip entities.
type TripRepository interface {
	Create(ctx context.Context, trip *model.Trip) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Trip, error)
	// GetActiveOwned resolves a trip by id, owner and active status in one
	// filter; a miss does not distinguish the three causes.
	GetActiveOwned(ctx context.Context, id, userID uuid.UUID) (*model.Trip, error)
	GetActiveByIDAny(ctx context.Context, id uuid.UUID) (*model.Trip, error)
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*model.Trip, error)
	FindActiveByVehicle(ctx context.Context, vehicleNumber string) (*model.Trip, error)
	Update(ctx context.Context, trip *model.Trip) error
	ListByUser(ctx context.Context, userID uuid.UUID, filter TripListFilter) ([]model.Trip, int64, error)
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) Create(ctx context.Context, trip *model.Trip) error {
	return GetDB(ctx, r.db).Create(trip).Error
}

func (r *tripRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	var trip model.Trip
	if err := GetDB(ctx, r.db).First(&trip, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) GetActiveOwned(ctx context.Context, id, userID uuid.UUID) (*model.Trip, error) {
	var trip model.Trip
	err := GetDB(ctx, r.db).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, model.TripActive).
		First(&trip).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) GetActiveByIDAny(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	var trip model.Trip
	err := GetDB(ctx, r.db).
		Where("id = ? AND status = ?", id, model.TripActive).
		First(&trip).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*model.Trip, error) {
	var trip model.Trip
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND status = ?", userID, model.TripActive).
		Order("start_time desc").
		First(&trip).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) FindActiveByVehicle(ctx context.Context, vehicleNumber string) (*model.Trip, error) {
	var trip model.Trip
	err := GetDB(ctx, r.db).
		Where("vehicle_number = ? AND status = ?", vehicleNumber, model.TripActive).
		Order("start_time desc").
		First(&trip).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) Update(ctx context.Context, trip *model.Trip) error {
	return GetDB(ctx, r.db).Save(trip).Error
}

func (r *tripRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter TripListFilter) ([]model.Trip, int64, error) {
	q := GetDB(ctx, r.db).Model(&model.Trip{}).Where("user_id = ?", userID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var trips []model.Trip
	if err := q.Order("created_at desc").Offset(filter.Skip).Limit(filter.Limit).Find(&trips).Error; err != nil {
		return nil, 0, err
	}

	return trips, total, nil
}
