package repository

import (
	"context"

	"gorm.io/gorm"

	"fleettrack/internal/model"
)

// QRVehicleRepository defines data access for QR-to-vehicle associations.
type QRVehicleRepository interface {
	Create(ctx context.Context, qv *model.QRVehicle) error
	GetByQRCode(ctx context.Context, qrCode string) (*model.QRVehicle, error)
	GetActiveByQRCode(ctx context.Context, qrCode string) (*model.QRVehicle, error)
	GetByVehicleNumber(ctx context.Context, vehicleNumber string) (*model.QRVehicle, error)
	GetActiveByVehicleNumber(ctx context.Context, vehicleNumber string) (*model.QRVehicle, error)
	Update(ctx context.Context, qv *model.QRVehicle) error
}

type qrVehicleRepository struct {
	db *gorm.DB
}

func NewQRVehicleRepository(db *gorm.DB) QRVehicleRepository {
	return &qrVehicleRepository{db: db}
}

func (r *qrVehicleRepository) Create(ctx context.Context, qv *model.QRVehicle) error {
	return GetDB(ctx, r.db).Create(qv).Error
}

func (r *qrVehicleRepository) GetByQRCode(ctx context.Context, qrCode string) (*model.QRVehicle, error) {
	var qv model.QRVehicle
	if err := GetDB(ctx, r.db).First(&qv, "qr_code = ?", qrCode).Error; err != nil {
		return nil, err
	}
	return &qv, nil
}

func (r *qrVehicleRepository) GetActiveByQRCode(ctx context.Context, qrCode string) (*model.QRVehicle, error) {
	var qv model.QRVehicle
	err := GetDB(ctx, r.db).Where("qr_code = ? AND is_active = ?", qrCode, true).First(&qv).Error
	if err != nil {
		return nil, err
	}
	return &qv, nil
}

func (r *qrVehicleRepository) GetByVehicleNumber(ctx context.Context, vehicleNumber string) (*model.QRVehicle, error) {
	var qv model.QRVehicle
	if err := GetDB(ctx, r.db).First(&qv, "vehicle_number = ?", vehicleNumber).Error; err != nil {
		return nil, err
	}
	return &qv, nil
}

func (r *qrVehicleRepository) GetActiveByVehicleNumber(ctx context.Context, vehicleNumber string) (*model.QRVehicle, error) {
	var qv model.QRVehicle
	err := GetDB(ctx, r.db).Where("vehicle_number = ? AND is_active = ?", vehicleNumber, true).First(&qv).Error
	if err != nil {
		return nil, err
	}
	return &qv, nil
}

func (r *qrVehicleRepository) Update(ctx context.Context, qv *model.QRVehicle) error {
	return GetDB(ctx, r.db).Save(qv).Error
}
