package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleettrack/internal/model"
	"fleettrack/internal/repository"
)

// --- DTOs ---

type AssociateVehicleRequest struct {
	QRCode        string    `json:"qr_code" binding:"required"`
	VehicleNumber string    `json:"vehicle_number" binding:"required"`
	TransporterID uuid.UUID `json:"transporter_id" binding:"required"`
}

type AssociateQRRequest struct {
	QRCode        string `json:"qr_code" binding:"required"`
	VehicleNumber string `json:"vehicle_number" binding:"required"`
}

type AssignTransporterRequest struct {
	VehicleNumber string    `json:"vehicle_number" binding:"required"`
	TransporterID uuid.UUID `json:"transporter_id" binding:"required"`
	QRCode        string    `json:"qr_code"`
}

// CheckQRResult reports whether a scanned code has a vehicle behind it.
// Absence is a normal outcome, not an error.
type CheckQRResult struct {
	HasVehicle      bool       `json:"has_vehicle"`
	QRCode          string     `json:"qr_code"`
	VehicleNumber   string     `json:"vehicle_number,omitempty"`
	TransporterID   *uuid.UUID `json:"transporter_id,omitempty"`
	TransporterName string     `json:"transporter_name,omitempty"`
}

// CheckVehicleResult reports whether a vehicle has a transporter bound.
type CheckVehicleResult struct {
	HasTransporter  bool       `json:"has_transporter"`
	VehicleNumber   string     `json:"vehicle_number"`
	TransporterID   *uuid.UUID `json:"transporter_id,omitempty"`
	TransporterName string     `json:"transporter_name,omitempty"`
	QRCode          string     `json:"qr_code,omitempty"`
}

type QRVehicleResponse struct {
	ID              uuid.UUID  `json:"id"`
	QRCode          string     `json:"qr_code"`
	VehicleNumber   string     `json:"vehicle_number"`
	TransporterID   *uuid.UUID `json:"transporter_id,omitempty"`
	TransporterName string     `json:"transporter_name,omitempty"`
	LastUsedAt      *time.Time `json:"last_used_at,omitempty"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
}

// AssociationService manages the QR-to-vehicle mapping used at trip start.
type AssociationService interface {
	// CheckQR and CheckVehicle are pure reads; a code or vehicle that is
	// not on file yields a result with the presence flag unset.
	CheckQR(ctx context.Context, qrCode string) (*CheckQRResult, error)
	CheckVehicle(ctx context.Context, vehicleNumber string) (*CheckVehicleResult, error)
	// AssociateQRToVehicle upserts the QR-to-vehicle binding by code,
	// leaving any transporter assignment untouched.
	AssociateQRToVehicle(ctx context.Context, req AssociateQRRequest, userID uuid.UUID) (*QRVehicleResponse, error)
	// AssignTransporter binds a transporter to a vehicle, creating the
	// association with a synthesized code when the vehicle is new.
	AssignTransporter(ctx context.Context, req AssignTransporterRequest, userID uuid.UUID) (*QRVehicleResponse, error)
	// Associate is the combined legacy operation: vehicle and transporter
	// in one call, upserted by code.
	Associate(ctx context.Context, req AssociateVehicleRequest, userID uuid.UUID) (*QRVehicleResponse, error)
}

type associationService struct {
	qrVehicles repository.QRVehicleRepository
	options    repository.OptionRepository
}

func NewAssociationService(qrVehicles repository.QRVehicleRepository, options repository.OptionRepository) AssociationService {
	return &associationService{qrVehicles: qrVehicles, options: options}
}

func normalizeVehicleNumber(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func syntheticQRCode(vehicleNumber string) string {
	return "VEHICLE_" + vehicleNumber
}

func mapQRVehicle(qv *model.QRVehicle) QRVehicleResponse {
	return QRVehicleResponse{
		ID:              qv.ID,
		QRCode:          qv.QRCode,
		VehicleNumber:   qv.VehicleNumber,
		TransporterID:   qv.TransporterID,
		TransporterName: qv.TransporterName,
		LastUsedAt:      qv.LastUsedAt,
		IsActive:        qv.IsActive,
		CreatedAt:       qv.CreatedAt,
	}
}

func (s *associationService) CheckQR(ctx context.Context, qrCode string) (*CheckQRResult, error) {
	qrCode = strings.TrimSpace(qrCode)

	qv, err := s.qrVehicles.GetActiveByQRCode(ctx, qrCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CheckQRResult{QRCode: qrCode}, nil
		}
		return nil, err
	}
	if qv.VehicleNumber == "" {
		return &CheckQRResult{QRCode: qv.QRCode}, nil
	}

	return &CheckQRResult{
		HasVehicle:      true,
		QRCode:          qv.QRCode,
		VehicleNumber:   qv.VehicleNumber,
		TransporterID:   qv.TransporterID,
		TransporterName: qv.TransporterName,
	}, nil
}

func (s *associationService) CheckVehicle(ctx context.Context, vehicleNumber string) (*CheckVehicleResult, error) {
	vehicleNumber = normalizeVehicleNumber(vehicleNumber)

	qv, err := s.qrVehicles.GetActiveByVehicleNumber(ctx, vehicleNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CheckVehicleResult{VehicleNumber: vehicleNumber}, nil
		}
		return nil, err
	}
	if qv.TransporterID == nil {
		return &CheckVehicleResult{VehicleNumber: qv.VehicleNumber, QRCode: qv.QRCode}, nil
	}

	return &CheckVehicleResult{
		HasTransporter:  true,
		VehicleNumber:   qv.VehicleNumber,
		TransporterID:   qv.TransporterID,
		TransporterName: qv.TransporterName,
		QRCode:          qv.QRCode,
	}, nil
}

func (s *associationService) resolveTransporter(ctx context.Context, id uuid.UUID) (*model.DropdownOption, error) {
	opt, err := s.options.GetActive(ctx, id, model.OptionTransporter)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidReference
		}
		return nil, err
	}
	return opt, nil
}

func (s *associationService) AssociateQRToVehicle(ctx context.Context, req AssociateQRRequest, userID uuid.UUID) (*QRVehicleResponse, error) {
	vehicleNumber := normalizeVehicleNumber(req.VehicleNumber)
	qrCode := strings.TrimSpace(req.QRCode)
	now := time.Now()

	qv, err := s.qrVehicles.GetByQRCode(ctx, qrCode)
	switch {
	case err == nil:
		// Re-associating an existing code repoints it at the new vehicle.
		qv.VehicleNumber = vehicleNumber
		qv.IsActive = true
		qv.LastUsedBy = &userID
		qv.LastUsedAt = &now
		err = s.qrVehicles.Update(ctx, qv)
	case errors.Is(err, gorm.ErrRecordNotFound):
		qv = &model.QRVehicle{
			QRCode:        qrCode,
			VehicleNumber: vehicleNumber,
			CreatedBy:     &userID,
			LastUsedBy:    &userID,
			LastUsedAt:    &now,
			IsActive:      true,
		}
		err = s.qrVehicles.Create(ctx, qv)
	}
	if err != nil {
		return nil, err
	}

	resp := mapQRVehicle(qv)
	return &resp, nil
}

func (s *associationService) AssignTransporter(ctx context.Context, req AssignTransporterRequest, userID uuid.UUID) (*QRVehicleResponse, error) {
	vehicleNumber := normalizeVehicleNumber(req.VehicleNumber)
	qrCode := strings.TrimSpace(req.QRCode)

	transporter, err := s.resolveTransporter(ctx, req.TransporterID)
	if err != nil {
		return nil, err
	}

	// Prefer the scanned code when the caller has one; fall back to the
	// vehicle number for manual entry.
	var qv *model.QRVehicle
	if qrCode != "" {
		qv, err = s.qrVehicles.GetByQRCode(ctx, qrCode)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if qv == nil {
		qv, err = s.qrVehicles.GetByVehicleNumber(ctx, vehicleNumber)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			qv = nil
		}
	}

	now := time.Now()
	if qv == nil {
		// Vehicle seen for the first time; it gets a synthesized code
		// unless the caller scanned a real one.
		if qrCode == "" {
			qrCode = syntheticQRCode(vehicleNumber)
		}
		qv = &model.QRVehicle{
			QRCode:          qrCode,
			VehicleNumber:   vehicleNumber,
			TransporterID:   &transporter.ID,
			TransporterName: transporter.Name,
			CreatedBy:       &userID,
			LastUsedBy:      &userID,
			LastUsedAt:      &now,
			IsActive:        true,
		}
		if err := s.qrVehicles.Create(ctx, qv); err != nil {
			return nil, err
		}
	} else {
		qv.TransporterID = &transporter.ID
		qv.TransporterName = transporter.Name
		qv.LastUsedBy = &userID
		qv.LastUsedAt = &now
		if err := s.qrVehicles.Update(ctx, qv); err != nil {
			return nil, err
		}
	}

	resp := mapQRVehicle(qv)
	return &resp, nil
}

func (s *associationService) Associate(ctx context.Context, req AssociateVehicleRequest, userID uuid.UUID) (*QRVehicleResponse, error) {
	vehicleNumber := normalizeVehicleNumber(req.VehicleNumber)
	qrCode := strings.TrimSpace(req.QRCode)

	transporter, err := s.resolveTransporter(ctx, req.TransporterID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	qv, err := s.qrVehicles.GetByQRCode(ctx, qrCode)
	switch {
	case err == nil:
		qv.VehicleNumber = vehicleNumber
		qv.IsActive = true
	case errors.Is(err, gorm.ErrRecordNotFound):
		qv = &model.QRVehicle{
			QRCode:        qrCode,
			VehicleNumber: vehicleNumber,
			CreatedBy:     &userID,
			IsActive:      true,
		}
	default:
		return nil, err
	}

	qv.TransporterID = &transporter.ID
	qv.TransporterName = transporter.Name
	qv.LastUsedBy = &userID
	qv.LastUsedAt = &now

	if qv.ID == uuid.Nil {
		err = s.qrVehicles.Create(ctx, qv)
	} else {
		err = s.qrVehicles.Update(ctx, qv)
	}
	if err != nil {
		return nil, err
	}

	resp := mapQRVehicle(qv)
	return &resp, nil
}
