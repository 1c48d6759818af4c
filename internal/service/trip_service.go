package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fleettrack/internal/model"
	"fleettrack/internal/repository"
)

// --- DTOs ---

type StartTripRequest struct {
	QRCode        string   `json:"qr_code" binding:"required"`
	VehicleNumber string   `json:"vehicle_number" binding:"required"`
	ProjectID     string   `json:"project_id" binding:"required"`
	SelectionType string   `json:"selection_type" binding:"required"`
	SelectionID   string   `json:"selection_id" binding:"required"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

type EndTripRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Notes     string   `json:"notes"`
}

type SaveWayBridgeRequest struct {
	QRCode             string          `json:"qr_code"`
	VehicleNumber      string          `json:"vehicle_number" binding:"required"`
	WayBridgeID        string          `json:"way_bridge_id" binding:"required"`
	ProjectID          string          `json:"project_id" binding:"required"`
	TransporterID      string          `json:"transporter_id" binding:"required"`
	LoadingPointID     string          `json:"loading_point_id" binding:"required"`
	WeighBridgeSlipNo  string          `json:"weigh_bridge_slip_no"`
	LoadingPointSlipNo string          `json:"loading_point_slip_no"`
	GrossWeight        decimal.Decimal `json:"gross_weight"`
	TareWeight         decimal.Decimal `json:"tare_weight"`
	PreviousTripReason string          `json:"previous_trip_reason"`
}

type SaveLoadingPointRequest struct {
	QRCode             string   `json:"qr_code"`
	VehicleNumber      string   `json:"vehicle_number" binding:"required"`
	LoadingPointID     string   `json:"loading_point_id" binding:"required"`
	ProjectID          string   `json:"project_id" binding:"required"`
	TransporterID      string   `json:"transporter_id" binding:"required"`
	Notes              string   `json:"notes"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
	PreviousTripReason string   `json:"previous_trip_reason"`
}

type SaveUnloadingPointRequest struct {
	TripID             string          `json:"trip_id" binding:"required"`
	QRCode             string          `json:"qr_code"`
	VehicleNumber      string          `json:"vehicle_number" binding:"required"`
	WayBridgeSlipNo    string          `json:"way_bridge_slip_no"`
	LoadingPointSlipNo string          `json:"loading_point_slip_no"`
	LoadingPointName   string          `json:"loading_point_name"`
	WayBridgeName      string          `json:"way_bridge_name"`
	GrossWeight        decimal.Decimal `json:"gross_weight"`
	TareWeight         decimal.Decimal `json:"tare_weight"`
	NetWeight          decimal.Decimal `json:"net_weight"`
	UnloadingPointID   string          `json:"unloading_point_id" binding:"required"`
	ProjectID          string          `json:"project_id" binding:"required"`
	Notes              string          `json:"notes"`
}

type LogMissingLoadingRequest struct {
	VehicleNumber      string     `json:"vehicle_number" binding:"required"`
	QRCode             string     `json:"qr_code"`
	UnloadingPointID   *uuid.UUID `json:"unloading_point_id"`
	UnloadingPointName string     `json:"unloading_point_name"`
	ProjectID          *uuid.UUID `json:"project_id"`
	ProjectName        string     `json:"project_name"`
	Reason             string     `json:"reason"`
}

type StageResult struct {
	WayBridgeData     *model.WayBridgeData    `json:"way_bridge_data,omitempty"`
	LoadingPointData  *model.LoadingPointData `json:"loading_point_data,omitempty"`
	Trip              *model.Trip             `json:"trip"`
	EndedPreviousTrip *model.Trip             `json:"ended_previous_trip,omitempty"`
}

type UnloadingResult struct {
	UnloadingPointData *model.UnloadingPointData `json:"unloading_point_data"`
	Trip               *model.Trip               `json:"trip"`
}

type VehicleTripStatus struct {
	HasActiveTrip bool        `json:"has_active_trip"`
	Trip          *model.Trip `json:"trip"`
}

type ActiveTripForUnloading struct {
	Trip          *model.Trip          `json:"trip"`
	WayBridgeData *model.WayBridgeData `json:"way_bridge_data"`
}

// TripService owns the trip state machine and the stage capture workflows.
type TripService interface {
	StartTrip(ctx context.Context, userID uuid.UUID, req StartTripRequest) (*model.Trip, error)
	GetActiveTrip(ctx context.Context, userID uuid.UUID) (*model.Trip, error)
	EndTrip(ctx context.Context, userID, tripID uuid.UUID, req EndTripRequest) (*model.Trip, error)
	CancelTrip(ctx context.Context, userID, tripID uuid.UUID, reason string) (*model.Trip, error)
	GetTripHistory(ctx context.Context, userID uuid.UUID, filter repository.TripListFilter) ([]model.Trip, int64, error)

	SaveWayBridgeData(ctx context.Context, userID uuid.UUID, req SaveWayBridgeRequest) (*StageResult, error)
	SaveLoadingPointData(ctx context.Context, userID uuid.UUID, req SaveLoadingPointRequest) (*StageResult, error)
	SaveUnloadingPointData(ctx context.Context, userID uuid.UUID, req SaveUnloadingPointRequest) (*UnloadingResult, error)

	CheckVehicleActiveTrip(ctx context.Context, vehicleNumber string) (*VehicleTripStatus, error)
	GetActiveTripByVehicle(ctx context.Context, vehicleNumber string) (*ActiveTripForUnloading, error)

	WayBridgeHistory(ctx context.Context, userID uuid.UUID, limit, skip int) ([]model.WayBridgeData, int64, error)
	LoadingPointHistory(ctx context.Context, userID uuid.UUID, limit, skip int) ([]model.LoadingPointData, int64, error)
	UnloadingPointHistory(ctx context.Context, userID uuid.UUID, limit, skip int) ([]model.UnloadingPointData, int64, error)

	LogMissingLoadingPoint(ctx context.Context, userID uuid.UUID, req LogMissingLoadingRequest) (*model.MissingLoadingPointEntry, error)
	MissingLoadingEntries(ctx context.Context, limit, skip int) ([]model.MissingLoadingPointEntry, int64, error)
	MissingUnloadingEntries(ctx context.Context, limit, skip int) ([]model.MissingUnloadingPointEntry, int64, error)
}

// TripEventPublisher receives trip lifecycle notifications. The websocket
// hub implements it; a no-op sink is fine in tests.
type TripEventPublisher interface {
	TripStarted(trip *model.Trip)
	TripClosed(trip *model.Trip)
}

type tripService struct {
	trips      repository.TripRepository
	stages     repository.StageDataRepository
	missing    repository.MissingEntryRepository
	options    repository.OptionRepository
	qrVehicles repository.QRVehicleRepository
	tx         repository.TransactionManager
	events     TripEventPublisher
}

func NewTripService(
	trips repository.TripRepository,
	stages repository.StageDataRepository,
	missing repository.MissingEntryRepository,
	options repository.OptionRepository,
	qrVehicles repository.QRVehicleRepository,
	tx repository.TransactionManager,
	events TripEventPublisher,
) TripService {
	return &tripService{
		trips:      trips,
		stages:     stages,
		missing:    missing,
		options:    options,
		qrVehicles: qrVehicles,
		tx:         tx,
		events:     events,
	}
}

func (s *tripService) resolveOption(ctx context.Context, rawID string, optType model.OptionType) (*model.DropdownOption, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrInvalidReference
	}
	opt, err := s.options.GetActive(ctx, id, optType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidReference
		}
		return nil, err
	}
	return opt, nil
}

func selectionOptionType(sel model.SelectionType) model.OptionType {
	switch sel {
	case model.SelectionWayBridge:
		return model.OptionWayBridge
	case model.SelectionLoadingPoint:
		return model.OptionLoadingPoint
	default:
		return model.OptionUnloadingPoint
	}
}

func (s *tripService) StartTrip(ctx context.Context, userID uuid.UUID, req StartTripRequest) (*model.Trip, error) {
	qrCode := strings.TrimSpace(req.QRCode)
	if qrCode == "" {
		return nil, ErrQRCodeRequired
	}
	selType := model.SelectionType(req.SelectionType)
	if !selType.Valid() {
		return nil, ErrInvalidSelection
	}

	project, err := s.resolveOption(ctx, req.ProjectID, model.OptionProject)
	if err != nil {
		return nil, err
	}
	selection, err := s.resolveOption(ctx, req.SelectionID, selectionOptionType(selType))
	if err != nil {
		return nil, err
	}

	trip := &model.Trip{
		UserID:         userID,
		QRCode:         qrCode,
		VehicleNumber:  normalizeVehicleNumber(req.VehicleNumber),
		ProjectID:      project.ID,
		ProjectName:    project.Name,
		SelectionType:  selType,
		SelectionID:    selection.ID,
		SelectionName:  selection.Name,
		Status:         model.TripActive,
		StartLatitude:  req.Latitude,
		StartLongitude: req.Longitude,
	}

	// The existence check, the code-to-vehicle upsert and the insert run
	// in one transaction so two concurrent starts for the same user cannot
	// both pass the check.
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		_, err := s.trips.FindActiveByUser(txCtx, userID)
		if err == nil {
			return ErrActiveTripExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := s.recordQRUsage(txCtx, qrCode, trip.VehicleNumber, userID); err != nil {
			return err
		}
		return s.trips.Create(txCtx, trip)
	})
	if err != nil {
		return nil, err
	}

	s.events.TripStarted(trip)
	return trip, nil
}

// GetActiveTrip returns the caller's active trip, or nil when there is
// none. Having no trip in flight is a normal state, not an error.
func (s *tripService) GetActiveTrip(ctx context.Context, userID uuid.UUID) (*model.Trip, error) {
	trip, err := s.trips.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return trip, nil
}

func (s *tripService) EndTrip(ctx context.Context, userID, tripID uuid.UUID, req EndTripRequest) (*model.Trip, error) {
	return s.closeOwnedTrip(ctx, userID, tripID, model.TripCompleted, req)
}

func (s *tripService) CancelTrip(ctx context.Context, userID, tripID uuid.UUID, reason string) (*model.Trip, error) {
	return s.closeOwnedTrip(ctx, userID, tripID, model.TripCancelled, EndTripRequest{Notes: reason})
}

// closeOwnedTrip transitions an active trip owned by userID to a terminal
// state. A single id+owner+status filter means a miss never reveals whether
// the trip exists, belongs to someone else or is already closed.
func (s *tripService) closeOwnedTrip(ctx context.Context, userID, tripID uuid.UUID, status model.TripStatus, req EndTripRequest) (*model.Trip, error) {
	var trip *model.Trip
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		trip, err = s.trips.GetActiveOwned(txCtx, tripID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTripNotFound
			}
			return err
		}

		now := time.Now()
		trip.Status = status
		trip.EndTime = &now
		trip.EndLatitude = req.Latitude
		trip.EndLongitude = req.Longitude
		if req.Notes != "" {
			trip.Notes = req.Notes
		}
		return s.trips.Update(txCtx, trip)
	})
	if err != nil {
		return nil, err
	}

	s.events.TripClosed(trip)
	return trip, nil
}

func (s *tripService) GetTripHistory(ctx context.Context, userID uuid.UUID, filter repository.TripListFilter) ([]model.Trip, int64, error) {
	return s.trips.ListByUser(ctx, userID, filter)
}

// supersedeActiveTrip cancels a vehicle's still-active trip before a new
// stage capture begins, writing exactly one anomaly snapshot of it. Returns
// the cancelled trip, or nil if the vehicle had none.
func (s *tripService) supersedeActiveTrip(ctx context.Context, userID uuid.UUID, vehicleNumber, reason string) (*model.Trip, error) {
	existing, err := s.trips.FindActiveByVehicle(ctx, vehicleNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}

	now := time.Now()
	entry := &model.MissingUnloadingPointEntry{
		UserID:                userID,
		TripID:                existing.ID,
		VehicleNumber:         vehicleNumber,
		QRCode:                existing.QRCode,
		PreviousProjectID:     &existing.ProjectID,
		PreviousProjectName:   existing.ProjectName,
		PreviousSelectionType: existing.SelectionType,
		PreviousSelectionName: existing.SelectionName,
		TripStartTime:         &existing.StartTime,
		TripEndTime:           &now,
		Reason:                reason,
	}
	if err := s.missing.CreateMissingUnloading(ctx, entry); err != nil {
		return nil, err
	}

	existing.Status = model.TripCancelled
	existing.EndTime = &now
	existing.Notes = "Trip ended due to new trip start. Reason: " + reason
	if err := s.trips.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// recordQRUsage upserts the code-to-vehicle association when a trip starts:
// an unseen code gets a fresh record, a known one is repointed at the
// vehicle and stamped with who used it last.
func (s *tripService) recordQRUsage(ctx context.Context, qrCode, vehicleNumber string, userID uuid.UUID) error {
	now := time.Now()

	qv, err := s.qrVehicles.GetByQRCode(ctx, qrCode)
	switch {
	case err == nil:
		qv.VehicleNumber = vehicleNumber
		qv.LastUsedBy = &userID
		qv.LastUsedAt = &now
		return s.qrVehicles.Update(ctx, qv)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.qrVehicles.Create(ctx, &model.QRVehicle{
			QRCode:        qrCode,
			VehicleNumber: vehicleNumber,
			CreatedBy:     &userID,
			LastUsedBy:    &userID,
			LastUsedAt:    &now,
			IsActive:      true,
		})
	default:
		return err
	}
}

// backfillTransporter links a transporter to the QR association the first
// time one is reported for it.
func (s *tripService) backfillTransporter(ctx context.Context, qrCode string, userID uuid.UUID, transporter *model.DropdownOption) error {
	if qrCode == "" {
		return nil
	}
	qv, err := s.qrVehicles.GetByQRCode(ctx, qrCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if qv.TransporterID != nil {
		return nil
	}

	now := time.Now()
	qv.TransporterID = &transporter.ID
	qv.TransporterName = transporter.Name
	qv.LastUsedBy = &userID
	qv.LastUsedAt = &now
	return s.qrVehicles.Update(ctx, qv)
}

func (s *tripService) SaveWayBridgeData(ctx context.Context, userID uuid.UUID, req SaveWayBridgeRequest) (*StageResult, error) {
	vehicleNumber := normalizeVehicleNumber(req.VehicleNumber)
	qrCode := strings.TrimSpace(req.QRCode)

	wayBridge, err := s.resolveOption(ctx, req.WayBridgeID, model.OptionWayBridge)
	if err != nil {
		return nil, err
	}
	project, err := s.resolveOption(ctx, req.ProjectID, model.OptionProject)
	if err != nil {
		return nil, err
	}
	transporter, err := s.resolveOption(ctx, req.TransporterID, model.OptionTransporter)
	if err != nil {
		return nil, err
	}
	loadingPoint, err := s.resolveOption(ctx, req.LoadingPointID, model.OptionLoadingPoint)
	if err != nil {
		return nil, err
	}

	result := &StageResult{}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		ended, err := s.supersedeActiveTrip(txCtx, userID, vehicleNumber, req.PreviousTripReason)
		if err != nil {
			return err
		}
		result.EndedPreviousTrip = ended

		if err := s.backfillTransporter(txCtx, qrCode, userID, transporter); err != nil {
			return err
		}

		trip := &model.Trip{
			UserID:        userID,
			QRCode:        qrCode,
			VehicleNumber: vehicleNumber,
			ProjectID:     project.ID,
			ProjectName:   project.Name,
			SelectionType: model.SelectionWayBridge,
			SelectionID:   wayBridge.ID,
			SelectionName: wayBridge.Name,
			Status:        model.TripActive,
		}
		if err := s.trips.Create(txCtx, trip); err != nil {
			return err
		}
		result.Trip = trip

		data := &model.WayBridgeData{
			UserID:             userID,
			TripID:             trip.ID,
			QRCode:             qrCode,
			VehicleNumber:      vehicleNumber,
			WayBridgeID:        wayBridge.ID,
			WayBridgeName:      wayBridge.Name,
			ProjectID:          project.ID,
			ProjectName:        project.Name,
			TransporterID:      transporter.ID,
			TransporterName:    transporter.Name,
			LoadingPointID:     loadingPoint.ID,
			LoadingPointName:   loadingPoint.Name,
			WeighBridgeSlipNo:  req.WeighBridgeSlipNo,
			LoadingPointSlipNo: req.LoadingPointSlipNo,
			GrossWeight:        req.GrossWeight,
			TareWeight:         req.TareWeight,
		}
		if err := s.stages.CreateWayBridge(txCtx, data); err != nil {
			return err
		}
		result.WayBridgeData = data
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.EndedPreviousTrip != nil {
		s.events.TripClosed(result.EndedPreviousTrip)
	}
	s.events.TripStarted(result.Trip)
	return result, nil
}

func (s *tripService) SaveLoadingPointData(ctx context.Context, userID uuid.UUID, req SaveLoadingPointRequest) (*StageResult, error) {
	vehicleNumber := normalizeVehicleNumber(req.VehicleNumber)
	qrCode := strings.TrimSpace(req.QRCode)

	loadingPoint, err := s.resolveOption(ctx, req.LoadingPointID, model.OptionLoadingPoint)
	if err != nil {
		return nil, err
	}
	project, err := s.resolveOption(ctx, req.ProjectID, model.OptionProject)
	if err != nil {
		return nil, err
	}
	transporter, err := s.resolveOption(ctx, req.TransporterID, model.OptionTransporter)
	if err != nil {
		return nil, err
	}

	result := &StageResult{}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		ended, err := s.supersedeActiveTrip(txCtx, userID, vehicleNumber, req.PreviousTripReason)
		if err != nil {
			return err
		}
		result.EndedPreviousTrip = ended

		if err := s.backfillTransporter(txCtx, qrCode, userID, transporter); err != nil {
			return err
		}

		trip := &model.Trip{
			UserID:         userID,
			QRCode:         qrCode,
			VehicleNumber:  vehicleNumber,
			ProjectID:      project.ID,
			ProjectName:    project.Name,
			SelectionType:  model.SelectionLoadingPoint,
			SelectionID:    loadingPoint.ID,
			SelectionName:  loadingPoint.Name,
			Status:         model.TripActive,
			Notes:          req.Notes,
			StartLatitude:  req.Latitude,
			StartLongitude: req.Longitude,
		}
		if err := s.trips.Create(txCtx, trip); err != nil {
			return err
		}
		result.Trip = trip

		data := &model.LoadingPointData{
			UserID:           userID,
			TripID:           trip.ID,
			QRCode:           qrCode,
			VehicleNumber:    vehicleNumber,
			LoadingPointID:   loadingPoint.ID,
			LoadingPointName: loadingPoint.Name,
			ProjectID:        project.ID,
			ProjectName:      project.Name,
			TransporterID:    transporter.ID,
			TransporterName:  transporter.Name,
			Notes:            req.Notes,
			Status:           model.LoadingStarted,
		}
		if err := s.stages.CreateLoadingPoint(txCtx, data); err != nil {
			return err
		}
		result.LoadingPointData = data
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.EndedPreviousTrip != nil {
		s.events.TripClosed(result.EndedPreviousTrip)
	}
	s.events.TripStarted(result.Trip)
	return result, nil
}

func (s *tripService) SaveUnloadingPointData(ctx context.Context, userID uuid.UUID, req SaveUnloadingPointRequest) (*UnloadingResult, error) {
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, ErrTripNotActive
	}

	unloadingPoint, err := s.resolveOption(ctx, req.UnloadingPointID, model.OptionUnloadingPoint)
	if err != nil {
		return nil, err
	}
	project, err := s.resolveOption(ctx, req.ProjectID, model.OptionProject)
	if err != nil {
		return nil, err
	}

	result := &UnloadingResult{}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// Unloading may be performed by a different user than the one who
		// started the trip, so only id and status are matched here.
		// A missing or already-closed trip means the caller sent a stale
		// id, so it is rejected as invalid input.
		trip, err := s.trips.GetActiveByIDAny(txCtx, tripID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTripNotActive
			}
			return err
		}

		data := &model.UnloadingPointData{
			UserID:             userID,
			TripID:             trip.ID,
			QRCode:             strings.TrimSpace(req.QRCode),
			VehicleNumber:      normalizeVehicleNumber(req.VehicleNumber),
			WayBridgeSlipNo:    req.WayBridgeSlipNo,
			LoadingPointSlipNo: req.LoadingPointSlipNo,
			LoadingPointName:   req.LoadingPointName,
			WayBridgeName:      req.WayBridgeName,
			GrossWeight:        req.GrossWeight,
			TareWeight:         req.TareWeight,
			NetWeight:          req.NetWeight,
			UnloadingPointID:   unloadingPoint.ID,
			UnloadingPointName: unloadingPoint.Name,
			ProjectID:          project.ID,
			ProjectName:        project.Name,
			Notes:              req.Notes,
		}
		if err := s.stages.CreateUnloadingPoint(txCtx, data); err != nil {
			return err
		}
		result.UnloadingPointData = data

		now := time.Now()
		trip.Status = model.TripCompleted
		trip.EndTime = &now
		if err := s.trips.Update(txCtx, trip); err != nil {
			return err
		}
		result.Trip = trip
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.TripClosed(result.Trip)
	return result, nil
}

func (s *tripService) CheckVehicleActiveTrip(ctx context.Context, vehicleNumber string) (*VehicleTripStatus, error) {
	trip, err := s.trips.FindActiveByVehicle(ctx, normalizeVehicleNumber(vehicleNumber))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &VehicleTripStatus{HasActiveTrip: false}, nil
		}
		return nil, err
	}
	return &VehicleTripStatus{HasActiveTrip: true, Trip: trip}, nil
}

func (s *tripService) GetActiveTripByVehicle(ctx context.Context, vehicleNumber string) (*ActiveTripForUnloading, error) {
	trip, err := s.trips.FindActiveByVehicle(ctx, normalizeVehicleNumber(vehicleNumber))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	// Weighbridge context is best effort; the unloading screen works
	// without it.
	data, err := s.stages.LatestWayBridgeByTrip(ctx, trip.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &ActiveTripForUnloading{Trip: trip, WayBridgeData: data}, nil
}

func (s *tripService) WayBridgeHistory(ctx context.Context, userID uuid.UUID, limit, skip int) ([]model.WayBridgeData, int64, error) {
	return s.stages.ListWayBridgeByUser(ctx, userID, limit, skip)
}

func (s *tripService) LoadingPointHistory(ctx context.Context, userID uuid.UUID, limit, skip int) ([]model.LoadingPointData, int64, error) {
	return s.stages.ListLoadingPointByUser(ctx, userID, limit, skip)
}

func (s *tripService) UnloadingPointHistory(ctx context.Context, userID uuid.UUID, limit, skip int) ([]model.UnloadingPointData, int64, error) {
	return s.stages.ListUnloadingPointByUser(ctx, userID, limit, skip)
}

func (s *tripService) LogMissingLoadingPoint(ctx context.Context, userID uuid.UUID, req LogMissingLoadingRequest) (*model.MissingLoadingPointEntry, error) {
	entry := &model.MissingLoadingPointEntry{
		UserID:             userID,
		VehicleNumber:      normalizeVehicleNumber(req.VehicleNumber),
		QRCode:             strings.TrimSpace(req.QRCode),
		UnloadingPointID:   req.UnloadingPointID,
		UnloadingPointName: req.UnloadingPointName,
		ProjectID:          req.ProjectID,
		ProjectName:        req.ProjectName,
		Reason:             req.Reason,
	}
	if err := s.missing.CreateMissingLoading(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *tripService) MissingLoadingEntries(ctx context.Context, limit, skip int) ([]model.MissingLoadingPointEntry, int64, error) {
	return s.missing.ListMissingLoading(ctx, nil, limit, skip)
}

func (s *tripService) MissingUnloadingEntries(ctx context.Context, limit, skip int) ([]model.MissingUnloadingPointEntry, int64, error) {
	return s.missing.ListMissingUnloading(ctx, nil, limit, skip)
}
