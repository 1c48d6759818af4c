package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fleettrack/internal/model"
	"fleettrack/internal/repository"
)

// MaxTelemetryBatch caps how many points one ingest call may carry.
const MaxTelemetryBatch = 100

// --- DTOs ---

type LocationPoint struct {
	Latitude        float64    `json:"latitude" binding:"required"`
	Longitude       float64    `json:"longitude" binding:"required"`
	Accuracy        *float64   `json:"accuracy"`
	Altitude        *float64   `json:"altitude"`
	Speed           *float64   `json:"speed"`
	Heading         *float64   `json:"heading"`
	BatteryLevel    *int       `json:"battery_level"`
	BatteryCharging *bool      `json:"battery_charging"`
	Timestamp       *time.Time `json:"timestamp"`
	Activity        string     `json:"activity"`
}

type IngestBatchRequest struct {
	Points []LocationPoint `json:"points" binding:"required"`
}

type LocationHistoryRequest struct {
	From  *time.Time
	To    *time.Time
	Limit int
	Skip  int
}

// TelemetryService ingests device location batches and serves history.
type TelemetryService interface {
	IngestBatch(ctx context.Context, userID uuid.UUID, req IngestBatchRequest) (int, error)
	History(ctx context.Context, userID uuid.UUID, req LocationHistoryRequest) ([]model.Location, int64, error)
	Latest(ctx context.Context, userID uuid.UUID) (*model.Location, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// TelemetryEventPublisher is notified as fresh positions land so live
// dashboards can follow along.
type TelemetryEventPublisher interface {
	LocationUpdated(userID uuid.UUID, point *model.Location)
}

type telemetryService struct {
	locations repository.LocationRepository
	events    TelemetryEventPublisher
}

func NewTelemetryService(locations repository.LocationRepository, events TelemetryEventPublisher) TelemetryService {
	return &telemetryService{locations: locations, events: events}
}

func (s *telemetryService) IngestBatch(ctx context.Context, userID uuid.UUID, req IngestBatchRequest) (int, error) {
	if len(req.Points) == 0 {
		return 0, nil
	}
	if len(req.Points) > MaxTelemetryBatch {
		return 0, ErrBatchTooLarge
	}

	points := make([]model.Location, 0, len(req.Points))
	for _, p := range req.Points {
		if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
			return 0, ErrInvalidLocation
		}
		activity := model.Activity(p.Activity)
		if p.Activity != "" && !activity.Valid() {
			return 0, ErrInvalidLocation
		}

		point := model.Location{
			UserID:          userID,
			Latitude:        p.Latitude,
			Longitude:       p.Longitude,
			Accuracy:        p.Accuracy,
			Altitude:        p.Altitude,
			Speed:           p.Speed,
			Heading:         p.Heading,
			BatteryLevel:    p.BatteryLevel,
			BatteryCharging: p.BatteryCharging,
			Activity:        activity,
		}
		if p.Timestamp != nil {
			point.Timestamp = *p.Timestamp
		}
		points = append(points, point)
	}

	if err := s.locations.CreateBatch(ctx, points); err != nil {
		return 0, err
	}

	// Only the newest point matters for the live view.
	latest := &points[len(points)-1]
	s.events.LocationUpdated(userID, latest)

	return len(points), nil
}

func (s *telemetryService) History(ctx context.Context, userID uuid.UUID, req LocationHistoryRequest) ([]model.Location, int64, error) {
	return s.locations.List(ctx, repository.LocationListFilter{
		UserID: userID,
		From:   req.From,
		To:     req.To,
		Limit:  req.Limit,
		Skip:   req.Skip,
	})
}

func (s *telemetryService) Latest(ctx context.Context, userID uuid.UUID) (*model.Location, error) {
	point, err := s.locations.Latest(ctx, userID)
	if err != nil {
		return nil, ErrNotFound
	}
	return point, nil
}

func (s *telemetryService) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.locations.DeleteOlderThan(ctx, cutoff)
}
