package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fleettrack/internal/model"
	"fleettrack/internal/repository"
)

func newTelemetryService(db *gorm.DB) TelemetryService {
	return NewTelemetryService(repository.NewLocationRepository(db), nopEvents{})
}

func TestIngestBatch(t *testing.T) {
	db := newTestDB(t)
	svc := newTelemetryService(db)
	user := seedUser(t, db, "driver@example.com")
	ctx := context.Background()

	earlier := time.Now().Add(-time.Minute)
	count, err := svc.IngestBatch(ctx, user.ID, IngestBatchRequest{
		Points: []LocationPoint{
			{Latitude: 12.97, Longitude: 77.59, Activity: "driving", Timestamp: &earlier},
			{Latitude: 12.98, Longitude: 77.60},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	points, total, err := svc.History(ctx, user.ID, LocationHistoryRequest{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, points, 2)

	latest, err := svc.Latest(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ActivityUnknown, latest.Activity, "missing activity defaults to unknown")

	t.Run("empty batch is a no-op", func(t *testing.T) {
		count, err := svc.IngestBatch(ctx, user.ID, IngestBatchRequest{})
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("oversized batch is rejected", func(t *testing.T) {
		points := make([]LocationPoint, MaxTelemetryBatch+1)
		for i := range points {
			points[i] = LocationPoint{Latitude: 1, Longitude: 1}
		}
		_, err := svc.IngestBatch(ctx, user.ID, IngestBatchRequest{Points: points})
		assert.ErrorIs(t, err, ErrBatchTooLarge)
	})

	t.Run("out-of-range coordinates reject the whole batch", func(t *testing.T) {
		_, err := svc.IngestBatch(ctx, user.ID, IngestBatchRequest{
			Points: []LocationPoint{
				{Latitude: 10, Longitude: 10},
				{Latitude: 91, Longitude: 10},
			},
		})
		assert.ErrorIs(t, err, ErrInvalidLocation)

		_, total, err := svc.History(ctx, user.ID, LocationHistoryRequest{Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total, "nothing from the bad batch persisted")
	})

	t.Run("unknown activity label is rejected", func(t *testing.T) {
		_, err := svc.IngestBatch(ctx, user.ID, IngestBatchRequest{
			Points: []LocationPoint{{Latitude: 1, Longitude: 1, Activity: "flying"}},
		})
		assert.ErrorIs(t, err, ErrInvalidLocation)
	})
}

func TestHistoryTimeWindow(t *testing.T) {
	db := newTestDB(t)
	svc := newTelemetryService(db)
	user := seedUser(t, db, "driver@example.com")
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	recent := time.Now().Add(-1 * time.Hour)
	_, err := svc.IngestBatch(ctx, user.ID, IngestBatchRequest{
		Points: []LocationPoint{
			{Latitude: 1, Longitude: 1, Timestamp: &old},
			{Latitude: 2, Longitude: 2, Timestamp: &recent},
		},
	})
	require.NoError(t, err)

	from := time.Now().Add(-24 * time.Hour)
	points, total, err := svc.History(ctx, user.ID, LocationHistoryRequest{From: &from, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, points, 1)
	assert.Equal(t, 2.0, points[0].Latitude)
}

func TestPurgeOlderThan(t *testing.T) {
	db := newTestDB(t)
	svc := newTelemetryService(db)
	user := seedUser(t, db, "driver@example.com")
	ctx := context.Background()

	old := time.Now().Add(-100 * 24 * time.Hour)
	_, err := svc.IngestBatch(ctx, user.ID, IngestBatchRequest{
		Points: []LocationPoint{
			{Latitude: 1, Longitude: 1, Timestamp: &old},
			{Latitude: 2, Longitude: 2},
		},
	})
	require.NoError(t, err)

	deleted, err := svc.PurgeOlderThan(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	_, total, err := svc.History(ctx, user.ID, LocationHistoryRequest{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
