package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fleettrack/internal/model"
	"fleettrack/internal/repository"
)

type tripFixture struct {
	db           *gorm.DB
	svc          TripService
	user         *model.User
	project      *model.DropdownOption
	wayBridge    *model.DropdownOption
	loadingPoint *model.DropdownOption
	unloading    *model.DropdownOption
	transporter  *model.DropdownOption
}

func newTripFixture(t *testing.T) *tripFixture {
	db := newTestDB(t)
	return &tripFixture{
		db:           db,
		svc:          newTripService(db),
		user:         seedUser(t, db, "driver@example.com"),
		project:      seedOption(t, db, model.OptionProject, "Dam Site A"),
		wayBridge:    seedOption(t, db, model.OptionWayBridge, "WB-1"),
		loadingPoint: seedOption(t, db, model.OptionLoadingPoint, "Quarry North"),
		unloading:    seedOption(t, db, model.OptionUnloadingPoint, "Dump Yard 3"),
		transporter:  seedOption(t, db, model.OptionTransporter, "ACME Logistics"),
	}
}

func (f *tripFixture) startTrip(t *testing.T, vehicle string) *model.Trip {
	t.Helper()
	trip, err := f.svc.StartTrip(context.Background(), f.user.ID, StartTripRequest{
		QRCode:        "QR-" + vehicle,
		VehicleNumber: vehicle,
		ProjectID:     f.project.ID.String(),
		SelectionType: "loading_point",
		SelectionID:   f.loadingPoint.ID.String(),
	})
	require.NoError(t, err)
	return trip
}

func TestStartTrip(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()

	trip := f.startTrip(t, "ka01ab1234")

	assert.Equal(t, model.TripActive, trip.Status)
	assert.Equal(t, "KA01AB1234", trip.VehicleNumber, "vehicle number is uppercased")
	assert.Equal(t, f.project.Name, trip.ProjectName)
	assert.Equal(t, f.loadingPoint.Name, trip.SelectionName)
	assert.False(t, trip.StartTime.IsZero())

	t.Run("scanned code is recorded against the vehicle", func(t *testing.T) {
		var qv model.QRVehicle
		require.NoError(t, f.db.First(&qv, "qr_code = ?", "QR-ka01ab1234").Error)
		assert.Equal(t, "KA01AB1234", qv.VehicleNumber)
		require.NotNil(t, qv.CreatedBy)
		assert.Equal(t, f.user.ID, *qv.CreatedBy)
		require.NotNil(t, qv.LastUsedBy)
		assert.Equal(t, f.user.ID, *qv.LastUsedBy)
		assert.NotNil(t, qv.LastUsedAt)
	})

	t.Run("second active trip for same user is rejected", func(t *testing.T) {
		_, err := f.svc.StartTrip(ctx, f.user.ID, StartTripRequest{
			QRCode:        "QR-KA02CD5678",
			VehicleNumber: "KA02CD5678",
			ProjectID:     f.project.ID.String(),
			SelectionType: "loading_point",
			SelectionID:   f.loadingPoint.ID.String(),
		})
		assert.ErrorIs(t, err, ErrActiveTripExists)
	})

	t.Run("inactive project is rejected", func(t *testing.T) {
		db := newTestDB(t)
		svc := newTripService(db)
		user := seedUser(t, db, "other@example.com")
		project := seedOption(t, db, model.OptionProject, "Closed Project")
		point := seedOption(t, db, model.OptionLoadingPoint, "LP")
		require.NoError(t, db.Model(project).Update("is_active", false).Error)

		_, err := svc.StartTrip(ctx, user.ID, StartTripRequest{
			QRCode:        "QR-KA03EF9999",
			VehicleNumber: "KA03EF9999",
			ProjectID:     project.ID.String(),
			SelectionType: "loading_point",
			SelectionID:   point.ID.String(),
		})
		assert.ErrorIs(t, err, ErrInvalidReference)
	})

	t.Run("unknown selection type is rejected", func(t *testing.T) {
		_, err := f.svc.StartTrip(ctx, f.user.ID, StartTripRequest{
			QRCode:        "QR-KA04GH0000",
			VehicleNumber: "KA04GH0000",
			ProjectID:     f.project.ID.String(),
			SelectionType: "teleporter",
			SelectionID:   f.loadingPoint.ID.String(),
		})
		assert.ErrorIs(t, err, ErrInvalidSelection)
	})

	t.Run("blank qr code is rejected", func(t *testing.T) {
		_, err := f.svc.StartTrip(ctx, f.user.ID, StartTripRequest{
			QRCode:        "   ",
			VehicleNumber: "KA04GH0000",
			ProjectID:     f.project.ID.String(),
			SelectionType: "loading_point",
			SelectionID:   f.loadingPoint.ID.String(),
		})
		assert.ErrorIs(t, err, ErrQRCodeRequired)
	})
}

func TestStartTripRepointsKnownCode(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()

	assoc := newAssociationService(f.db)
	seeded, err := assoc.AssociateQRToVehicle(ctx, AssociateQRRequest{QRCode: "QR-SHARED", VehicleNumber: "KA01AB1234"}, f.user.ID)
	require.NoError(t, err)

	scanner := seedUser(t, f.db, "scanner@example.com")
	_, err = f.svc.StartTrip(ctx, scanner.ID, StartTripRequest{
		QRCode:        "QR-SHARED",
		VehicleNumber: "ka09zz0001",
		ProjectID:     f.project.ID.String(),
		SelectionType: "loading_point",
		SelectionID:   f.loadingPoint.ID.String(),
	})
	require.NoError(t, err)

	// The code now points at the vehicle it was last scanned on, stamped
	// with the scanning user; no second record appears.
	var count int64
	require.NoError(t, f.db.Model(&model.QRVehicle{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var qv model.QRVehicle
	require.NoError(t, f.db.First(&qv, "qr_code = ?", "QR-SHARED").Error)
	assert.Equal(t, seeded.ID, qv.ID)
	assert.Equal(t, "KA09ZZ0001", qv.VehicleNumber)
	require.NotNil(t, qv.LastUsedBy)
	assert.Equal(t, scanner.ID, *qv.LastUsedBy)
}

func TestGetActiveTripWhenIdle(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()

	trip, err := f.svc.GetActiveTrip(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Nil(t, trip, "an idle user has no active trip and no error")

	started := f.startTrip(t, "KA01AB1234")
	active, err := f.svc.GetActiveTrip(ctx, f.user.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, started.ID, active.ID)
}

func TestEndTrip(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()

	trip := f.startTrip(t, "KA01AB1234")

	lat, lon := 12.97, 77.59
	ended, err := f.svc.EndTrip(ctx, f.user.ID, trip.ID, EndTripRequest{
		Latitude:  &lat,
		Longitude: &lon,
		Notes:     "delivered",
	})
	require.NoError(t, err)

	assert.Equal(t, model.TripCompleted, ended.Status)
	require.NotNil(t, ended.EndTime)
	assert.Equal(t, "delivered", ended.Notes)

	t.Run("terminal trips are immutable", func(t *testing.T) {
		_, err := f.svc.EndTrip(ctx, f.user.ID, trip.ID, EndTripRequest{})
		assert.ErrorIs(t, err, ErrTripNotFound)

		_, err = f.svc.CancelTrip(ctx, f.user.ID, trip.ID, "changed my mind")
		assert.ErrorIs(t, err, ErrTripNotFound)
	})

	t.Run("non-owned trip reads as not found", func(t *testing.T) {
		other := seedUser(t, f.db, "second@example.com")
		trip := f.startTrip(t, "KA05XY1111")

		_, err := f.svc.EndTrip(ctx, other.ID, trip.ID, EndTripRequest{})
		assert.ErrorIs(t, err, ErrTripNotFound)

		// Still active for the owner.
		active, err := f.svc.GetActiveTrip(ctx, f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, trip.ID, active.ID)
	})
}

func TestCancelTrip(t *testing.T) {
	f := newTripFixture(t)

	trip := f.startTrip(t, "KA01AB1234")
	cancelled, err := f.svc.CancelTrip(context.Background(), f.user.ID, trip.ID, "wrong vehicle scanned")
	require.NoError(t, err)

	assert.Equal(t, model.TripCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.EndTime)
	assert.Equal(t, "wrong vehicle scanned", cancelled.Notes)
}

func TestSaveWayBridgeData(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()

	req := SaveWayBridgeRequest{
		VehicleNumber:     "ka01ab1234",
		WayBridgeID:       f.wayBridge.ID.String(),
		ProjectID:         f.project.ID.String(),
		TransporterID:     f.transporter.ID.String(),
		LoadingPointID:    f.loadingPoint.ID.String(),
		WeighBridgeSlipNo: "WB-0042",
		GrossWeight:       decimal.NewFromFloat(32.5),
		TareWeight:        decimal.NewFromFloat(12.5),
	}

	result, err := f.svc.SaveWayBridgeData(ctx, f.user.ID, req)
	require.NoError(t, err)

	assert.Nil(t, result.EndedPreviousTrip)
	require.NotNil(t, result.Trip)
	assert.Equal(t, model.TripActive, result.Trip.Status)
	assert.Equal(t, model.SelectionWayBridge, result.Trip.SelectionType)
	assert.Equal(t, "KA01AB1234", result.Trip.VehicleNumber)

	require.NotNil(t, result.WayBridgeData)
	assert.Equal(t, result.Trip.ID, result.WayBridgeData.TripID)
	assert.True(t, result.WayBridgeData.NetWeight.Equal(decimal.NewFromFloat(20)),
		"net weight is derived as gross minus tare, got %s", result.WayBridgeData.NetWeight)
}

func TestStageSupersedesActiveVehicleTrip(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()

	previous := f.startTrip(t, "KA01AB1234")

	req := SaveWayBridgeRequest{
		VehicleNumber:  "KA01AB1234",
		WayBridgeID:    f.wayBridge.ID.String(),
		ProjectID:      f.project.ID.String(),
		TransporterID:  f.transporter.ID.String(),
		LoadingPointID: f.loadingPoint.ID.String(),
		GrossWeight:    decimal.NewFromInt(30),
		TareWeight:     decimal.NewFromInt(10),
	}

	// Without a reason the whole capture is rejected and nothing changes.
	_, err := f.svc.SaveWayBridgeData(ctx, f.user.ID, req)
	assert.ErrorIs(t, err, ErrReasonRequired)

	var tripCount int64
	require.NoError(t, f.db.Model(&model.Trip{}).Count(&tripCount).Error)
	assert.EqualValues(t, 1, tripCount)

	still, err := f.svc.GetActiveTrip(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, previous.ID, still.ID)

	// With a reason the stale trip is cancelled and exactly one anomaly
	// snapshot is written.
	req.PreviousTripReason = "forgot to unload"
	result, err := f.svc.SaveWayBridgeData(ctx, f.user.ID, req)
	require.NoError(t, err)

	require.NotNil(t, result.EndedPreviousTrip)
	assert.Equal(t, previous.ID, result.EndedPreviousTrip.ID)
	assert.Equal(t, model.TripCancelled, result.EndedPreviousTrip.Status)
	assert.Equal(t, "Trip ended due to new trip start. Reason: forgot to unload", result.EndedPreviousTrip.Notes)

	var entries []model.MissingUnloadingPointEntry
	require.NoError(t, f.db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, previous.ID, entries[0].TripID)
	assert.Equal(t, "forgot to unload", entries[0].Reason)
	assert.Equal(t, previous.ProjectName, entries[0].PreviousProjectName)
	assert.Equal(t, previous.SelectionType, entries[0].PreviousSelectionType)
}

func TestSaveLoadingPointData(t *testing.T) {
	f := newTripFixture(t)

	result, err := f.svc.SaveLoadingPointData(context.Background(), f.user.ID, SaveLoadingPointRequest{
		VehicleNumber:  "KA01AB1234",
		LoadingPointID: f.loadingPoint.ID.String(),
		ProjectID:      f.project.ID.String(),
		TransporterID:  f.transporter.ID.String(),
		Notes:          "first load of the day",
	})
	require.NoError(t, err)

	assert.Equal(t, model.SelectionLoadingPoint, result.Trip.SelectionType)
	require.NotNil(t, result.LoadingPointData)
	assert.Equal(t, model.LoadingStarted, result.LoadingPointData.Status)
	assert.Equal(t, result.Trip.ID, result.LoadingPointData.TripID)
}

func TestStageInvalidReferenceIsAllOrNothing(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()

	badID := f.project.ID.String() // a project id is not a transporter
	_, err := f.svc.SaveLoadingPointData(ctx, f.user.ID, SaveLoadingPointRequest{
		VehicleNumber:  "KA01AB1234",
		LoadingPointID: f.loadingPoint.ID.String(),
		ProjectID:      f.project.ID.String(),
		TransporterID:  badID,
	})
	assert.ErrorIs(t, err, ErrInvalidReference)

	var tripCount, stageCount int64
	require.NoError(t, f.db.Model(&model.Trip{}).Count(&tripCount).Error)
	require.NoError(t, f.db.Model(&model.LoadingPointData{}).Count(&stageCount).Error)
	assert.Zero(t, tripCount)
	assert.Zero(t, stageCount)
}

func TestSaveUnloadingPointData(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()

	trip := f.startTrip(t, "KA01AB1234")

	req := SaveUnloadingPointRequest{
		TripID:           trip.ID.String(),
		VehicleNumber:    "KA01AB1234",
		GrossWeight:      decimal.NewFromInt(30),
		TareWeight:       decimal.NewFromInt(10),
		NetWeight:        decimal.NewFromInt(20),
		UnloadingPointID: f.unloading.ID.String(),
		ProjectID:        f.project.ID.String(),
	}

	// A different user than the trip owner may unload.
	other := seedUser(t, f.db, "unloader@example.com")
	result, err := f.svc.SaveUnloadingPointData(ctx, other.ID, req)
	require.NoError(t, err)

	assert.Equal(t, model.TripCompleted, result.Trip.Status)
	assert.NotNil(t, result.Trip.EndTime)
	assert.Equal(t, f.unloading.Name, result.UnloadingPointData.UnloadingPointName)
	assert.Equal(t, other.ID, result.UnloadingPointData.UserID)

	t.Run("closed trip cannot be unloaded again", func(t *testing.T) {
		_, err := f.svc.SaveUnloadingPointData(ctx, f.user.ID, req)
		assert.ErrorIs(t, err, ErrTripNotActive)
	})

	t.Run("unknown trip id reads the same as a closed one", func(t *testing.T) {
		stale := req
		stale.TripID = uuid.NewString()
		_, err := f.svc.SaveUnloadingPointData(ctx, f.user.ID, stale)
		assert.ErrorIs(t, err, ErrTripNotActive)
	})
}

func TestTripHistoryPagination(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		trip := f.startTrip(t, "KA01AB1234")
		_, err := f.svc.EndTrip(ctx, f.user.ID, trip.ID, EndTripRequest{})
		require.NoError(t, err)
	}

	page, total, err := f.svc.GetTripHistory(ctx, f.user.ID, repository.TripListFilter{Limit: 2, Skip: 0})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page, 2)

	last, total, err := f.svc.GetTripHistory(ctx, f.user.ID, repository.TripListFilter{Limit: 2, Skip: 4})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, last, 1)

	completed, _, err := f.svc.GetTripHistory(ctx, f.user.ID, repository.TripListFilter{
		Status: model.TripCompleted, Limit: 10,
	})
	require.NoError(t, err)
	assert.Len(t, completed, 5)
}

func TestCheckVehicleActiveTrip(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()

	status, err := f.svc.CheckVehicleActiveTrip(ctx, "KA01AB1234")
	require.NoError(t, err)
	assert.False(t, status.HasActiveTrip)
	assert.Nil(t, status.Trip)

	trip := f.startTrip(t, "KA01AB1234")

	status, err = f.svc.CheckVehicleActiveTrip(ctx, "ka01ab1234")
	require.NoError(t, err)
	assert.True(t, status.HasActiveTrip)
	require.NotNil(t, status.Trip)
	assert.Equal(t, trip.ID, status.Trip.ID)
}

func TestLogMissingLoadingPoint(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()

	entry, err := f.svc.LogMissingLoadingPoint(ctx, f.user.ID, LogMissingLoadingRequest{
		VehicleNumber: "ka01ab1234",
	})
	require.NoError(t, err)
	assert.Equal(t, "KA01AB1234", entry.VehicleNumber)
	assert.Equal(t, "Loading point entry missing", entry.Reason, "default reason applies")

	entries, total, err := f.svc.MissingLoadingEntries(ctx, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].User)
	assert.Equal(t, f.user.Email, entries[0].User.Email)
}
