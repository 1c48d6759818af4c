package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fleettrack/internal/model"
	"fleettrack/internal/repository"
)

func newAssociationService(db *gorm.DB) AssociationService {
	return NewAssociationService(repository.NewQRVehicleRepository(db), repository.NewOptionRepository(db))
}

func TestAssociate(t *testing.T) {
	db := newTestDB(t)
	svc := newAssociationService(db)
	user := seedUser(t, db, "driver@example.com")
	transporter := seedOption(t, db, model.OptionTransporter, "ACME Logistics")
	ctx := context.Background()

	qv, err := svc.Associate(ctx, AssociateVehicleRequest{
		QRCode:        "QR-123",
		VehicleNumber: "ka01ab1234",
		TransporterID: transporter.ID,
	}, user.ID)
	require.NoError(t, err)

	assert.Equal(t, "QR-123", qv.QRCode)
	assert.Equal(t, "KA01AB1234", qv.VehicleNumber)
	assert.Equal(t, "ACME Logistics", qv.TransporterName)
	assert.NotNil(t, qv.LastUsedAt)

	t.Run("re-association repoints the code", func(t *testing.T) {
		updated, err := svc.Associate(ctx, AssociateVehicleRequest{
			QRCode:        "QR-123",
			VehicleNumber: "KA09ZZ0001",
			TransporterID: transporter.ID,
		}, user.ID)
		require.NoError(t, err)
		assert.Equal(t, qv.ID, updated.ID)
		assert.Equal(t, "KA09ZZ0001", updated.VehicleNumber)
	})

	t.Run("transporter must be an active transporter option", func(t *testing.T) {
		project := seedOption(t, db, model.OptionProject, "Not A Transporter")
		_, err := svc.Associate(ctx, AssociateVehicleRequest{
			QRCode:        "QR-999",
			VehicleNumber: "KA11AA1111",
			TransporterID: project.ID,
		}, user.ID)
		assert.ErrorIs(t, err, ErrInvalidReference)
	})
}

func TestCheckQR(t *testing.T) {
	db := newTestDB(t)
	svc := newAssociationService(db)
	user := seedUser(t, db, "driver@example.com")
	ctx := context.Background()

	t.Run("unknown code reads as absent, not an error", func(t *testing.T) {
		result, err := svc.CheckQR(ctx, "QR-404")
		require.NoError(t, err)
		assert.False(t, result.HasVehicle)
		assert.Equal(t, "QR-404", result.QRCode)
		assert.Empty(t, result.VehicleNumber)
	})

	_, err := svc.AssociateQRToVehicle(ctx, AssociateQRRequest{QRCode: "QR-123", VehicleNumber: "KA01AB1234"}, user.ID)
	require.NoError(t, err)

	result, err := svc.CheckQR(ctx, "QR-123")
	require.NoError(t, err)
	assert.True(t, result.HasVehicle)
	assert.Equal(t, "KA01AB1234", result.VehicleNumber)

	t.Run("checking leaves the usage stamp alone", func(t *testing.T) {
		var before model.QRVehicle
		require.NoError(t, db.First(&before, "qr_code = ?", "QR-123").Error)

		_, err := svc.CheckQR(ctx, "QR-123")
		require.NoError(t, err)

		var after model.QRVehicle
		require.NoError(t, db.First(&after, "qr_code = ?", "QR-123").Error)
		require.NotNil(t, after.LastUsedBy)
		assert.Equal(t, *before.LastUsedBy, *after.LastUsedBy)
		assert.Equal(t, before.LastUsedAt.UnixNano(), after.LastUsedAt.UnixNano())
	})
}

func TestCheckVehicle(t *testing.T) {
	db := newTestDB(t)
	svc := newAssociationService(db)
	user := seedUser(t, db, "driver@example.com")
	transporter := seedOption(t, db, model.OptionTransporter, "ACME Logistics")
	ctx := context.Background()

	t.Run("unknown vehicle reads as absent, not an error", func(t *testing.T) {
		result, err := svc.CheckVehicle(ctx, "ka99zz9999")
		require.NoError(t, err)
		assert.False(t, result.HasTransporter)
		assert.Equal(t, "KA99ZZ9999", result.VehicleNumber)
	})

	t.Run("vehicle without transporter reports its code only", func(t *testing.T) {
		_, err := svc.AssociateQRToVehicle(ctx, AssociateQRRequest{QRCode: "QR-777", VehicleNumber: "KA07CD7777"}, user.ID)
		require.NoError(t, err)

		result, err := svc.CheckVehicle(ctx, "KA07CD7777")
		require.NoError(t, err)
		assert.False(t, result.HasTransporter)
		assert.Equal(t, "QR-777", result.QRCode)
	})

	_, err := svc.Associate(ctx, AssociateVehicleRequest{
		QRCode:        "QR-123",
		VehicleNumber: "KA01AB1234",
		TransporterID: transporter.ID,
	}, user.ID)
	require.NoError(t, err)

	result, err := svc.CheckVehicle(ctx, "ka01ab1234")
	require.NoError(t, err)
	assert.True(t, result.HasTransporter)
	assert.Equal(t, transporter.ID, *result.TransporterID)
	assert.Equal(t, "ACME Logistics", result.TransporterName)
	assert.Equal(t, "QR-123", result.QRCode)
}

func TestAssociateQRToVehicle(t *testing.T) {
	db := newTestDB(t)
	svc := newAssociationService(db)
	user := seedUser(t, db, "driver@example.com")
	ctx := context.Background()

	qv, err := svc.AssociateQRToVehicle(ctx, AssociateQRRequest{QRCode: "QR-123", VehicleNumber: "ka01ab1234"}, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "QR-123", qv.QRCode)
	assert.Equal(t, "KA01AB1234", qv.VehicleNumber)
	require.NotNil(t, qv.LastUsedAt)

	t.Run("same code repoints to the new vehicle", func(t *testing.T) {
		again, err := svc.AssociateQRToVehicle(ctx, AssociateQRRequest{QRCode: "QR-123", VehicleNumber: "KA09ZZ0001"}, user.ID)
		require.NoError(t, err)
		assert.Equal(t, qv.ID, again.ID)
		assert.Equal(t, "KA09ZZ0001", again.VehicleNumber)
	})

	t.Run("transporter assignment survives re-association", func(t *testing.T) {
		transporter := seedOption(t, db, model.OptionTransporter, "ACME Logistics")
		_, err := svc.AssignTransporter(ctx, AssignTransporterRequest{
			VehicleNumber: "KA09ZZ0001",
			TransporterID: transporter.ID,
		}, user.ID)
		require.NoError(t, err)

		updated, err := svc.AssociateQRToVehicle(ctx, AssociateQRRequest{QRCode: "QR-123", VehicleNumber: "KA11AA1111"}, user.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.TransporterID)
		assert.Equal(t, transporter.ID, *updated.TransporterID)
	})
}

func TestAssignTransporter(t *testing.T) {
	db := newTestDB(t)
	svc := newAssociationService(db)
	user := seedUser(t, db, "driver@example.com")
	transporter := seedOption(t, db, model.OptionTransporter, "ACME Logistics")
	ctx := context.Background()

	t.Run("unseen vehicle gets a fresh record with a synthesized code", func(t *testing.T) {
		qv, err := svc.AssignTransporter(ctx, AssignTransporterRequest{
			VehicleNumber: "ka01ab1234",
			TransporterID: transporter.ID,
		}, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "VEHICLE_KA01AB1234", qv.QRCode)
		assert.Equal(t, "KA01AB1234", qv.VehicleNumber)
		require.NotNil(t, qv.TransporterID)
		assert.Equal(t, transporter.ID, *qv.TransporterID)
	})

	t.Run("existing vehicle is updated in place", func(t *testing.T) {
		other := seedOption(t, db, model.OptionTransporter, "Globex Freight")
		qv, err := svc.AssignTransporter(ctx, AssignTransporterRequest{
			VehicleNumber: "KA01AB1234",
			TransporterID: other.ID,
		}, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "VEHICLE_KA01AB1234", qv.QRCode)
		assert.Equal(t, "Globex Freight", qv.TransporterName)
	})

	t.Run("scanned code wins over the vehicle number", func(t *testing.T) {
		_, err := svc.AssociateQRToVehicle(ctx, AssociateQRRequest{QRCode: "QR-555", VehicleNumber: "KA05EF5555"}, user.ID)
		require.NoError(t, err)

		qv, err := svc.AssignTransporter(ctx, AssignTransporterRequest{
			VehicleNumber: "KA05EF5555",
			TransporterID: transporter.ID,
			QRCode:        "QR-555",
		}, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "QR-555", qv.QRCode)
		require.NotNil(t, qv.TransporterID)
		assert.Equal(t, transporter.ID, *qv.TransporterID)
	})

	t.Run("inactive transporter option is rejected", func(t *testing.T) {
		project := seedOption(t, db, model.OptionProject, "Not A Transporter")
		_, err := svc.AssignTransporter(ctx, AssignTransporterRequest{
			VehicleNumber: "KA01AB1234",
			TransporterID: project.ID,
		}, user.ID)
		assert.ErrorIs(t, err, ErrInvalidReference)
	})
}
