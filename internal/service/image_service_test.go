package service

import (
	"context"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fleettrack/internal/model"
	"fleettrack/internal/repository"
)

func newImageService(t *testing.T, db *gorm.DB) ImageService {
	t.Helper()
	return NewImageService(repository.NewStageDataRepository(db), t.TempDir())
}

func seedUnloadingRecord(t *testing.T, db *gorm.DB) *model.UnloadingPointData {
	t.Helper()
	user := seedUser(t, db, uuid.NewString()+"@example.com")
	point := seedOption(t, db, model.OptionUnloadingPoint, "Site B")
	project := seedOption(t, db, model.OptionProject, "Highway 7")

	record := &model.UnloadingPointData{
		UserID:             user.ID,
		TripID:             uuid.New(),
		VehicleNumber:      "KA01AB1234",
		UnloadingPointID:   point.ID,
		UnloadingPointName: point.Name,
		ProjectID:          project.ID,
		ProjectName:        project.Name,
	}
	require.NoError(t, db.Create(record).Error)
	return record
}

func fileHeader(name string, size int64, contentType string) *multipart.FileHeader {
	h := &multipart.FileHeader{Filename: name, Size: size, Header: textproto.MIMEHeader{}}
	if contentType != "" {
		h.Header.Set("Content-Type", contentType)
	}
	return h
}

func writeStub(t *testing.T) func(dst string) error {
	t.Helper()
	return func(dst string) error {
		return os.WriteFile(dst, []byte("jpegdata"), 0o644)
	}
}

func TestImageUpload(t *testing.T) {
	db := newTestDB(t)
	svc := newImageService(t, db)
	record := seedUnloadingRecord(t, db)
	ctx := context.Background()

	resp, err := svc.Upload(ctx, record.ID, fileHeader("proof.JPG", 1024, "image/jpeg"), writeStub(t))
	require.NoError(t, err)
	assert.Equal(t, ".jpg", filepath.Ext(resp.Filename))

	path, err := svc.PathForRecord(ctx, record.ID)
	require.NoError(t, err)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)

	t.Run("re-upload replaces the previous file", func(t *testing.T) {
		resp2, err := svc.Upload(ctx, record.ID, fileHeader("proof2.png", 512, "image/png"), writeStub(t))
		require.NoError(t, err)
		assert.NotEqual(t, resp.Filename, resp2.Filename)

		_, err = svc.ResolvePath(resp.Filename)
		assert.ErrorIs(t, err, ErrNotFound, "old file removed")
	})

	t.Run("oversized file rejected", func(t *testing.T) {
		_, err := svc.Upload(ctx, record.ID, fileHeader("big.jpg", MaxImageSize+1, "image/jpeg"), writeStub(t))
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("unsupported extension rejected", func(t *testing.T) {
		_, err := svc.Upload(ctx, record.ID, fileHeader("doc.pdf", 100, "application/pdf"), writeStub(t))
		assert.ErrorIs(t, err, ErrUnsupportedImage)
	})

	t.Run("non-image content type rejected", func(t *testing.T) {
		_, err := svc.Upload(ctx, record.ID, fileHeader("sneaky.jpg", 100, "text/html"), writeStub(t))
		assert.ErrorIs(t, err, ErrUnsupportedImage)
	})

	t.Run("unknown record rejected", func(t *testing.T) {
		_, err := svc.Upload(ctx, uuid.New(), fileHeader("proof.jpg", 100, "image/jpeg"), writeStub(t))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestResolvePathRefusesTraversal(t *testing.T) {
	db := newTestDB(t)
	svc := newImageService(t, db)

	_, err := svc.ResolvePath("../../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ResolvePath("..")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteImage(t *testing.T) {
	db := newTestDB(t)
	svc := newImageService(t, db)
	record := seedUnloadingRecord(t, db)
	ctx := context.Background()

	t.Run("nothing to delete", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, record.ID), ErrNotFound)
	})

	resp, err := svc.Upload(ctx, record.ID, fileHeader("proof.jpg", 100, "image/jpeg"), writeStub(t))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, record.ID))
	_, err = svc.ResolvePath(resp.Filename)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.PathForRecord(ctx, record.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
