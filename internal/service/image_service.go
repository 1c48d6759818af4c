package service

import (
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleettrack/internal/repository"
)

// MaxImageSize caps uploads at 10 MB.
const MaxImageSize = 10 << 20

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".heic": true,
}

type ImageUploadResponse struct {
	Filename string    `json:"filename"`
	RecordID uuid.UUID `json:"record_id"`
	Size     int64     `json:"size"`
}

// ImageService stores proof-of-delivery photos for unloading records.
// Files live on disk under a configured base directory; the record keeps
// only the generated filename.
type ImageService interface {
	Upload(ctx context.Context, recordID uuid.UUID, file *multipart.FileHeader, save func(dst string) error) (*ImageUploadResponse, error)
	ResolvePath(filename string) (string, error)
	PathForRecord(ctx context.Context, recordID uuid.UUID) (string, error)
	Delete(ctx context.Context, recordID uuid.UUID) error
}

type imageService struct {
	records repository.StageDataRepository
	baseDir string
}

func NewImageService(records repository.StageDataRepository, baseDir string) ImageService {
	return &imageService{records: records, baseDir: baseDir}
}

func (s *imageService) Upload(ctx context.Context, recordID uuid.UUID, file *multipart.FileHeader, save func(dst string) error) (*ImageUploadResponse, error) {
	if file.Size > MaxImageSize {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		return nil, ErrUnsupportedImage
	}
	contentType := file.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, ErrUnsupportedImage
	}

	record, err := s.records.GetUnloadingPointByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return nil, err
	}

	filename := uuid.New().String() + ext
	dst := filepath.Join(s.baseDir, filename)
	if err := save(dst); err != nil {
		return nil, err
	}

	// Replace, not accumulate: a re-upload discards the old file.
	if record.ImagePath != "" {
		_ = os.Remove(filepath.Join(s.baseDir, record.ImagePath))
	}

	record.ImagePath = filename
	if err := s.records.UpdateUnloadingPoint(ctx, record); err != nil {
		_ = os.Remove(dst)
		return nil, err
	}

	return &ImageUploadResponse{
		Filename: filename,
		RecordID: record.ID,
		Size:     file.Size,
	}, nil
}

// ResolvePath maps a stored filename back to its on-disk path, refusing
// anything that would escape the image directory.
func (s *imageService) ResolvePath(filename string) (string, error) {
	clean := filepath.Base(filepath.Clean(filename))
	if clean == "." || clean == ".." || clean == "" {
		return "", ErrNotFound
	}

	path := filepath.Join(s.baseDir, clean)
	if _, err := os.Stat(path); err != nil {
		return "", ErrNotFound
	}
	return path, nil
}

func (s *imageService) PathForRecord(ctx context.Context, recordID uuid.UUID) (string, error) {
	record, err := s.records.GetUnloadingPointByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if record.ImagePath == "" {
		return "", ErrNotFound
	}
	return s.ResolvePath(record.ImagePath)
}

func (s *imageService) Delete(ctx context.Context, recordID uuid.UUID) error {
	record, err := s.records.GetUnloadingPointByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if record.ImagePath == "" {
		return ErrNotFound
	}

	_ = os.Remove(filepath.Join(s.baseDir, record.ImagePath))
	record.ImagePath = ""
	return s.records.UpdateUnloadingPoint(ctx, record)
}
