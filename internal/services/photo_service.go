package services

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/croftside/farm-management-api/internal/models"
	"github.com/croftside/farm-management-api/internal/repository"
	"github.com/rwcarlsen/goexif/exif"
	"gorm.io/gorm"
)

var ErrPhotoNotFound = errors.New("photo not found")

// PhotoService stores uploaded images on local disk and extracts EXIF
// metadata opportunistically: absent or unparsable EXIF yields null
// fields, never an error.
type PhotoService struct {
	photoRepo repository.PhotoRepository
	uploadDir string
}

// NewPhotoService creates a new PhotoService
func NewPhotoService(photoRepo repository.PhotoRepository, uploadDir string) *PhotoService {
	return &PhotoService{
		photoRepo: photoRepo,
		uploadDir: uploadDir,
	}
}

// UploadPhotoInput represents an incoming image and its context.
type UploadPhotoInput struct {
	Data         []byte
	OriginalName string
	ContentType  string
	LandID       *uint64
	WorkID       *uint64
	UploaderID   uint64
}

// Upload writes the file synchronously and records the photo row.
func (s *PhotoService) Upload(input UploadPhotoInput) (*models.Photo, error) {
	if len(input.Data) == 0 {
		return nil, fmt.Errorf("empty upload")
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	name, err := randomFileName(filepath.Ext(input.OriginalName))
	if err != nil {
		return nil, err
	}
	path := filepath.Join(s.uploadDir, name)
	if err := os.WriteFile(path, input.Data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	photo := &models.Photo{
		LandID:       input.LandID,
		WorkID:       input.WorkID,
		UploaderID:   input.UploaderID,
		FilePath:     path,
		OriginalName: input.OriginalName,
		ContentType:  input.ContentType,
		SizeBytes:    int64(len(input.Data)),
	}
	applyExif(photo, input.Data)

	if err := s.photoRepo.Create(photo); err != nil {
		// The row is authoritative; don't leave an orphan file behind.
		os.Remove(path)
		return nil, fmt.Errorf("failed to record photo: %w", err)
	}
	return photo, nil
}

// Get returns a photo row
func (s *PhotoService) Get(id uint64) (*models.Photo, error) {
	photo, err := s.photoRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to find photo: %w", err)
	}
	return photo, nil
}

// Open returns the photo row plus a handle on the stored file
func (s *PhotoService) Open(id uint64) (*models.Photo, *os.File, error) {
	photo, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(photo.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open stored file: %w", err)
	}
	return photo, f, nil
}

// ListByLand returns photos attached to a land, newest first
func (s *PhotoService) ListByLand(landID uint64) ([]models.Photo, error) {
	return s.photoRepo.ListByLand(landID)
}

// ListByWork returns photos attached to a farm work, newest first
func (s *PhotoService) ListByWork(workID uint64) ([]models.Photo, error) {
	return s.photoRepo.ListByWork(workID)
}

// applyExif fills GPS/camera/taken-at fields from JPEG EXIF when present.
// Every failure path leaves the fields nil.
func applyExif(photo *models.Photo, data []byte) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return
	}

	if lat, lng, err := x.LatLong(); err == nil {
		photo.Latitude = &lat
		photo.Longitude = &lng
	}

	if taken, err := x.DateTime(); err == nil {
		photo.TakenAt = &taken
	}

	camera := exifCamera(x)
	if camera != "" {
		photo.Camera = &camera
	}
}

// exifCamera folds the Make and Model tags into one display string.
func exifCamera(x *exif.Exif) string {
	var parts []string
	for _, field := range []exif.FieldName{exif.Make, exif.Model} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		if v, err := tag.StringVal(); err == nil && v != "" {
			parts = append(parts, v)
		}
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return parts[0] + " " + parts[1]
	}
}

func randomFileName(ext string) (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate file name: %w", err)
	}
	return fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), hex.EncodeToString(buf), ext), nil
}
