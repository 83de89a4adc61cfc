package services

import (
	"os"
	"testing"

	"github.com/croftside/farm-management-api/internal/database"
	"github.com/croftside/farm-management-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPhotoEnv(t *testing.T) (*PhotoService, repository.PhotoRepository, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	uploadDir := t.TempDir()
	photoRepo := repository.NewPhotoRepository(db)
	return NewPhotoService(photoRepo, uploadDir), photoRepo, uploadDir
}

func TestPhotoService_UploadWithoutExif(t *testing.T) {
	service, _, _ := setupPhotoEnv(t)

	// Not a real JPEG; EXIF extraction must fail silently.
	photo, err := service.Upload(UploadPhotoInput{
		Data:         []byte("not an image"),
		OriginalName: "field.jpg",
		ContentType:  "image/jpeg",
		UploaderID:   1,
	})
	require.NoError(t, err)
	require.NotZero(t, photo.ID)
	require.Nil(t, photo.Latitude)
	require.Nil(t, photo.Longitude)
	require.Nil(t, photo.TakenAt)
	require.Nil(t, photo.Camera)
	require.EqualValues(t, len("not an image"), photo.SizeBytes)

	// The stored file exists and round-trips.
	stored, f, err := service.Open(photo.ID)
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, photo.ID, stored.ID)

	data, err := os.ReadFile(stored.FilePath)
	require.NoError(t, err)
	require.Equal(t, []byte("not an image"), data)
}

func TestPhotoService_UploadRejectsEmpty(t *testing.T) {
	service, _, _ := setupPhotoEnv(t)

	_, err := service.Upload(UploadPhotoInput{
		OriginalName: "empty.jpg",
		UploaderID:   1,
	})
	require.Error(t, err)
}

func TestPhotoService_GetMissing(t *testing.T) {
	service, _, _ := setupPhotoEnv(t)

	_, err := service.Get(12345)
	require.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestPhotoService_ListByLand(t *testing.T) {
	service, _, _ := setupPhotoEnv(t)

	landID := uint64(3)
	_, err := service.Upload(UploadPhotoInput{
		Data:         []byte("a"),
		OriginalName: "a.jpg",
		LandID:       &landID,
		UploaderID:   1,
	})
	require.NoError(t, err)
	_, err = service.Upload(UploadPhotoInput{
		Data:         []byte("b"),
		OriginalName: "b.jpg",
		UploaderID:   1,
	})
	require.NoError(t, err)

	photos, err := service.ListByLand(landID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	require.Equal(t, "a.jpg", photos[0].OriginalName)
}
