package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	apierrors "github.com/croftside/farm-management-api/internal/errors"
	"github.com/croftside/farm-management-api/internal/middleware"
	"github.com/croftside/farm-management-api/internal/repository"
	"github.com/croftside/farm-management-api/internal/services"
	"github.com/gin-gonic/gin"
)

// maxPhotoBytes caps multipart uploads at 20 MB.
const maxPhotoBytes = 20 << 20

// PhotoHandler serves photo upload and retrieval.
type PhotoHandler struct {
	photoService        *services.PhotoService
	landRepo            repository.LandRepository
	notificationService *services.NotificationService
}

// NewPhotoHandler creates a new PhotoHandler
func NewPhotoHandler(
	photoService *services.PhotoService,
	landRepo repository.LandRepository,
	notificationService *services.NotificationService,
) *PhotoHandler {
	return &PhotoHandler{
		photoService:        photoService,
		landRepo:            landRepo,
		notificationService: notificationService,
	}
}

// UploadPhoto accepts a multipart image, stores it and extracts EXIF
// metadata. The land_id/work_id form fields attach the photo to an entity.
func (h *PhotoHandler) UploadPhoto(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		apierrors.BadRequest(c, "Missing photo file")
		return
	}
	if fileHeader.Size > maxPhotoBytes {
		apierrors.BadRequest(c, "Photo exceeds the 20MB limit")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		apierrors.InternalError(c, "Failed to read upload")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxPhotoBytes+1))
	if err != nil {
		apierrors.InternalError(c, "Failed to read upload")
		return
	}
	if len(data) > maxPhotoBytes {
		apierrors.BadRequest(c, "Photo exceeds the 20MB limit")
		return
	}

	input := services.UploadPhotoInput{
		Data:         data,
		OriginalName: fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		UploaderID:   userID,
	}
	if v := c.PostForm("land_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid land_id")
			return
		}
		input.LandID = &id
	}
	if v := c.PostForm("work_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid work_id")
			return
		}
		input.WorkID = &id
	}

	photo, err := h.photoService.Upload(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to store photo")
		return
	}

	h.notifyLandOwner(input.LandID, userID, fileHeader.Filename)

	c.JSON(http.StatusCreated, photo)
}

// notifyLandOwner tells the land owner about a photo someone else
// uploaded. Best-effort: failures are logged, not surfaced.
func (h *PhotoHandler) notifyLandOwner(landID *uint64, uploaderID uint64, filename string) {
	if landID == nil {
		return
	}
	land, err := h.landRepo.FindByID(*landID)
	if err != nil {
		log.Printf("photo upload: failed to look up land %d: %v", *landID, err)
		return
	}
	if land.CreatedBy == uploaderID {
		return
	}
	message := fmt.Sprintf("New photo %q uploaded for %s", filename, land.Name)
	if _, err := h.notificationService.CreatePhotoNotification(land.CreatedBy, landID, message); err != nil {
		log.Printf("photo upload: failed to notify land owner %d: %v", land.CreatedBy, err)
	}
}

// GetPhoto returns photo metadata
func (h *PhotoHandler) GetPhoto(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	photo, err := h.photoService.Get(id)
	if err != nil {
		respondPhotoError(c, err)
		return
	}

	c.JSON(http.StatusOK, photo)
}

// DownloadPhoto streams the stored image
func (h *PhotoHandler) DownloadPhoto(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	photo, f, err := h.photoService.Open(id)
	if err != nil {
		respondPhotoError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", photo.ContentType)
	c.Header("Content-Disposition", `inline; filename="`+photo.OriginalName+`"`)
	c.Status(http.StatusOK)
	io.Copy(c.Writer, f)
}

// ListLandPhotos returns photos attached to a land
func (h *PhotoHandler) ListLandPhotos(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	photos, err := h.photoService.ListByLand(id)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch photos")
		return
	}

	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

// ListWorkPhotos returns photos attached to a farm work
func (h *PhotoHandler) ListWorkPhotos(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	photos, err := h.photoService.ListByWork(id)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch photos")
		return
	}

	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

func respondPhotoError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrPhotoNotFound) {
		apierrors.NotFound(c, "Photo not found")
		return
	}
	apierrors.InternalError(c, "")
}
