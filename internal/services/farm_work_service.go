package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/croftside/farm-management-api/internal/logging"
	"github.com/croftside/farm-management-api/internal/models"
	"github.com/croftside/farm-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrWorkNotFound        = errors.New("farm work not found")
	ErrWorkTitleRequired   = errors.New("title is required")
	ErrWorkTypeRequired    = errors.New("work type is required")
	ErrWorkCreatorRequired = errors.New("creator is required")
	ErrWorkAlreadyComplete = errors.New("farm work already has a completion record")
)

// detailPreloads is the denormalized view returned after create/update.
var detailPreloads = []string{
	"Land", "WorkType", "WorkType.Category", "WorkStatus",
	"Creator", "Assigner", "Team",
}

// FarmWorkService handles farm work business logic, including the status
// audit trail and the best-effort notification sync.
type FarmWorkService struct {
	farmWorkRepo        repository.FarmWorkRepository
	workMetaRepo        repository.WorkMetaRepository
	syncService         *SyncService
	notificationService *NotificationService
	errorLog            *logging.ErrorLogger
}

// NewFarmWorkService creates a new FarmWorkService
func NewFarmWorkService(
	farmWorkRepo repository.FarmWorkRepository,
	workMetaRepo repository.WorkMetaRepository,
	syncService *SyncService,
	notificationService *NotificationService,
	errorLog *logging.ErrorLogger,
) *FarmWorkService {
	return &FarmWorkService{
		farmWorkRepo:        farmWorkRepo,
		workMetaRepo:        workMetaRepo,
		syncService:         syncService,
		notificationService: notificationService,
		errorLog:            errorLog,
	}
}

// CreateFarmWorkInput represents input for creating a farm work
type CreateFarmWorkInput struct {
	Title          string
	Description    string
	LandID         *uint64
	WorkTypeID     uint64
	Priority       models.Priority
	CreatorUserID  uint64
	AssignerUserID *uint64
	TeamID         *uint64
	DueDate        *time.Time
	Metadata       map[string]any
}

// UpdateFarmWorkInput represents a sparse patch: only non-nil fields are
// written.
type UpdateFarmWorkInput struct {
	Title          *string
	Description    *string
	Priority       *models.Priority
	Status         *models.WorkState
	StatusNote     string
	AssignerUserID *uint64
	TeamID         *uint64
	DueDate        *time.Time
	ChangedBy      uint64
}

// Create creates a farm work with defaults, writes the initial audit row
// and returns the denormalized detail view.
func (s *FarmWorkService) Create(input CreateFarmWorkInput) (*models.FarmWork, error) {
	if input.Title == "" {
		return nil, ErrWorkTitleRequired
	}
	if input.WorkTypeID == 0 {
		return nil, ErrWorkTypeRequired
	}
	if input.CreatorUserID == 0 {
		return nil, ErrWorkCreatorRequired
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	work := &models.FarmWork{
		Title:          input.Title,
		Description:    input.Description,
		LandID:         input.LandID,
		WorkTypeID:     input.WorkTypeID,
		Priority:       priority,
		Status:         models.WorkStateCreated,
		WorkStatusID:   s.workStatusID(models.WorkStateCreated),
		CreatorUserID:  input.CreatorUserID,
		AssignerUserID: input.AssignerUserID,
		TeamID:         input.TeamID,
		DueDate:        input.DueDate,
	}
	if input.Metadata != nil {
		work.Metadata = models.NewMetadata(input.Metadata)
	}

	if err := s.farmWorkRepo.Create(work); err != nil {
		return nil, fmt.Errorf("failed to create farm work: %w", err)
	}

	audit := &models.WorkAudit{
		WorkID:         work.ID,
		ChangedBy:      input.CreatorUserID,
		PreviousStatus: nil,
		CurrentStatus:  models.WorkStateCreated,
		Note:           "Work created",
	}
	if err := s.farmWorkRepo.CreateAudit(audit); err != nil {
		return nil, fmt.Errorf("failed to write audit row: %w", err)
	}

	return s.farmWorkRepo.FindByID(work.ID, detailPreloads...)
}

// Get returns a farm work with its detail view
func (s *FarmWorkService) Get(id uint64) (*models.FarmWork, error) {
	work, err := s.farmWorkRepo.FindByID(id, detailPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkNotFound
		}
		return nil, fmt.Errorf("failed to find farm work: %w", err)
	}
	return work, nil
}

// List returns farm works in triage order
func (s *FarmWorkService) List(filter repository.FarmWorkFilter) ([]models.FarmWork, int64, error) {
	return s.farmWorkRepo.List(filter)
}

// Update applies a sparse patch. A status change stamps the matching date
// field on its first transition, appends an audit row, and triggers the
// harvest notification sync. Sync failures are logged, never propagated.
func (s *FarmWorkService) Update(id uint64, input UpdateFarmWorkInput) (*models.FarmWork, error) {
	work, err := s.farmWorkRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkNotFound
		}
		return nil, fmt.Errorf("failed to find farm work: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrWorkTitleRequired
		}
		work.Title = *input.Title
	}
	if input.Description != nil {
		work.Description = *input.Description
	}
	if input.Priority != nil {
		work.Priority = *input.Priority
	}
	if input.AssignerUserID != nil {
		work.AssignerUserID = input.AssignerUserID
	}
	if input.TeamID != nil {
		work.TeamID = input.TeamID
	}
	if input.DueDate != nil {
		work.DueDate = input.DueDate
	}

	statusChanged := false
	var previous models.WorkState
	if input.Status != nil && *input.Status != work.Status {
		previous = work.Status
		statusChanged = true
		work.Status = *input.Status
		work.WorkStatusID = s.workStatusID(*input.Status)
		stampTransitionDate(work, *input.Status)
	}

	if err := s.farmWorkRepo.Update(work); err != nil {
		return nil, fmt.Errorf("failed to update farm work: %w", err)
	}

	if statusChanged {
		note := input.StatusNote
		if note == "" {
			note = fmt.Sprintf("Status changed from %s to %s", previous, work.Status)
		}
		audit := &models.WorkAudit{
			WorkID:         work.ID,
			ChangedBy:      input.ChangedBy,
			PreviousStatus: &previous,
			CurrentStatus:  work.Status,
			Note:           note,
		}
		if err := s.farmWorkRepo.CreateAudit(audit); err != nil {
			return nil, fmt.Errorf("failed to write audit row: %w", err)
		}

		s.syncBestEffort(work.ID)
	}

	return s.farmWorkRepo.FindByID(work.ID, detailPreloads...)
}

// Delete soft deletes a farm work
func (s *FarmWorkService) Delete(id uint64) error {
	if _, err := s.farmWorkRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkNotFound
		}
		return fmt.Errorf("failed to find farm work: %w", err)
	}
	return s.farmWorkRepo.Delete(id)
}

// ListAudits returns the status audit trail for a work
func (s *FarmWorkService) ListAudits(workID uint64) ([]models.WorkAudit, error) {
	return s.farmWorkRepo.ListAudits(workID)
}

// AddNote attaches a note to a work and notifies the work's creator when
// someone else wrote it. The notification is best-effort.
func (s *FarmWorkService) AddNote(workID, authorID uint64, body string) (*models.WorkNote, error) {
	work, err := s.Get(workID)
	if err != nil {
		return nil, err
	}
	note := &models.WorkNote{WorkID: workID, AuthorID: authorID, Body: body}
	if err := s.workMetaRepo.CreateNote(note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	if authorID != work.CreatorUserID {
		message := fmt.Sprintf("New comment on %q", work.Title)
		if _, err := s.notificationService.CreateCommentNotification(work.CreatorUserID, work.LandID, message); err != nil {
			log.Printf("farm work %d: failed to notify creator about note: %v", workID, err)
		}
	}
	return note, nil
}

// ListNotes returns the notes for a work, newest first
func (s *FarmWorkService) ListNotes(workID uint64) ([]models.WorkNote, error) {
	return s.workMetaRepo.ListNotes(workID)
}

// Complete records a completion report for a work. The status transition
// itself goes through Update.
func (s *FarmWorkService) Complete(workID, userID uint64, summary string, hours float64) (*models.WorkCompletion, error) {
	if _, err := s.Get(workID); err != nil {
		return nil, err
	}
	if _, err := s.workMetaRepo.FindCompletion(workID); err == nil {
		return nil, ErrWorkAlreadyComplete
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check completion: %w", err)
	}

	completion := &models.WorkCompletion{
		WorkID:      workID,
		CompletedBy: userID,
		Summary:     summary,
		HoursSpent:  hours,
	}
	if err := s.workMetaRepo.CreateCompletion(completion); err != nil {
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}
	return completion, nil
}

// stampTransitionDate stamps the date field matching a status transition,
// only if it is still unset. Re-entering a state does not overwrite the
// first timestamp.
func stampTransitionDate(work *models.FarmWork, status models.WorkState) {
	now := time.Now()
	switch status {
	case models.WorkStateAssigned:
		if work.AssignedDate == nil {
			work.AssignedDate = &now
		}
	case models.WorkStateInProgress:
		if work.StartedDate == nil {
			work.StartedDate = &now
		}
	case models.WorkStateCompleted:
		if work.CompletedDate == nil {
			work.CompletedDate = &now
		}
	}
}

// syncBestEffort runs the notification sync and swallows failures; the
// primary status write must never be blocked by the sync.
func (s *FarmWorkService) syncBestEffort(workID uint64) {
	result, err := s.syncService.SyncHarvestNotification(workID)
	if err != nil {
		log.Printf("farm work %d: notification sync failed: %v", workID, err)
		if s.errorLog != nil {
			s.errorLog.Error("harvest notification sync failed", err, "work_id", workID)
		}
		return
	}
	if result.Applied {
		log.Printf("farm work %d: synced harvest notification to %s", workID, result.Status)
	}
}

func (s *FarmWorkService) workStatusID(state models.WorkState) uint64 {
	status, err := s.workMetaRepo.FindStatusByName(string(state))
	if err != nil {
		return 1
	}
	return status.ID
}
