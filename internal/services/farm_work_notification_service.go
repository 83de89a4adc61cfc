package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/croftside/farm-management-api/internal/constants"
	"github.com/croftside/farm-management-api/internal/models"
	"github.com/croftside/farm-management-api/internal/repository"
	"github.com/croftside/farm-management-api/internal/utils"
	"gorm.io/gorm"
)

// FarmWorkNotificationService creates farm works on behalf of the harvest
// scan and other automated triggers (weather alerts, scheduled
// maintenance), and notifies the responsible team lead or land owner.
type FarmWorkNotificationService struct {
	farmWorkRepo        repository.FarmWorkRepository
	workMetaRepo        repository.WorkMetaRepository
	teamRepo            repository.TeamRepository
	notificationService *NotificationService
}

// NewFarmWorkNotificationService creates a new FarmWorkNotificationService
func NewFarmWorkNotificationService(
	farmWorkRepo repository.FarmWorkRepository,
	workMetaRepo repository.WorkMetaRepository,
	teamRepo repository.TeamRepository,
	notificationService *NotificationService,
) *FarmWorkNotificationService {
	return &FarmWorkNotificationService{
		farmWorkRepo:        farmWorkRepo,
		workMetaRepo:        workMetaRepo,
		teamRepo:            teamRepo,
		notificationService: notificationService,
	}
}

// BridgeResult reports whether a work was created and why not otherwise.
type BridgeResult struct {
	Work    *models.FarmWork
	Created bool
	Reason  string
}

// CreateHarvestFarmWork creates the pending harvest work for a land whose
// 3-day lead notification was just created. Missing work type and
// existing duplicates are non-fatal skips.
func (s *FarmWorkNotificationService) CreateHarvestFarmWork(land *models.Land) (*BridgeResult, error) {
	if land.NextHarvestDate == nil {
		return &BridgeResult{Reason: "land has no next harvest date"}, nil
	}
	dueDate := utils.TruncateToDay(*land.NextHarvestDate)

	workType, err := s.farmWorkRepo.FindHarvestWorkType()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("harvest bridge: no harvest work type configured, skipping land %d", land.ID)
			return &BridgeResult{Reason: "no harvest work type configured"}, nil
		}
		return nil, fmt.Errorf("failed to look up harvest work type: %w", err)
	}

	exists, err := s.farmWorkRepo.HasOpenHarvestWork(land.ID, dueDate, constants.HarvestWorkWindowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing harvest work: %w", err)
	}
	if exists {
		return &BridgeResult{Reason: "open harvest work already exists"}, nil
	}

	landID := land.ID
	work := &models.FarmWork{
		Title:         fmt.Sprintf("Harvest %s", land.Name),
		Description:   fmt.Sprintf("Harvest due on %s for land %s.", dueDate.Format("2006-01-02"), land.Name),
		LandID:        &landID,
		WorkTypeID:    workType.ID,
		Priority:      models.PriorityMedium,
		Status:        models.WorkStatePending,
		WorkStatusID:  s.workStatusID(models.WorkStatePending),
		CreatorUserID: land.CreatedBy,
		TeamID:        land.TeamID,
		DueDate:       &dueDate,
		Metadata: models.NewMetadata(map[string]any{
			models.MetadataKeyCreatedFrom: models.ProvenanceHarvestNotification,
			"harvest_date":                dueDate.Format("2006-01-02"),
		}),
	}

	if err := s.farmWorkRepo.Create(work); err != nil {
		return nil, fmt.Errorf("failed to create harvest work: %w", err)
	}

	return &BridgeResult{Work: work, Created: true}, nil
}

// CreateWeatherFarmWork creates an urgent inspection work in response to a
// weather alert and notifies the responsible user.
func (s *FarmWorkNotificationService) CreateWeatherFarmWork(land *models.Land, workTypeID uint64, alertTitle, alertMessage string) (*BridgeResult, error) {
	landID := land.ID
	dueDate := utils.TruncateToDay(time.Now().AddDate(0, 0, 1))
	work := &models.FarmWork{
		Title:         fmt.Sprintf("%s: %s", alertTitle, land.Name),
		Description:   alertMessage,
		LandID:        &landID,
		WorkTypeID:    workTypeID,
		Priority:      models.PriorityHigh,
		Status:        models.WorkStatePending,
		WorkStatusID:  s.workStatusID(models.WorkStatePending),
		CreatorUserID: land.CreatedBy,
		TeamID:        land.TeamID,
		DueDate:       &dueDate,
		Metadata: models.NewMetadata(map[string]any{
			models.MetadataKeyCreatedFrom: models.ProvenanceWeatherAlert,
		}),
	}

	if err := s.farmWorkRepo.Create(work); err != nil {
		return nil, fmt.Errorf("failed to create weather work: %w", err)
	}

	recipient := s.responsibleUser(land)
	if _, err := s.notificationService.CreateWeatherNotification(recipient, &landID, alertTitle, alertMessage); err != nil {
		log.Printf("weather bridge: failed to notify user %d: %v", recipient, err)
	}

	return &BridgeResult{Work: work, Created: true}, nil
}

// CreateMaintenanceFarmWork creates a scheduled maintenance work and
// notifies the responsible user.
func (s *FarmWorkNotificationService) CreateMaintenanceFarmWork(land *models.Land, workTypeID uint64, dueDate time.Time, description string) (*BridgeResult, error) {
	landID := land.ID
	due := utils.TruncateToDay(dueDate)
	work := &models.FarmWork{
		Title:         fmt.Sprintf("Maintenance: %s", land.Name),
		Description:   description,
		LandID:        &landID,
		WorkTypeID:    workTypeID,
		Priority:      models.PriorityMedium,
		Status:        models.WorkStatePending,
		WorkStatusID:  s.workStatusID(models.WorkStatePending),
		CreatorUserID: land.CreatedBy,
		TeamID:        land.TeamID,
		DueDate:       &due,
		Metadata: models.NewMetadata(map[string]any{
			models.MetadataKeyCreatedFrom: models.ProvenanceScheduledMaintenance,
		}),
	}

	if err := s.farmWorkRepo.Create(work); err != nil {
		return nil, fmt.Errorf("failed to create maintenance work: %w", err)
	}

	recipient := s.responsibleUser(land)
	title := fmt.Sprintf("Maintenance due for %s", land.Name)
	if _, err := s.notificationService.CreateMaintenanceNotification(recipient, &landID, title, description); err != nil {
		log.Printf("maintenance bridge: failed to notify user %d: %v", recipient, err)
	}

	return &BridgeResult{Work: work, Created: true}, nil
}

// responsibleUser resolves the team lead for the land's team, falling
// back to the land owner.
func (s *FarmWorkNotificationService) responsibleUser(land *models.Land) uint64 {
	if land.TeamID != nil {
		team, err := s.teamRepo.FindByID(*land.TeamID)
		if err == nil && team.LeadUserID != nil {
			return *team.LeadUserID
		}
	}
	return land.CreatedBy
}

func (s *FarmWorkNotificationService) workStatusID(state models.WorkState) uint64 {
	status, err := s.workMetaRepo.FindStatusByName(string(state))
	if err != nil {
		return 1
	}
	return status.ID
}
