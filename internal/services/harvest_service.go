package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/croftside/farm-management-api/internal/constants"
	"github.com/croftside/farm-management-api/internal/logging"
	"github.com/croftside/farm-management-api/internal/models"
	"github.com/croftside/farm-management-api/internal/repository"
	"github.com/croftside/farm-management-api/internal/utils"
	"gorm.io/gorm"
)

// HarvestService runs the scheduled harvest scan: it computes next
// harvest dates, creates or escalates harvest notifications per land, and
// fires the farm work bridge on the 3-day lead transition.
type HarvestService struct {
	landRepo            repository.LandRepository
	notificationRepo    repository.NotificationRepository
	notificationService *NotificationService
	bridge              *FarmWorkNotificationService
	errorLog            *logging.ErrorLogger

	// now is swappable in tests.
	now func() time.Time
}

// NewHarvestService creates a new HarvestService
func NewHarvestService(
	landRepo repository.LandRepository,
	notificationRepo repository.NotificationRepository,
	notificationService *NotificationService,
	bridge *FarmWorkNotificationService,
	errorLog *logging.ErrorLogger,
) *HarvestService {
	return &HarvestService{
		landRepo:            landRepo,
		notificationRepo:    notificationRepo,
		notificationService: notificationService,
		bridge:              bridge,
		errorLog:            errorLog,
		now:                 time.Now,
	}
}

// HarvestScanResult aggregates per-run totals.
type HarvestScanResult struct {
	LandsChecked         int      `json:"lands_checked"`
	NotificationsCreated int      `json:"notifications_created"`
	NotificationsUpdated int      `json:"notifications_updated"`
	FarmWorksCreated     int      `json:"farm_works_created"`
	Errors               []string `json:"errors,omitempty"`
}

// harvestTier maps days-until-harvest onto a priority and a title label.
// The thresholds are strict: at or past due and exactly one day out are
// high, up to three days out is medium, everything further is low.
func harvestTier(daysUntil int) (models.Priority, string) {
	switch {
	case daysUntil <= 0:
		return models.PriorityHigh, "Overdue"
	case daysUntil == 1:
		return models.PriorityHigh, "Tomorrow"
	case daysUntil <= constants.HarvestNoticeDays:
		return models.PriorityMedium, "Due Soon"
	default:
		return models.PriorityLow, "Upcoming"
	}
}

// CheckHarvestNotifications scans every eligible land. Failures on one
// land are logged and skipped so a bad row cannot abort the batch; the
// method itself only fails when the land listing fails.
func (s *HarvestService) CheckHarvestNotifications() (*HarvestScanResult, error) {
	lands, err := s.landRepo.ListHarvestable()
	if err != nil {
		return nil, fmt.Errorf("failed to list harvestable lands: %w", err)
	}

	result := &HarvestScanResult{}
	for i := range lands {
		land := &lands[i]
		result.LandsChecked++

		created, updated, workCreated, err := s.processLand(land)
		if err != nil {
			log.Printf("harvest scan: land %d (%s): %v", land.ID, land.Name, err)
			if s.errorLog != nil {
				s.errorLog.Error("harvest scan failed for land", err,
					"land_id", land.ID, "land_name", land.Name)
			}
			result.Errors = append(result.Errors, fmt.Sprintf("land %d: %v", land.ID, err))
			continue
		}

		if created {
			result.NotificationsCreated++
		}
		if updated {
			result.NotificationsUpdated++
		}
		if workCreated {
			result.FarmWorksCreated++
		}
	}

	log.Printf("harvest scan: checked %d lands, created %d, updated %d, farm works %d, errors %d",
		result.LandsChecked, result.NotificationsCreated, result.NotificationsUpdated,
		result.FarmWorksCreated, len(result.Errors))

	return result, nil
}

// processLand handles one land independently.
func (s *HarvestService) processLand(land *models.Land) (created, updated, workCreated bool, err error) {
	now := s.now()

	// Lazily compute the next harvest date. The computation is
	// deterministic from stored inputs, so re-running is idempotent.
	if land.NextHarvestDate == nil {
		next := utils.TruncateToDay(land.PreviousHarvestDate.AddDate(0, 0, land.HarvestCycleDays))
		if err := s.landRepo.SetNextHarvestDate(land.ID, next); err != nil {
			return false, false, false, fmt.Errorf("failed to persist next harvest date: %w", err)
		}
		land.NextHarvestDate = &next
	}

	harvestDate := utils.TruncateToDay(*land.NextHarvestDate)
	daysUntil := utils.DaysUntil(now, harvestDate)

	if daysUntil > constants.HarvestNoticeDays {
		return false, false, false, nil
	}

	priority, label := harvestTier(daysUntil)

	existing, err := s.notificationRepo.FindActiveHarvest(land.ID, harvestDate)
	switch {
	case err == nil:
		if existing.Priority == priority {
			return false, false, false, nil
		}
		existing.Priority = priority
		existing.Title = harvestTitle(label, land.Name)
		existing.Message = harvestMessage(label, land, harvestDate, daysUntil)
		if err := s.notificationRepo.Update(existing); err != nil {
			return false, false, false, fmt.Errorf("failed to update notification: %w", err)
		}
		log.Printf("harvest scan: land %d (%s): escalated notification to %s (%d days)",
			land.ID, land.Name, priority, daysUntil)
		return false, true, false, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		_, err := s.notificationService.CreateHarvestNotification(CreateHarvestNotificationInput{
			UserID:      land.CreatedBy,
			LandID:      land.ID,
			Priority:    priority,
			Title:       harvestTitle(label, land.Name),
			Message:     harvestMessage(label, land, harvestDate, daysUntil),
			HarvestDate: harvestDate,
			Metadata: map[string]any{
				"harvest_date":       harvestDate.Format("2006-01-02"),
				"harvest_cycle_days": land.HarvestCycleDays,
				"days_until_harvest": daysUntil,
			},
		})
		if err != nil {
			return false, false, false, err
		}
		log.Printf("harvest scan: land %d (%s): created %s notification (%d days)",
			land.ID, land.Name, priority, daysUntil)

		// One-shot trigger: the farm work is created only alongside the
		// 3-day lead notification, never for overdue or escalations.
		if daysUntil == constants.HarvestNoticeDays {
			bridged, err := s.bridge.CreateHarvestFarmWork(land)
			if err != nil {
				// The notification above is already in place; the bridge
				// failure alone must not hide it from the totals.
				log.Printf("harvest scan: land %d (%s): harvest work bridge failed: %v",
					land.ID, land.Name, err)
				if s.errorLog != nil {
					s.errorLog.Error("harvest work bridge failed", err, "land_id", land.ID)
				}
				return true, false, false, nil
			}
			return true, false, bridged.Created, nil
		}
		return true, false, false, nil

	default:
		return false, false, false, fmt.Errorf("failed to look up notification: %w", err)
	}
}

func harvestTitle(label, landName string) string {
	return fmt.Sprintf("Harvest %s: %s", label, landName)
}

func harvestMessage(label string, land *models.Land, harvestDate time.Time, daysUntil int) string {
	switch {
	case daysUntil < 0:
		return fmt.Sprintf("Harvest for %s was due on %s (%d days ago).",
			land.Name, harvestDate.Format("2006-01-02"), -daysUntil)
	case daysUntil == 0:
		return fmt.Sprintf("Harvest for %s is due today (%s).",
			land.Name, harvestDate.Format("2006-01-02"))
	default:
		return fmt.Sprintf("Harvest for %s is due on %s (in %d days).",
			land.Name, harvestDate.Format("2006-01-02"), daysUntil)
	}
}
