package services

import (
	"errors"
	"fmt"

	"github.com/croftside/farm-management-api/internal/models"
	"github.com/croftside/farm-management-api/internal/repository"
	"gorm.io/gorm"
)

// SyncService keeps harvest notifications loosely consistent with the
// farm works that were created from them. The sync is one-directional:
// nothing flows from notifications back into farm works.
type SyncService struct {
	farmWorkRepo     repository.FarmWorkRepository
	notificationRepo repository.NotificationRepository
}

// NewSyncService creates a new SyncService
func NewSyncService(farmWorkRepo repository.FarmWorkRepository, notificationRepo repository.NotificationRepository) *SyncService {
	return &SyncService{
		farmWorkRepo:     farmWorkRepo,
		notificationRepo: notificationRepo,
	}
}

// SyncResult reports what the sync did so the caller can decide whether
// to log and continue or to propagate.
type SyncResult struct {
	Applied bool
	Status  models.NotificationStatus
	Reason  string
}

// notificationStatusFor maps a work state onto the paired notification's
// status. The mapping is exhaustive over the closed WorkState set.
func notificationStatusFor(state models.WorkState) models.NotificationStatus {
	switch state {
	case models.WorkStateCompleted:
		return models.NotificationStatusCompleted
	case models.WorkStateInProgress:
		return models.NotificationStatusInProgress
	case models.WorkStateCanceled:
		return models.NotificationStatusDismissed
	case models.WorkStateCreated, models.WorkStateAssigned,
		models.WorkStatePending, models.WorkStatePostponed:
		return models.NotificationStatusPending
	default:
		return models.NotificationStatusPending
	}
}

// SyncHarvestNotification aligns the harvest notification paired with the
// given work. It is a no-op when the work was not created from a harvest
// notification, when either side is missing, or when the status already
// matches.
func (s *SyncService) SyncHarvestNotification(workID uint64) (*SyncResult, error) {
	work, err := s.farmWorkRepo.FindByID(workID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &SyncResult{Reason: "work not found"}, nil
		}
		return nil, fmt.Errorf("failed to find work: %w", err)
	}

	if work.CreatedFrom() != models.ProvenanceHarvestNotification {
		return &SyncResult{Reason: "work not bridged from a harvest notification"}, nil
	}
	if work.LandID == nil || work.DueDate == nil {
		return &SyncResult{Reason: "work has no land or due date"}, nil
	}

	notification, err := s.notificationRepo.FindActiveHarvest(*work.LandID, *work.DueDate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &SyncResult{Reason: "no matching harvest notification"}, nil
		}
		return nil, fmt.Errorf("failed to find harvest notification: %w", err)
	}

	target := notificationStatusFor(work.Status)
	if notification.Status == target {
		return &SyncResult{Status: target, Reason: "already in sync"}, nil
	}

	if target == models.NotificationStatusDismissed {
		err = s.notificationRepo.Dismiss(notification.ID)
	} else {
		err = s.notificationRepo.SetStatus(notification.ID, target)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update notification status: %w", err)
	}

	return &SyncResult{Applied: true, Status: target}, nil
}
