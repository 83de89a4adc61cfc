package repository

import (
	"time"

	"github.com/croftside/farm-management-api/internal/models"
)

// LandRepository defines the interface for land data access
type LandRepository interface {
	// Create creates a new land
	Create(land *models.Land) error

	// FindByID finds a land by ID
	FindByID(id uint64, preload ...string) (*models.Land, error)

	// List retrieves lands with pagination
	List(filter LandFilter) ([]models.Land, int64, error)

	// Update updates a land
	Update(land *models.Land) error

	// Deactivate clears the active flag; lands are never deleted
	Deactivate(id uint64) error

	// ListHarvestable returns active lands with a known previous harvest
	// date and a positive harvest cycle
	ListHarvestable() ([]models.Land, error)

	// SetNextHarvestDate persists a computed next harvest date
	SetNextHarvestDate(id uint64, date time.Time) error
}

// LandFilter holds filtering options for listing lands
type LandFilter struct {
	ActiveOnly bool
	TeamID     *uint64
	CreatedBy  *uint64
	Page       int
	PageSize   int
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	Create(n *models.Notification) error
	FindByID(id uint64) (*models.Notification, error)
	List(filter NotificationFilter) ([]models.Notification, int64, error)
	Update(n *models.Notification) error
	Delete(id uint64) error

	// FindActiveHarvest finds the non-dismissed harvest notification for a
	// land keyed by harvest date; returns gorm.ErrRecordNotFound when absent
	FindActiveHarvest(landID uint64, harvestDate time.Time) (*models.Notification, error)

	// MarkRead stamps is_read/read_at
	MarkRead(id uint64) error

	// Dismiss flags the notification dismissed
	Dismiss(id uint64) error

	// SetStatus writes the lifecycle status
	SetStatus(id uint64, status models.NotificationStatus) error

	// Stats aggregates totals for a user
	Stats(userID uint64) (*NotificationStats, error)

	// DeleteDismissedBefore removes dismissed rows older than the cutoff,
	// returning how many were deleted
	DeleteDismissedBefore(cutoff time.Time) (int64, error)
}

// NotificationFilter holds filtering options for listing notifications
type NotificationFilter struct {
	UserID     uint64
	LandID     *uint64
	Type       *string
	UnreadOnly bool
	Page       int
	PageSize   int
}

// NotificationStats aggregates notification counts for a user
type NotificationStats struct {
	Total  int64            `json:"total"`
	Unread int64            `json:"unread"`
	ByType map[string]int64 `json:"by_type"`
}

// FarmWorkRepository defines the interface for farm work data access
type FarmWorkRepository interface {
	Create(work *models.FarmWork) error
	FindByID(id uint64, preload ...string) (*models.FarmWork, error)

	// List retrieves works ordered by triage policy: priority tier first,
	// then due date ascending with nulls last, then newest created
	List(filter FarmWorkFilter) ([]models.FarmWork, int64, error)

	Update(work *models.FarmWork) error
	Delete(id uint64) error

	// HasOpenHarvestWork reports whether a non-terminal harvest-tagged work
	// already exists for the land, either due on the given date or created
	// inside the duplicate-guard window
	HasOpenHarvestWork(landID uint64, dueDate time.Time, windowDays int) (bool, error)

	// FindHarvestWorkType returns the first active work type whose name or
	// category name contains "harvest", case-insensitively
	FindHarvestWorkType() (*models.WorkType, error)

	// FindHarvestBridgedWork finds the non-deleted work created from a
	// harvest notification for (land, due date)
	FindHarvestBridgedWork(landID uint64, dueDate time.Time) (*models.FarmWork, error)

	// CreateAudit appends a status audit row
	CreateAudit(audit *models.WorkAudit) error

	// ListAudits returns the audit trail for a work, oldest first
	ListAudits(workID uint64) ([]models.WorkAudit, error)
}

// FarmWorkFilter holds filtering options for listing farm works
type FarmWorkFilter struct {
	LandID     *uint64
	TeamID     *uint64
	WorkTypeID *uint64
	Status     *models.WorkState
	Page       int
	PageSize   int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint64) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	List(page, pageSize int) ([]models.User, int64, error)
	ListActiveIDs() ([]uint64, error)
	Update(user *models.User) error
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	Create(team *models.Team) error
	FindByID(id uint64, preload ...string) (*models.Team, error)
	List(activeOnly bool) ([]models.Team, error)
	Update(team *models.Team) error
	Deactivate(id uint64) error
	AddMember(member *models.TeamMember) error
	RemoveMember(teamID, userID uint64) error
	ListMembers(teamID uint64) ([]models.TeamMember, error)
}

// WorkMetaRepository covers the configurable work type/category/status tables
type WorkMetaRepository interface {
	ListTypes(activeOnly bool) ([]models.WorkType, error)
	FindTypeByID(id uint64) (*models.WorkType, error)
	CreateType(t *models.WorkType) error
	UpdateType(t *models.WorkType) error
	DeactivateType(id uint64) error

	ListCategories(activeOnly bool) ([]models.WorkCategory, error)
	FindCategoryByID(id uint64) (*models.WorkCategory, error)
	CreateCategory(cat *models.WorkCategory) error
	UpdateCategory(cat *models.WorkCategory) error
	DeactivateCategory(id uint64) error

	ListStatuses(activeOnly bool) ([]models.WorkStatus, error)

	// FindStatusByName resolves a WorkStatus row by its name
	FindStatusByName(name string) (*models.WorkStatus, error)

	CreateNote(note *models.WorkNote) error
	ListNotes(workID uint64) ([]models.WorkNote, error)

	CreateCompletion(completion *models.WorkCompletion) error
	FindCompletion(workID uint64) (*models.WorkCompletion, error)
}

// PhotoRepository defines the interface for photo data access
type PhotoRepository interface {
	Create(photo *models.Photo) error
	FindByID(id uint64) (*models.Photo, error)
	ListByLand(landID uint64) ([]models.Photo, error)
	ListByWork(workID uint64) ([]models.Photo, error)
	Delete(id uint64) error
}

// PermissionRepository defines the interface for the endpoint permission matrix
type PermissionRepository interface {
	FindByEndpoint(endpoint string) (*models.EndpointPermission, error)
	Upsert(p *models.EndpointPermission) error
	List() ([]models.EndpointPermission, error)
	Delete(endpoint string) error
}
