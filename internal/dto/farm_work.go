package dto

import (
	"time"

	"github.com/croftside/farm-management-api/internal/models"
	"github.com/croftside/farm-management-api/internal/utils"
)

// Due status values computed for the detail view.
const (
	DueStatusOverdue     = "overdue"
	DueStatusDueToday    = "due_today"
	DueStatusDueSoon     = "due_soon"
	DueStatusOnTrack     = "on_track"
	DueStatusUnscheduled = "unscheduled"
	DueStatusClosed      = "closed"
)

// FarmWorkDTO is the denormalized detail view of a farm work: land
// name/code, work type with its category, the people involved, and the
// computed due status.
type FarmWorkDTO struct {
	ID           uint64           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	LandID       *uint64          `json:"land_id"`
	LandName     string           `json:"land_name,omitempty"`
	LandCode     string           `json:"land_code,omitempty"`
	WorkTypeID   uint64           `json:"work_type_id"`
	WorkTypeName string           `json:"work_type_name"`
	WorkTypeIcon string           `json:"work_type_icon,omitempty"`
	CategoryName string           `json:"category_name,omitempty"`
	Priority     models.Priority  `json:"priority_level"`
	Status       models.WorkState `json:"status"`
	WorkStatusID uint64           `json:"work_status_id"`
	CreatorName  string           `json:"creator_name,omitempty"`
	AssignerName string           `json:"assigner_name,omitempty"`
	TeamName     string           `json:"team_name,omitempty"`

	AssignedDate  *time.Time `json:"assigned_date"`
	DueDate       *time.Time `json:"due_date"`
	StartedDate   *time.Time `json:"started_date"`
	CompletedDate *time.Time `json:"completed_date"`

	DueStatus string    `json:"due_status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToFarmWorkDTO converts a FarmWork model (with preloaded relations) to
// its detail view.
func ToFarmWorkDTO(work models.FarmWork) FarmWorkDTO {
	dto := FarmWorkDTO{
		ID:            work.ID,
		Title:         work.Title,
		Description:   work.Description,
		LandID:        work.LandID,
		WorkTypeID:    work.WorkTypeID,
		Priority:      work.Priority,
		Status:        work.Status,
		WorkStatusID:  work.WorkStatusID,
		AssignedDate:  work.AssignedDate,
		DueDate:       work.DueDate,
		StartedDate:   work.StartedDate,
		CompletedDate: work.CompletedDate,
		DueStatus:     dueStatus(work),
		CreatedAt:     work.CreatedAt,
		UpdatedAt:     work.UpdatedAt,
	}

	if work.Land != nil && work.Land.ID != 0 {
		dto.LandName = work.Land.Name
		dto.LandCode = work.Land.Code
	}
	if work.WorkType.ID != 0 {
		dto.WorkTypeName = work.WorkType.Name
		dto.WorkTypeIcon = work.WorkType.Icon
		if work.WorkType.Category != nil {
			dto.CategoryName = work.WorkType.Category.Name
		}
	}
	if work.Creator.ID != 0 {
		dto.CreatorName = work.Creator.DisplayName
	}
	if work.Assigner != nil && work.Assigner.ID != 0 {
		dto.AssignerName = work.Assigner.DisplayName
	}
	if work.Team != nil && work.Team.ID != 0 {
		dto.TeamName = work.Team.Name
	}

	return dto
}

// ToFarmWorkDTOs converts a slice of works
func ToFarmWorkDTOs(works []models.FarmWork) []FarmWorkDTO {
	dtos := make([]FarmWorkDTO, len(works))
	for i, work := range works {
		dtos[i] = ToFarmWorkDTO(work)
	}
	return dtos
}

func dueStatus(work models.FarmWork) string {
	if work.Status.IsTerminal() {
		return DueStatusClosed
	}
	if work.DueDate == nil {
		return DueStatusUnscheduled
	}
	days := utils.DaysUntil(time.Now(), *work.DueDate)
	switch {
	case days < 0:
		return DueStatusOverdue
	case days == 0:
		return DueStatusDueToday
	case days <= 3:
		return DueStatusDueSoon
	default:
		return DueStatusOnTrack
	}
}
