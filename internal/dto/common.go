package dto

import (
	"time"

	"github.com/croftside/farm-management-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint64      `json:"id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"display_name"`
	Role        models.Role `json:"role"`
	IsActive    bool        `json:"is_active"`
}

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	LeadUserID  *uint64 `json:"lead_user_id"`
	IsActive    bool    `json:"is_active"`
}

// LandDTO represents a land in API responses
type LandDTO struct {
	ID                  uint64     `json:"id"`
	Name                string     `json:"name"`
	Code                string     `json:"code"`
	AreaHectares        float64    `json:"area_hectares"`
	PlantType           string     `json:"plant_type"`
	PlantingDate        *time.Time `json:"planting_date"`
	HarvestCycleDays    int        `json:"harvest_cycle_days"`
	PreviousHarvestDate *time.Time `json:"previous_harvest_date"`
	NextHarvestDate     *time.Time `json:"next_harvest_date"`
	CreatedBy           uint64     `json:"created_by"`
	TeamID              *uint64    `json:"team_id"`
	IsActive            bool       `json:"is_active"`
	Team                *TeamDTO   `json:"team,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		IsActive:    user.IsActive,
	}
}

// ToTeamDTO converts a Team model to TeamDTO
func ToTeamDTO(team models.Team) TeamDTO {
	return TeamDTO{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		LeadUserID:  team.LeadUserID,
		IsActive:    team.IsActive,
	}
}

// ToLandDTO converts a Land model to LandDTO
func ToLandDTO(land models.Land) LandDTO {
	dto := LandDTO{
		ID:                  land.ID,
		Name:                land.Name,
		Code:                land.Code,
		AreaHectares:        land.AreaHectares,
		PlantType:           land.PlantType,
		PlantingDate:        land.PlantingDate,
		HarvestCycleDays:    land.HarvestCycleDays,
		PreviousHarvestDate: land.PreviousHarvestDate,
		NextHarvestDate:     land.NextHarvestDate,
		CreatedBy:           land.CreatedBy,
		TeamID:              land.TeamID,
		IsActive:            land.IsActive,
	}
	if land.Team != nil && land.Team.ID != 0 {
		team := ToTeamDTO(*land.Team)
		dto.Team = &team
	}
	return dto
}
