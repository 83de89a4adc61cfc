package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/croftside/farm-management-api/internal/dto"
	apierrors "github.com/croftside/farm-management-api/internal/errors"
	"github.com/croftside/farm-management-api/internal/models"
	"github.com/croftside/farm-management-api/internal/repository"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TeamHandler serves team CRUD and membership management.
type TeamHandler struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *TeamHandler {
	return &TeamHandler{teamRepo: teamRepo, userRepo: userRepo}
}

// ListTeams returns all teams
func (h *TeamHandler) ListTeams(c *gin.Context) {
	teams, err := h.teamRepo.List(c.Query("include_inactive") != "true")
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch teams")
		return
	}

	dtos := make([]dto.TeamDTO, len(teams))
	for i, team := range teams {
		dtos[i] = dto.ToTeamDTO(team)
	}
	c.JSON(http.StatusOK, gin.H{"teams": dtos})
}

// GetTeam returns one team with its members
func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	team, err := h.teamRepo.FindByID(id, "Lead")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Team not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch team")
		return
	}

	teamMembers, err := h.teamRepo.ListMembers(id)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch team members")
		return
	}

	members := make([]dto.UserDTO, 0, len(teamMembers))
	for _, m := range teamMembers {
		members = append(members, dto.ToUserDTO(m.User))
	}

	c.JSON(http.StatusOK, gin.H{
		"team":    dto.ToTeamDTO(*team),
		"members": members,
	})
}

// CreateTeam creates a new team
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	type CreateTeamRequest struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		LeadUserID  *uint64 `json:"lead_user_id"`
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team := &models.Team{
		Name:        req.Name,
		Description: req.Description,
		LeadUserID:  req.LeadUserID,
		IsActive:    true,
	}
	if err := h.teamRepo.Create(team); err != nil {
		apierrors.InternalError(c, "Failed to create team")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}

// UpdateTeam applies a sparse patch to a team
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	team, err := h.teamRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Team not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch team")
		return
	}

	type UpdateTeamRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		LeadUserID  *uint64 `json:"lead_user_id"`
		IsActive    *bool   `json:"is_active"`
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.Description != nil {
		team.Description = *req.Description
	}
	if req.LeadUserID != nil {
		team.LeadUserID = req.LeadUserID
	}
	if req.IsActive != nil {
		team.IsActive = *req.IsActive
	}

	if err := h.teamRepo.Update(team); err != nil {
		apierrors.InternalError(c, "Failed to update team")
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// DeactivateTeam clears the active flag
func (h *TeamHandler) DeactivateTeam(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.teamRepo.Deactivate(id); err != nil {
		apierrors.InternalError(c, "Failed to deactivate team")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Team deactivated"})
}

// AddMember adds a user to a team
func (h *TeamHandler) AddMember(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type AddMemberRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if _, err := h.userRepo.FindByID(req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "User not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch user")
		return
	}

	member := &models.TeamMember{TeamID: id, UserID: req.UserID}
	if err := h.teamRepo.AddMember(member); err != nil {
		apierrors.InternalError(c, "Failed to add team member")
		return
	}

	c.JSON(http.StatusCreated, member)
}

// RemoveMember removes a user from a team
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user id")
		return
	}

	if err := h.teamRepo.RemoveMember(id, userID); err != nil {
		apierrors.InternalError(c, "Failed to remove team member")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}
