package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harukimoto/governance-ledger/internal/dto"
	apierrors "github.com/harukimoto/governance-ledger/internal/errors"
	"github.com/harukimoto/governance-ledger/internal/middleware"
	"github.com/harukimoto/governance-ledger/internal/models"
	"github.com/harukimoto/governance-ledger/internal/services"
)

// ProjectHandler coordinates project and membership HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject registers a new project owned by the caller.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required,max=100"`
		Description string `json:"description" binding:"max=500"`
		Deadline    uint64 `json:"deadline" binding:"required"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
		CreatorID:   userID,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// GetProject returns a project by ID.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(projectID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProjectStatus sets a project's status.
func (h *ProjectHandler) UpdateProjectStatus(c *gin.Context) {
	type UpdateStatusRequest struct {
		Status models.Status `json:"status" binding:"required"`
	}

	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProjectStatus(projectID, userID, req.Status)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// AddTeamMember grants a project role to a user.
func (h *ProjectHandler) AddTeamMember(c *gin.Context) {
	type AddMemberRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
		Role   uint8  `json:"role" binding:"required"`
	}

	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.projectService.AddTeamMember(services.AddTeamMemberInput{
		ProjectID: projectID,
		ActorID:   userID,
		UserID:    req.UserID,
		Role:      models.Role(req.Role),
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMemberDTO(*member))
}

// GetMemberRole returns the stored rank of a project member.
func (h *ProjectHandler) GetMemberRole(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	role, err := h.projectService.GetMemberRole(projectID, memberID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project_id": projectID,
		"user_id":    memberID,
		"role":       role.String(),
		"rank":       uint8(role),
	})
}

// ListMembers returns all members of a project.
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	members, err := h.projectService.ListMembers(projectID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	memberDTOs := make([]dto.MemberDTO, 0, len(members))
	for _, m := range members {
		memberDTOs = append(memberDTOs, dto.ToMemberDTO(m))
	}

	c.JSON(http.StatusOK, gin.H{"members": memberDTOs})
}
