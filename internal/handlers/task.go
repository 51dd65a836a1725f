package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/harukimoto/governance-ledger/internal/constants"
	"github.com/harukimoto/governance-ledger/internal/dto"
	apierrors "github.com/harukimoto/governance-ledger/internal/errors"
	"github.com/harukimoto/governance-ledger/internal/middleware"
	"github.com/harukimoto/governance-ledger/internal/models"
	"github.com/harukimoto/governance-ledger/internal/services"
)

// TaskHandler coordinates milestone and task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateMilestone adds a milestone to a project.
func (h *TaskHandler) CreateMilestone(c *gin.Context) {
	type CreateMilestoneRequest struct {
		Name        string `json:"name" binding:"required,max=100"`
		Description string `json:"description" binding:"max=500"`
		Deadline    uint64 `json:"deadline" binding:"required"`
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

	var req CreateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	milestone, err := h.taskService.CreateMilestone(services.CreateMilestoneInput{
		ProjectID:   projectID,
		ActorID:     userID,
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMilestoneDTO(*milestone))
}

// GetMilestone returns a milestone by its scoped identifier.
func (h *TaskHandler) GetMilestone(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	milestoneID, ok := pathID(c, "milestone_id")
	if !ok {
		return
	}

	milestone, err := h.taskService.GetMilestone(projectID, milestoneID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMilestoneDTO(*milestone))
}

// ListMilestones returns all milestones of a project.
func (h *TaskHandler) ListMilestones(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	milestones, err := h.taskService.ListMilestones(projectID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	milestoneDTOs := make([]dto.MilestoneDTO, 0, len(milestones))
	for _, m := range milestones {
		milestoneDTOs = append(milestoneDTOs, dto.ToMilestoneDTO(m))
	}

	c.JSON(http.StatusOK, gin.H{"milestones": milestoneDTOs})
}

// UpdateMilestoneStatus sets a milestone's status.
func (h *TaskHandler) UpdateMilestoneStatus(c *gin.Context) {
	type UpdateStatusRequest struct {
		Status models.Status `json:"status" binding:"required"`
	}

	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	milestoneID, ok := pathID(c, "milestone_id")
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

	milestone, err := h.taskService.UpdateMilestoneStatus(projectID, milestoneID, userID, req.Status)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMilestoneDTO(*milestone))
}

// CreateTask adds a task to a milestone.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Name         string   `json:"name" binding:"required,max=100"`
		Description  string   `json:"description" binding:"max=500"`
		Deadline     uint64   `json:"deadline" binding:"required"`
		Dependencies []uint64 `json:"dependencies" binding:"max=10"`
	}

	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	milestoneID, ok := pathID(c, "milestone_id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		ProjectID:    projectID,
		MilestoneID:  milestoneID,
		ActorID:      userID,
		Name:         req.Name,
		Description:  req.Description,
		Deadline:     req.Deadline,
		Dependencies: req.Dependencies,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a task by its scoped identifier.
func (h *TaskHandler) GetTask(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	milestoneID, ok := pathID(c, "milestone_id")
	if !ok {
		return
	}
	taskID, ok := pathID(c, "task_id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(projectID, milestoneID, taskID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ListTasks returns all tasks of a milestone.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	milestoneID, ok := pathID(c, "milestone_id")
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(projectID, milestoneID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskDTOs(tasks)})
}

// AssignTask sets a task's assignee.
func (h *TaskHandler) AssignTask(c *gin.Context) {
	type AssignTaskRequest struct {
		AssigneeID uint64 `json:"assignee_id" binding:"required"`
	}

	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	milestoneID, ok := pathID(c, "milestone_id")
	if !ok {
		return
	}
	taskID, ok := pathID(c, "task_id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.AssignTask(services.AssignTaskInput{
		ProjectID:   projectID,
		MilestoneID: milestoneID,
		TaskID:      taskID,
		ActorID:     userID,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTaskStatus sets a task's status, enforcing the dependency gate on
// completion.
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	type UpdateStatusRequest struct {
		Status models.Status `json:"status" binding:"required"`
	}

	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	milestoneID, ok := pathID(c, "milestone_id")
	if !ok {
		return
	}
	taskID, ok := pathID(c, "task_id")
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

	task, err := h.taskService.UpdateTaskStatus(services.UpdateTaskStatusInput{
		ProjectID:   projectID,
		MilestoneID: milestoneID,
		TaskID:      taskID,
		ActorID:     userID,
		Status:      req.Status,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// GetTasksByAssignee returns all tasks in a project assigned to a user.
func (h *TaskHandler) GetTasksByAssignee(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	assigneeID, err := strconv.ParseUint(c.Query("assignee_id"), 10, 64)
	if err != nil || assigneeID == 0 {
		apierrors.BadRequest(c, "Invalid assignee_id")
		return
	}

	tasks, svcErr := h.taskService.GetTasksByAssignee(projectID, assigneeID)
	if svcErr != nil {
		respondLedgerError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskDTOs(tasks)})
}

// GetUpcomingDeadlines returns the deadlines falling within the requested
// height window.
func (h *TaskHandler) GetUpcomingDeadlines(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	window := uint64(constants.DefaultDeadlineWindow)
	if raw := c.Query("window"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid window")
			return
		}
		window = parsed
	}

	deadlines, err := h.taskService.GetUpcomingDeadlines(projectID, window)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, deadlines)
}
