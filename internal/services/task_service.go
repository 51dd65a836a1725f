package services

import (
	"errors"
	"fmt"

	"github.com/harukimoto/governance-ledger/internal/clock"
	"github.com/harukimoto/governance-ledger/internal/constants"
	"github.com/harukimoto/governance-ledger/internal/models"
	"github.com/harukimoto/governance-ledger/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTooManyDependencies  = errors.New("a task may declare at most 10 dependencies")
	ErrDependencyIncomplete = errors.New("one or more dependency tasks are not completed")
)

// TaskService owns the milestone and task registries and the status
// engine, including the dependency gate on completion.
type TaskService struct {
	milestoneRepo  repository.MilestoneRepository
	taskRepo       repository.TaskRepository
	projectService *ProjectService
	clock          clock.Clock
}

// NewTaskService creates a new TaskService.
func NewTaskService(milestoneRepo repository.MilestoneRepository, taskRepo repository.TaskRepository, projectService *ProjectService, clk clock.Clock) *TaskService {
	return &TaskService{
		milestoneRepo:  milestoneRepo,
		taskRepo:       taskRepo,
		projectService: projectService,
		clock:          clk,
	}
}

// CreateMilestoneInput represents parameters to create a milestone.
type CreateMilestoneInput struct {
	ProjectID   uint64
	ActorID     uint64
	Name        string
	Description string
	Deadline    uint64
}

// CreateMilestone creates a milestone with status PENDING. Admin-gated.
// The milestone ID comes from the project's counter, starting at 1.
func (s *TaskService) CreateMilestone(input CreateMilestoneInput) (*models.Milestone, error) {
	project, err := s.projectService.findProject(input.ProjectID)
	if err != nil {
		return nil, err
	}

	if !s.projectService.Authorize(project, input.ActorID, models.RoleAdmin) {
		return nil, ErrNotAuthorized
	}

	if err := validateNameAndDescription(input.Name, input.Description); err != nil {
		return nil, err
	}

	height := s.clock.Height()
	if input.Deadline <= height {
		return nil, ErrInvalidDeadline
	}

	milestone := &models.Milestone{
		ProjectID:     input.ProjectID,
		Name:          input.Name,
		Description:   input.Description,
		Status:        models.StatusPending,
		Deadline:      input.Deadline,
		CreatedHeight: height,
	}

	if err := s.milestoneRepo.Create(milestone); err != nil {
		return nil, fmt.Errorf("failed to create milestone: %w", err)
	}

	return milestone, nil
}

// CreateTaskInput represents parameters to create a task.
type CreateTaskInput struct {
	ProjectID    uint64
	MilestoneID  uint64
	ActorID      uint64
	Name         string
	Description  string
	Deadline     uint64
	Dependencies []uint64
}

// CreateTask creates a task with status PENDING and no assignee. Member
// rank suffices. Dependencies are task IDs within the same milestone and
// are stored as declared: they may reference tasks that do not exist yet,
// and are only validated when the task is moved to COMPLETED.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	project, err := s.projectService.findProject(input.ProjectID)
	if err != nil {
		return nil, err
	}

	if _, err := s.findMilestone(input.ProjectID, input.MilestoneID); err != nil {
		return nil, err
	}

	if !s.projectService.Authorize(project, input.ActorID, models.RoleMember) {
		return nil, ErrNotAuthorized
	}

	if err := validateNameAndDescription(input.Name, input.Description); err != nil {
		return nil, err
	}

	if len(input.Dependencies) > constants.MaxTaskDependencies {
		return nil, ErrTooManyDependencies
	}

	height := s.clock.Height()
	if input.Deadline <= height {
		return nil, ErrInvalidDeadline
	}

	task := &models.Task{
		ProjectID:     input.ProjectID,
		MilestoneID:   input.MilestoneID,
		Name:          input.Name,
		Description:   input.Description,
		Status:        models.StatusPending,
		Deadline:      input.Deadline,
		CreatedHeight: height,
	}

	if err := s.taskRepo.Create(task, input.Dependencies); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ProjectID, task.MilestoneID, task.TaskID)
}

// AssignTaskInput represents parameters to assign a task.
type AssignTaskInput struct {
	ProjectID   uint64
	MilestoneID uint64
	TaskID      uint64
	ActorID     uint64
	AssigneeID  uint64
}

// AssignTask sets the task's assignee. Admins (and the creator) may assign
// anyone; the current assignee may hand the task over. The new assignee
// must already hold a membership in the project.
func (s *TaskService) AssignTask(input AssignTaskInput) (*models.Task, error) {
	project, err := s.projectService.findProject(input.ProjectID)
	if err != nil {
		return nil, err
	}

	task, err := s.findTask(input.ProjectID, input.MilestoneID, input.TaskID)
	if err != nil {
		return nil, err
	}

	permitted := s.projectService.Authorize(project, input.ActorID, models.RoleAdmin)
	if !permitted && task.AssigneeID != nil && *task.AssigneeID == input.ActorID {
		permitted = true
	}
	if !permitted {
		return nil, ErrNotAuthorized
	}

	if _, err := s.projectService.projectRepo.FindMember(input.ProjectID, input.AssigneeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to verify assignee membership: %w", err)
	}

	assignee := input.AssigneeID
	task.AssigneeID = &assignee

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	return task, nil
}

// UpdateTaskStatusInput represents parameters to change a task's status.
type UpdateTaskStatusInput struct {
	ProjectID   uint64
	MilestoneID uint64
	TaskID      uint64
	ActorID     uint64
	Status      models.Status
}

// UpdateTaskStatus sets the task's status. Member rank or being the
// assignee suffices. Any status may replace any other, except that
// COMPLETED requires every declared dependency to exist and be COMPLETED.
// Nothing cascades to the milestone or project.
func (s *TaskService) UpdateTaskStatus(input UpdateTaskStatusInput) (*models.Task, error) {
	project, err := s.projectService.findProject(input.ProjectID)
	if err != nil {
		return nil, err
	}

	task, err := s.findTask(input.ProjectID, input.MilestoneID, input.TaskID)
	if err != nil {
		return nil, err
	}

	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	permitted := s.projectService.Authorize(project, input.ActorID, models.RoleMember)
	if !permitted && task.AssigneeID != nil && *task.AssigneeID == input.ActorID {
		permitted = true
	}
	if !permitted {
		return nil, ErrNotAuthorized
	}

	if input.Status == models.StatusCompleted {
		if err := s.checkDependenciesCompleted(task); err != nil {
			return nil, err
		}
	}

	task.Status = input.Status
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	return task, nil
}

// checkDependenciesCompleted enforces the completion gate: every declared
// dependency must resolve to an existing COMPLETED task in the same
// milestone. A dependency pointing at a task that was never created
// counts as incomplete.
func (s *TaskService) checkDependenciesCompleted(task *models.Task) error {
	for _, dep := range task.Dependencies {
		depTask, err := s.taskRepo.FindByID(task.ProjectID, task.MilestoneID, dep.DependsOnTaskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDependencyIncomplete
			}
			return fmt.Errorf("failed to find dependency task: %w", err)
		}
		if depTask.Status != models.StatusCompleted {
			return ErrDependencyIncomplete
		}
	}
	return nil
}

// UpdateMilestoneStatus sets the milestone status. Admin-gated, no
// dependency gate, no cascade.
func (s *TaskService) UpdateMilestoneStatus(projectID, milestoneID, actorID uint64, status models.Status) (*models.Milestone, error) {
	project, err := s.projectService.findProject(projectID)
	if err != nil {
		return nil, err
	}

	milestone, err := s.findMilestone(projectID, milestoneID)
	if err != nil {
		return nil, err
	}

	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	if !s.projectService.Authorize(project, actorID, models.RoleAdmin) {
		return nil, ErrNotAuthorized
	}

	milestone.Status = status
	if err := s.milestoneRepo.Update(milestone); err != nil {
		return nil, fmt.Errorf("failed to update milestone status: %w", err)
	}

	return milestone, nil
}

// GetMilestone returns a milestone by its scoped identifier.
func (s *TaskService) GetMilestone(projectID, milestoneID uint64) (*models.Milestone, error) {
	if _, err := s.projectService.findProject(projectID); err != nil {
		return nil, err
	}
	return s.findMilestone(projectID, milestoneID)
}

// ListMilestones returns all milestones of a project.
func (s *TaskService) ListMilestones(projectID uint64) ([]models.Milestone, error) {
	if _, err := s.projectService.findProject(projectID); err != nil {
		return nil, err
	}

	milestones, err := s.milestoneRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}

	return milestones, nil
}

// GetTask returns a task by its scoped identifier, dependencies included.
func (s *TaskService) GetTask(projectID, milestoneID, taskID uint64) (*models.Task, error) {
	if _, err := s.projectService.findProject(projectID); err != nil {
		return nil, err
	}
	return s.findTask(projectID, milestoneID, taskID)
}

// ListTasks returns all tasks of a milestone.
func (s *TaskService) ListTasks(projectID, milestoneID uint64) ([]models.Task, error) {
	if _, err := s.projectService.findProject(projectID); err != nil {
		return nil, err
	}
	if _, err := s.findMilestone(projectID, milestoneID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByMilestone(projectID, milestoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTasksByAssignee returns all tasks in a project assigned to a user.
func (s *TaskService) GetTasksByAssignee(projectID, userID uint64) ([]models.Task, error) {
	if _, err := s.projectService.findProject(projectID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByAssignee(projectID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks by assignee: %w", err)
	}

	return tasks, nil
}

// UpcomingDeadlines collects every deadline in a project that falls within
// the window [current height, current height + window].
type UpcomingDeadlines struct {
	Height     uint64             `json:"height"`
	Window     uint64             `json:"window"`
	Project    *models.Project    `json:"project,omitempty"`
	Milestones []models.Milestone `json:"milestones"`
	Tasks      []models.Task      `json:"tasks"`
}

// GetUpcomingDeadlines returns project, milestone and task deadlines
// falling inside the window.
func (s *TaskService) GetUpcomingDeadlines(projectID, window uint64) (*UpcomingDeadlines, error) {
	project, err := s.projectService.findProject(projectID)
	if err != nil {
		return nil, err
	}

	height := s.clock.Height()
	from, to := height, height+window

	result := &UpcomingDeadlines{
		Height:     height,
		Window:     window,
		Milestones: []models.Milestone{},
		Tasks:      []models.Task{},
	}

	if project.Deadline >= from && project.Deadline <= to {
		result.Project = project
	}

	milestones, err := s.milestoneRepo.ListByDeadlineRange(projectID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestone deadlines: %w", err)
	}
	result.Milestones = milestones

	tasks, err := s.taskRepo.ListByDeadlineRange(projectID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list task deadlines: %w", err)
	}
	result.Tasks = tasks

	return result, nil
}

func (s *TaskService) findMilestone(projectID, milestoneID uint64) (*models.Milestone, error) {
	milestone, err := s.milestoneRepo.FindByID(projectID, milestoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("failed to find milestone: %w", err)
	}
	return milestone, nil
}

func (s *TaskService) findTask(projectID, milestoneID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(projectID, milestoneID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
