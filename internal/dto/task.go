package dto

import (
	"github.com/harukimoto/governance-ledger/internal/models"
)

// MilestoneDTO represents a milestone in API responses
type MilestoneDTO struct {
	ProjectID     uint64        `json:"project_id"`
	MilestoneID   uint64        `json:"milestone_id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Status        models.Status `json:"status"`
	Deadline      uint64        `json:"deadline"`
	CreatedHeight uint64        `json:"created_height"`
	TaskCount     uint64        `json:"task_count"`
}

// ToMilestoneDTO converts a milestone model to its response form
func ToMilestoneDTO(milestone models.Milestone) MilestoneDTO {
	return MilestoneDTO{
		ProjectID:     milestone.ProjectID,
		MilestoneID:   milestone.MilestoneID,
		Name:          milestone.Name,
		Description:   milestone.Description,
		Status:        milestone.Status,
		Deadline:      milestone.Deadline,
		CreatedHeight: milestone.CreatedHeight,
		TaskCount:     milestone.TaskCount,
	}
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ProjectID     uint64        `json:"project_id"`
	MilestoneID   uint64        `json:"milestone_id"`
	TaskID        uint64        `json:"task_id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	AssigneeID    *uint64       `json:"assignee_id"`
	Status        models.Status `json:"status"`
	Deadline      uint64        `json:"deadline"`
	CreatedHeight uint64        `json:"created_height"`
	Dependencies  []uint64      `json:"dependencies"`
}

// ToTaskDTO converts a task model to its response form; dependencies are
// flattened to their task IDs in declaration order.
func ToTaskDTO(task models.Task) TaskDTO {
	deps := make([]uint64, 0, len(task.Dependencies))
	for _, dep := range task.Dependencies {
		deps = append(deps, dep.DependsOnTaskID)
	}

	return TaskDTO{
		ProjectID:     task.ProjectID,
		MilestoneID:   task.MilestoneID,
		TaskID:        task.TaskID,
		Name:          task.Name,
		Description:   task.Description,
		AssigneeID:    task.AssigneeID,
		Status:        task.Status,
		Deadline:      task.Deadline,
		CreatedHeight: task.CreatedHeight,
		Dependencies:  deps,
	}
}

// ToTaskDTOs converts a slice of task models
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskDTO(t))
	}
	return out
}
