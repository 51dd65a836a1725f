package repository

import (
	"github.com/harukimoto/governance-ledger/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create allocates the next task ID from the owning milestone's counter and
// inserts the task together with its dependency rows. Dependency targets
// are stored as declared; their existence is only checked at the
// completion gate.
func (r *GormTaskRepository) Create(task *models.Task, dependencies []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var milestone models.Milestone
		if err := tx.Where("project_id = ? AND milestone_id = ?", task.ProjectID, task.MilestoneID).
			First(&milestone).Error; err != nil {
			return err
		}

		task.TaskID = milestone.TaskCount + 1

		if err := tx.Create(task).Error; err != nil {
			return err
		}

		for i, dep := range dependencies {
			row := models.TaskDependency{
				ProjectID:       task.ProjectID,
				MilestoneID:     task.MilestoneID,
				TaskID:          task.TaskID,
				Position:        i,
				DependsOnTaskID: dep,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Milestone{}).
			Where("project_id = ? AND milestone_id = ?", task.ProjectID, task.MilestoneID).
			Update("task_count", task.TaskID).Error
	})
}

// FindByID finds a task by its scoped identifier, with dependencies loaded
// in declaration order
func (r *GormTaskRepository) FindByID(projectID, milestoneID, taskID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Preload("Dependencies", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("project_id = ? AND milestone_id = ? AND task_id = ?", projectID, milestoneID, taskID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// ListByMilestone lists all tasks of a milestone
func (r *GormTaskRepository) ListByMilestone(projectID, milestoneID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Where("project_id = ? AND milestone_id = ?", projectID, milestoneID).
		Order("task_id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByAssignee lists all tasks in a project assigned to a user
func (r *GormTaskRepository) ListByAssignee(projectID, userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Where("project_id = ? AND assignee_id = ?", projectID, userID).
		Order("milestone_id ASC, task_id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByDeadlineRange lists tasks whose deadline falls in [from, to]
func (r *GormTaskRepository) ListByDeadlineRange(projectID, from, to uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Where("project_id = ? AND deadline >= ? AND deadline <= ?", projectID, from, to).
		Order("deadline ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
