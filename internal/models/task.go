package models

import "time"

// Task is doubly scoped: (ProjectID, MilestoneID, TaskID) is the primary
// key and TaskID comes from the milestone's counter. AssigneeID is nil
// until an explicit assignment.
type Task struct {
	ProjectID     uint64    `gorm:"primarykey;autoIncrement:false" json:"project_id"`
	MilestoneID   uint64    `gorm:"primarykey;autoIncrement:false" json:"milestone_id"`
	TaskID        uint64    `gorm:"primarykey;autoIncrement:false" json:"task_id"`
	Name          string    `gorm:"type:varchar(100);not null" json:"name"`
	Description   string    `gorm:"type:varchar(500)" json:"description"`
	AssigneeID    *uint64   `json:"assignee_id"`
	Status        Status    `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Deadline      uint64    `gorm:"not null" json:"deadline"`
	CreatedHeight uint64    `gorm:"not null" json:"created_height"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Dependencies []TaskDependency `gorm:"foreignKey:ProjectID,MilestoneID,TaskID;references:ProjectID,MilestoneID,TaskID" json:"dependencies,omitempty"`
}

// TaskDependency declares that a task may only reach COMPLETED once the
// task DependsOnTaskID (in the same milestone) is COMPLETED. Position
// preserves the declared ordering. The referenced task is not required to
// exist at declaration time; existence is checked at the completion gate.
type TaskDependency struct {
	ProjectID       uint64 `gorm:"primarykey;autoIncrement:false" json:"project_id"`
	MilestoneID     uint64 `gorm:"primarykey;autoIncrement:false" json:"milestone_id"`
	TaskID          uint64 `gorm:"primarykey;autoIncrement:false" json:"task_id"`
	Position        int    `gorm:"primarykey;autoIncrement:false" json:"position"`
	DependsOnTaskID uint64 `gorm:"not null" json:"depends_on_task_id"`
}
