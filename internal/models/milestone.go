package models

import "time"

// Milestone is scoped to its project: (ProjectID, MilestoneID) is the
// primary key and MilestoneID is allocated by the project's counter.
// TaskCount is the task-ID allocator for this milestone.
type Milestone struct {
	ProjectID     uint64    `gorm:"primarykey;autoIncrement:false" json:"project_id"`
	MilestoneID   uint64    `gorm:"primarykey;autoIncrement:false" json:"milestone_id"`
	Name          string    `gorm:"type:varchar(100);not null" json:"name"`
	Description   string    `gorm:"type:varchar(500)" json:"description"`
	Status        Status    `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Deadline      uint64    `gorm:"not null" json:"deadline"`
	CreatedHeight uint64    `gorm:"not null" json:"created_height"`
	TaskCount     uint64    `gorm:"not null;default:0" json:"task_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Tasks []Task `gorm:"foreignKey:ProjectID,MilestoneID;references:ProjectID,MilestoneID" json:"tasks,omitempty"`
}
