package models

import "time"

// ContextType tags which level of the hierarchy a communication refers to.
type ContextType string

const (
	ContextProject   ContextType = "project"
	ContextMilestone ContextType = "milestone"
	ContextTask      ContextType = "task"
)

// Valid reports whether t is one of the three defined context tags.
func (t ContextType) Valid() bool {
	switch t {
	case ContextProject, ContextMilestone, ContextTask:
		return true
	}
	return false
}

// Communication is one entry of a project's append-only log. CommID is
// allocated by the project's communication counter. Entries are never
// edited or deleted. The context reference is not validated against the
// registry; like task dependencies it may point anywhere in the project.
type Communication struct {
	ProjectID   uint64      `gorm:"primarykey;autoIncrement:false" json:"project_id"`
	CommID      uint64      `gorm:"primarykey;autoIncrement:false" json:"comm_id"`
	SenderID    uint64      `gorm:"not null" json:"sender_id"`
	Height      uint64      `gorm:"not null" json:"height"`
	Message     string      `gorm:"type:varchar(1000);not null" json:"message"`
	ContextType ContextType `gorm:"type:varchar(20);not null" json:"context_type"`
	ContextID   uint64      `gorm:"not null" json:"context_id"`
	CreatedAt   time.Time   `json:"created_at"`
}
