package models

import "time"

// Project is the root entity of the ledger hierarchy. It owns the
// allocators for milestone and communication IDs: MilestoneCount and
// CommunicationCount hold the highest ID handed out so far, and every
// allocation bumps the counter in the same transaction as the insert.
type Project struct {
	ID                 uint64    `gorm:"primarykey" json:"id"`
	Name               string    `gorm:"type:varchar(100);not null" json:"name"`
	Description        string    `gorm:"type:varchar(500)" json:"description"`
	CreatorID          uint64    `gorm:"not null" json:"creator_id"`
	Status             Status    `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Deadline           uint64    `gorm:"not null" json:"deadline"`
	CreatedHeight      uint64    `gorm:"not null" json:"created_height"`
	MilestoneCount     uint64    `gorm:"not null;default:0" json:"milestone_count"`
	CommunicationCount uint64    `gorm:"not null;default:0" json:"communication_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Relations
	Members        []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Milestones     []Milestone     `gorm:"foreignKey:ProjectID" json:"milestones,omitempty"`
	Communications []Communication `gorm:"foreignKey:ProjectID" json:"communications,omitempty"`
}
