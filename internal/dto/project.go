package dto

import (
	"github.com/harukimoto/governance-ledger/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// ToUserDTO converts a user model to its response form
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID                 uint64        `json:"id"`
	Name               string        `json:"name"`
	Description        string        `json:"description"`
	CreatorID          uint64        `json:"creator_id"`
	Status             models.Status `json:"status"`
	Deadline           uint64        `json:"deadline"`
	CreatedHeight      uint64        `json:"created_height"`
	MilestoneCount     uint64        `json:"milestone_count"`
	CommunicationCount uint64        `json:"communication_count"`
}

// ToProjectDTO converts a project model to its response form
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:                 project.ID,
		Name:               project.Name,
		Description:        project.Description,
		CreatorID:          project.CreatorID,
		Status:             project.Status,
		Deadline:           project.Deadline,
		CreatedHeight:      project.CreatedHeight,
		MilestoneCount:     project.MilestoneCount,
		CommunicationCount: project.CommunicationCount,
	}
}

// MemberDTO represents a project member in API responses
type MemberDTO struct {
	ProjectID    uint64 `json:"project_id"`
	UserID       uint64 `json:"user_id"`
	Role         string `json:"role"`
	Rank         uint8  `json:"rank"`
	JoinedHeight uint64 `json:"joined_height"`
}

// ToMemberDTO converts a membership model to its response form
func ToMemberDTO(member models.ProjectMember) MemberDTO {
	return MemberDTO{
		ProjectID:    member.ProjectID,
		UserID:       member.UserID,
		Role:         member.Role.String(),
		Rank:         uint8(member.Role),
		JoinedHeight: member.JoinedHeight,
	}
}

// CommunicationDTO represents a log entry in API responses
type CommunicationDTO struct {
	ProjectID   uint64             `json:"project_id"`
	CommID      uint64             `json:"comm_id"`
	SenderID    uint64             `json:"sender_id"`
	Height      uint64             `json:"height"`
	Message     string             `json:"message"`
	ContextType models.ContextType `json:"context_type"`
	ContextID   uint64             `json:"context_id"`
}

// ToCommunicationDTO converts a log entry model to its response form
func ToCommunicationDTO(comm models.Communication) CommunicationDTO {
	return CommunicationDTO{
		ProjectID:   comm.ProjectID,
		CommID:      comm.CommID,
		SenderID:    comm.SenderID,
		Height:      comm.Height,
		Message:     comm.Message,
		ContextType: comm.ContextType,
		ContextID:   comm.ContextID,
	}
}
