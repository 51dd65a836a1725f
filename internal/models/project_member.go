package models

import "time"

// Role is the numeric privilege rank of a project member. Lower value
// means more privilege. The zero value is not a role; it is the
// fail-closed sentinel for "no membership".
type Role uint8

const (
	RoleAdmin  Role = 1
	RoleMember Role = 2
	RoleViewer Role = 3
)

// Valid reports whether r is one of the three defined roles.
func (r Role) Valid() bool {
	return r >= RoleAdmin && r <= RoleViewer
}

// Authorizes reports whether r is at least as privileged as required.
// The zero sentinel never authorizes anything.
func (r Role) Authorizes(required Role) bool {
	return r.Valid() && r <= required
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleMember:
		return "member"
	case RoleViewer:
		return "viewer"
	default:
		return "none"
	}
}

// ProjectMember records a user's rank within a project. The creator gets
// an admin row at project creation; every other row comes from an
// explicit grant. There is no removal operation.
type ProjectMember struct {
	ProjectID    uint64    `gorm:"primarykey;autoIncrement:false" json:"project_id"`
	UserID       uint64    `gorm:"primarykey;autoIncrement:false" json:"user_id"`
	Role         Role      `gorm:"not null" json:"role"`
	JoinedHeight uint64    `gorm:"not null" json:"joined_height"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
