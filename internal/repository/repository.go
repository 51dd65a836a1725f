package repository

import (
	"github.com/harukimoto/governance-ledger/internal/models"
	"github.com/harukimoto/governance-ledger/internal/utils"
)

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	// CreateWithCreator creates a project and its creator's admin
	// membership within a single transaction
	CreateWithCreator(project *models.Project, member *models.ProjectMember) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// AddMember adds a member to a project
	AddMember(member *models.ProjectMember) error

	// FindMember finds a specific project member
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// ListMembers lists all members of a project
	ListMembers(projectID uint64) ([]models.ProjectMember, error)
}

// MilestoneRepository defines the interface for milestone data access
type MilestoneRepository interface {
	// Create allocates the next milestone ID from the project's counter
	// and inserts the milestone, both in one transaction
	Create(milestone *models.Milestone) error

	// FindByID finds a milestone by its scoped identifier
	FindByID(projectID, milestoneID uint64) (*models.Milestone, error)

	// Update updates a milestone
	Update(milestone *models.Milestone) error

	// ListByProject lists all milestones of a project
	ListByProject(projectID uint64) ([]models.Milestone, error)

	// ListByDeadlineRange lists milestones whose deadline falls in [from, to]
	ListByDeadlineRange(projectID, from, to uint64) ([]models.Milestone, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create allocates the next task ID from the milestone's counter and
	// inserts the task plus its dependency rows, all in one transaction
	Create(task *models.Task, dependencies []uint64) error

	// FindByID finds a task by its scoped identifier, with dependencies loaded
	FindByID(projectID, milestoneID, taskID uint64) (*models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// ListByMilestone lists all tasks of a milestone
	ListByMilestone(projectID, milestoneID uint64) ([]models.Task, error)

	// ListByAssignee lists all tasks in a project assigned to a user
	ListByAssignee(projectID, userID uint64) ([]models.Task, error)

	// ListByDeadlineRange lists tasks whose deadline falls in [from, to]
	ListByDeadlineRange(projectID, from, to uint64) ([]models.Task, error)
}

// CommunicationRepository defines the interface for the append-only log
type CommunicationRepository interface {
	// Append allocates the next communication ID from the project's
	// counter and inserts the entry, both in one transaction
	Append(comm *models.Communication) error

	// ListByProject lists a project's log entries, newest first, paginated
	ListByProject(projectID uint64, params utils.PaginationParams) ([]models.Communication, int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}
