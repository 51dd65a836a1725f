package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harukimoto/governance-ledger/internal/clock"
	"github.com/harukimoto/governance-ledger/internal/constants"
	"github.com/harukimoto/governance-ledger/internal/models"
	"github.com/harukimoto/governance-ledger/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrMilestoneNotFound  = errors.New("milestone not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrNotAuthorized      = errors.New("caller lacks the required rank")
	ErrInvalidDeadline    = errors.New("deadline must be above the current height")
	ErrMemberNotFound     = errors.New("user is not a member of the project")
	ErrMemberExists       = errors.New("user already has a role in the project")
	ErrInvalidRole        = errors.New("role must be admin, member or viewer")
	ErrInvalidStatus      = errors.New("status is not one of the defined values")
	ErrNameRequired       = errors.New("name is required")
	ErrNameTooLong        = errors.New("name exceeds the maximum length")
	ErrDescriptionTooLong = errors.New("description exceeds the maximum length")
)

// ProjectService owns project records and the membership table, and hosts
// the authorization predicate the other services consult.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	clock       clock.Clock
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, clk clock.Clock) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		clock:       clk,
	}
}

// Authorize reports whether the caller may act on the project at the
// required rank. The creator is always authorized; everyone else needs a
// membership whose rank is at least as privileged. Fails closed when no
// membership exists, and is re-evaluated on every privileged call.
func (s *ProjectService) Authorize(project *models.Project, callerID uint64, required models.Role) bool {
	if project.CreatorID == callerID {
		return true
	}

	member, err := s.projectRepo.FindMember(project.ID, callerID)
	if err != nil {
		return false
	}

	return member.Role.Authorizes(required)
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	Deadline    uint64
	CreatorID   uint64
}

// CreateProject creates a project with status PENDING and grants the
// creator an admin membership. The project ID is allocated by the global
// counter; milestone and communication counters start at zero.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if err := validateNameAndDescription(input.Name, input.Description); err != nil {
		return nil, err
	}

	height := s.clock.Height()
	if input.Deadline <= height {
		return nil, ErrInvalidDeadline
	}

	project := &models.Project{
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		CreatorID:     input.CreatorID,
		Status:        models.StatusPending,
		Deadline:      input.Deadline,
		CreatedHeight: height,
	}

	member := &models.ProjectMember{
		UserID:       input.CreatorID,
		Role:         models.RoleAdmin,
		JoinedHeight: height,
	}

	if err := s.projectRepo.CreateWithCreator(project, member); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// AddTeamMemberInput represents parameters to grant a project role.
type AddTeamMemberInput struct {
	ProjectID uint64
	ActorID   uint64
	UserID    uint64
	Role      models.Role
}

// AddTeamMember grants a role to a user. Only admins (or the creator) may
// grant roles, the target must be a known user, and a user may hold at
// most one role per project.
func (s *ProjectService) AddTeamMember(input AddTeamMemberInput) (*models.ProjectMember, error) {
	project, err := s.findProject(input.ProjectID)
	if err != nil {
		return nil, err
	}

	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}

	if !s.Authorize(project, input.ActorID, models.RoleAdmin) {
		return nil, ErrNotAuthorized
	}

	if _, err := s.userRepo.FindByID(input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.projectRepo.FindMember(input.ProjectID, input.UserID); err == nil {
		return nil, ErrMemberExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID:    input.ProjectID,
		UserID:       input.UserID,
		Role:         input.Role,
		JoinedHeight: s.clock.Height(),
	}

	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

// UpdateProjectStatus sets the project status. Admin-gated; any of the
// five statuses may replace any other, and nothing cascades to milestones
// or tasks.
func (s *ProjectService) UpdateProjectStatus(projectID, actorID uint64, status models.Status) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	if !s.Authorize(project, actorID, models.RoleAdmin) {
		return nil, ErrNotAuthorized
	}

	project.Status = status
	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project status: %w", err)
	}

	return project, nil
}

// GetProject returns a project by ID.
func (s *ProjectService) GetProject(projectID uint64) (*models.Project, error) {
	return s.findProject(projectID)
}

// GetMemberRole returns the stored rank of a user within a project. The
// creator override is an authorization rule, not a membership row, so a
// creator without a row still reports no role here.
func (s *ProjectService) GetMemberRole(projectID, userID uint64) (models.Role, error) {
	if _, err := s.findProject(projectID); err != nil {
		return 0, err
	}

	member, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrMemberNotFound
		}
		return 0, fmt.Errorf("failed to find member: %w", err)
	}

	return member.Role, nil
}

// ListMembers returns all members of a project.
func (s *ProjectService) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	if _, err := s.findProject(projectID); err != nil {
		return nil, err
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return members, nil
}

func (s *ProjectService) findProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// validateNameAndDescription enforces the documented text bounds before
// any state is touched.
func validateNameAndDescription(name, description string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if len(name) > constants.MaxNameLength {
		return ErrNameTooLong
	}
	if len(description) > constants.MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}
