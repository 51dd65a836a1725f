package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harukimoto/governance-ledger/internal/clock"
	"github.com/harukimoto/governance-ledger/internal/constants"
	"github.com/harukimoto/governance-ledger/internal/models"
	"github.com/harukimoto/governance-ledger/internal/repository"
	"github.com/harukimoto/governance-ledger/internal/utils"
)

var (
	ErrMessageRequired = errors.New("message is required")
	ErrMessageTooLong  = errors.New("message exceeds the maximum length")
	ErrInvalidContext  = errors.New("context type must be project, milestone or task")
)

// CommunicationService owns the per-project append-only log.
type CommunicationService struct {
	commRepo       repository.CommunicationRepository
	projectService *ProjectService
	clock          clock.Clock
}

// NewCommunicationService creates a new CommunicationService.
func NewCommunicationService(commRepo repository.CommunicationRepository, projectService *ProjectService, clk clock.Clock) *CommunicationService {
	return &CommunicationService{
		commRepo:       commRepo,
		projectService: projectService,
		clock:          clk,
	}
}

// PostCommunicationInput represents parameters to append a log entry.
type PostCommunicationInput struct {
	ProjectID   uint64
	SenderID    uint64
	ContextType models.ContextType
	ContextID   uint64
	Message     string
}

// PostCommunication appends an entry to the project's log. Viewer rank is
// the floor, so every member (and the creator) may post. The context
// reference is recorded as given; like task dependencies it is not checked
// against the registry. Entries are immutable once written.
func (s *CommunicationService) PostCommunication(input PostCommunicationInput) (*models.Communication, error) {
	project, err := s.projectService.findProject(input.ProjectID)
	if err != nil {
		return nil, err
	}

	if !input.ContextType.Valid() {
		return nil, ErrInvalidContext
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, ErrMessageRequired
	}
	if len(message) > constants.MaxMessageLength {
		return nil, ErrMessageTooLong
	}

	if !s.projectService.Authorize(project, input.SenderID, models.RoleViewer) {
		return nil, ErrNotAuthorized
	}

	comm := &models.Communication{
		ProjectID:   input.ProjectID,
		SenderID:    input.SenderID,
		Height:      s.clock.Height(),
		Message:     message,
		ContextType: input.ContextType,
		ContextID:   input.ContextID,
	}

	if err := s.commRepo.Append(comm); err != nil {
		return nil, fmt.Errorf("failed to append communication: %w", err)
	}

	return comm, nil
}

// ListCommunications returns a page of the project's log, newest first.
func (s *CommunicationService) ListCommunications(projectID uint64, params utils.PaginationParams) ([]models.Communication, int64, error) {
	if _, err := s.projectService.findProject(projectID); err != nil {
		return nil, 0, err
	}

	comms, total, err := s.commRepo.ListByProject(projectID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list communications: %w", err)
	}

	return comms, total, nil
}
