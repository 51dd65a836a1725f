package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harukimoto/governance-ledger/internal/dto"
	apierrors "github.com/harukimoto/governance-ledger/internal/errors"
	"github.com/harukimoto/governance-ledger/internal/middleware"
	"github.com/harukimoto/governance-ledger/internal/models"
	"github.com/harukimoto/governance-ledger/internal/services"
	"github.com/harukimoto/governance-ledger/internal/utils"
)

// CommunicationHandler coordinates the project log HTTP handlers.
type CommunicationHandler struct {
	commService *services.CommunicationService
}

// NewCommunicationHandler creates a new CommunicationHandler.
func NewCommunicationHandler(commService *services.CommunicationService) *CommunicationHandler {
	return &CommunicationHandler{
		commService: commService,
	}
}

// PostCommunication appends a message to the project log.
func (h *CommunicationHandler) PostCommunication(c *gin.Context) {
	type PostRequest struct {
		ContextType string `json:"context_type" binding:"required,oneof=project milestone task"`
		ContextID   uint64 `json:"context_id" binding:"required"`
		Message     string `json:"message" binding:"required,max=1000"`
	}

	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comm, err := h.commService.PostCommunication(services.PostCommunicationInput{
		ProjectID:   projectID,
		SenderID:    userID,
		ContextType: models.ContextType(req.ContextType),
		ContextID:   req.ContextID,
		Message:     req.Message,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommunicationDTO(*comm))
}

// ListCommunications returns a page of the project log, newest first.
func (h *CommunicationHandler) ListCommunications(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	comms, total, err := h.commService.ListCommunications(projectID, params)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	commDTOs := make([]dto.CommunicationDTO, 0, len(comms))
	for _, comm := range comms {
		commDTOs = append(commDTOs, dto.ToCommunicationDTO(comm))
	}

	c.JSON(http.StatusOK, gin.H{
		"communications": commDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}
