package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/harukimoto/governance-ledger/internal/errors"
	"github.com/harukimoto/governance-ledger/internal/services"
)

// respondLedgerError maps the services' sentinel errors onto the closed
// error-code taxonomy of the API.
func respondLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, apierrors.ErrCodeProjectNotFound, err.Error())
	case errors.Is(err, services.ErrMilestoneNotFound):
		apierrors.NotFound(c, apierrors.ErrCodeMilestoneNotFound, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, apierrors.ErrCodeTaskNotFound, err.Error())
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, apierrors.ErrCodeUserNotFound, err.Error())
	case errors.Is(err, services.ErrNotAuthorized):
		apierrors.NotAuthorized(c, err.Error())
	case errors.Is(err, services.ErrInvalidDeadline):
		apierrors.UnprocessableEntity(c, apierrors.ErrCodeInvalidDeadline, err.Error())
	case errors.Is(err, services.ErrMemberExists):
		apierrors.Conflict(c, apierrors.ErrCodeAlreadyExists, err.Error())
	case errors.Is(err, services.ErrInvalidRole):
		apierrors.UnprocessableEntity(c, apierrors.ErrCodeInvalidRole, err.Error())
	case errors.Is(err, services.ErrInvalidStatus):
		apierrors.UnprocessableEntity(c, apierrors.ErrCodeInvalidStatus, err.Error())
	case errors.Is(err, services.ErrDependencyIncomplete):
		apierrors.UnprocessableEntity(c, apierrors.ErrCodeDependencyIncomplete, err.Error())
	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrNameTooLong),
		errors.Is(err, services.ErrDescriptionTooLong),
		errors.Is(err, services.ErrTooManyDependencies),
		errors.Is(err, services.ErrMessageRequired),
		errors.Is(err, services.ErrMessageTooLong),
		errors.Is(err, services.ErrInvalidContext):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

// pathID parses an unsigned integer path parameter.
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
