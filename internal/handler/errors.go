package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleettrack/internal/service"
	"fleettrack/pkg/response"
)

// respondError translates service sentinels into HTTP status codes. Anything
// unrecognized becomes a generic 500 so internals never leak.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrTripNotFound),
		errors.Is(err, service.ErrRoleNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, service.ErrActiveTripExists),
		errors.Is(err, service.ErrTripNotActive),
		errors.Is(err, service.ErrQRCodeRequired),
		errors.Is(err, service.ErrReasonRequired),
		errors.Is(err, service.ErrInvalidReference),
		errors.Is(err, service.ErrInvalidSelection),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrRoleNameTaken),
		errors.Is(err, service.ErrRoleInUse),
		errors.Is(err, service.ErrRoleImmutable),
		errors.Is(err, service.ErrInvalidPermission),
		errors.Is(err, service.ErrBatchTooLarge),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrFileTooLarge),
		errors.Is(err, service.ErrUnsupportedImage):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, service.ErrAccountDisabled):
		status = http.StatusForbidden
		message = err.Error()
	default:
		_ = c.Error(err)
	}

	c.JSON(status, response.Error(message))
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
}
