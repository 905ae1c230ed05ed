package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Pavithiran2000/Start-Finish-Backend/src/models"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/schemas"
)

// respondError translates coordinator errors into RFC 7807 responses.
// Queue-level conditions never reach this point; they are reported as
// structured results by the individual handlers.
func respondError(ctx *gin.Context, logger *logrus.Logger, err error, instance string) {
	var resp *schemas.ErrorResponse
	switch {
	case errors.Is(err, models.ErrSessionNotFound):
		resp = schemas.NewNotFoundError(err.Error(), instance)
	case errors.Is(err, models.ErrTutorNotFound):
		resp = schemas.NewNotFoundError(err.Error(), instance)
	case errors.Is(err, models.ErrAlreadyActive):
		resp = schemas.NewConflictError(err.Error(), instance)
	case errors.Is(err, models.ErrPersistenceUnavailable):
		resp = schemas.NewServiceUnavailableError(err.Error(), instance)
	default:
		resp = schemas.NewInternalError(err.Error(), instance)
	}
	logger.Error(resp.Title + ": " + resp.Detail)
	ctx.JSON(resp.Status, resp)
}

// parseRole validates the :role path parameter.
func parseRole(ctx *gin.Context) (models.Role, bool) {
	role := models.Role(ctx.Param("role"))
	if !role.Valid() {
		ctx.JSON(http.StatusBadRequest, schemas.NewBadRequestError(
			"role must be one of: student, tutor", ctx.FullPath()))
		return "", false
	}
	return role, true
}
