package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/playforge/updatedist/internal/domain/dto"
	"github.com/playforge/updatedist/pkg/apperr"
)

// HandleError maps a core apperr.Kind to its HTTP status (§7), the
// fiber analogue of the teacher's per-handler `c.Status(x).JSON(...)`
// calls, centralized into one mapping table.
func HandleError(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error:   string(apperr.KindInternal),
			Message: err.Error(),
		})
	}

	status := fiber.StatusInternalServerError
	switch appErr.Kind {
	case apperr.KindValidation:
		status = fiber.StatusBadRequest
	case apperr.KindAuth:
		status = fiber.StatusUnauthorized
	case apperr.KindNotFound:
		status = fiber.StatusNotFound
	case apperr.KindConflict:
		status = fiber.StatusConflict
	case apperr.KindUnavailable:
		status = fiber.StatusServiceUnavailable
	case apperr.KindIntegrity:
		status = fiber.StatusUnprocessableEntity
	case apperr.KindInternal:
		status = fiber.StatusInternalServerError
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Error:   string(appErr.Kind),
		Message: appErr.Message,
		Field:   appErr.Field,
	})
}
