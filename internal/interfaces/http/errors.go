package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vitrina-api/internal/application/dto"
	"github.com/jhoicas/vitrina-api/internal/domain"
)

// statusFor traduce la categoría del error al código HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingField), errors.Is(err, domain.ErrInvalidType):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError responde {error: mensaje} con el status correspondiente.
func writeError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(dto.ErrorResult(domain.Message(err)))
}
