package utils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/urbexlog/places-service/internal/pkg/errors"
)

// ErrorResponse is the only error shape the API puts on the wire. Internal
// detail (codes, stack traces) stays out of it.
type ErrorResponse struct {
	Error string `json:"error"`
}

func SendError(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*errors.AppError); ok {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error: appErr.Message,
		})
	}

	// Unknown error - return 500
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: errors.ErrInternalServer.Message,
	})
}
