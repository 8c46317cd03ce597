package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Spok95/pool-tracker/internal/models"
)

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(envelope{Status: "success", Data: data})
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(envelope{Status: "success", Data: data})
}

func message(c *fiber.Ctx, msg string) error {
	return c.JSON(envelope{Status: "success", Message: msg})
}

// classify — HTTP-статус и текст для клиента. Для 5xx текст наружу не отдаём.
func classify(err error) (int, string) {
	var fe *fiber.Error
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, ve.Error()
	case errors.Is(err, models.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, models.ErrForbidden):
		return fiber.StatusForbidden, err.Error()
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, models.ErrConflict):
		return fiber.StatusConflict, err.Error()
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	}
	return fiber.StatusInternalServerError, "internal server error"
}
