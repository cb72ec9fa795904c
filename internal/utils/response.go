package utils

import (
	"github.com/gofiber/fiber/v2"
)

// Envelope is the body shape of every JSON response
type Envelope struct {
	Status  bool                `json:"status"`
	Message string              `json:"message,omitempty"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Meta    interface{}         `json:"meta,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// SuccessResponse sends data in a success envelope
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(Envelope{Status: true, Data: data})
}

// MessageResponse sends a success envelope with a message and optional data
func MessageResponse(c *fiber.Ctx, message string, data interface{}, status int) error {
	return c.Status(status).JSON(Envelope{Status: true, Message: message, Data: data})
}

// PagedResponse sends a page of data with its pagination meta
func PagedResponse(c *fiber.Ctx, data interface{}, meta interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Status: true, Data: data, Meta: meta})
}

// ErrorResponse sends a failure envelope. errorType is the machine tag.
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(Envelope{Status: false, Message: message, Error: errorType})
}

// ValidationResponse sends a 422 with per-field messages. errorType
// distinguishes rejections such as a closed form from plain input errors.
func ValidationResponse(c *fiber.Ctx, message string, fields map[string][]string, errorType string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(Envelope{
		Status:  false,
		Message: message,
		Errors:  fields,
		Error:   errorType,
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, "not_found")
}
