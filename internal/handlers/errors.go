package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/civic/internal/store"
	"go.uber.org/zap"
)

// errorResponse is the body of every failed request
type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP statuses. Anything unrecognised is
// handed back to fiber so the server's ErrorHandler logs it and answers 500.
func writeError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(errorResponse{Error: fe.Message})
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrDuplicateVote),
		errors.Is(err, store.ErrDuplicateRSVP),
		errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrPollClosed):
		return c.Status(fiber.StatusConflict).JSON(errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrInvalidVote), errors.Is(err, store.ErrInvalidPatch):
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
	}
	return err
}

func notFound(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: what + " not found"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: msg})
}

// ErrorHandler renders errors that escaped the handlers as JSON
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code, msg = fe.Code, fe.Message
		} else {
			logger.Error("unhandled error",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return c.Status(code).JSON(errorResponse{Error: msg})
	}
}
