// Package apperr defines the error taxonomy shared by state services and
// HTTP handlers, and the mapping from it to responses.
package apperr

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("not allowed")
	ErrValidation         = errors.New("invalid input")
	ErrUnsupportedMedia   = errors.New("unsupported media type")
	ErrQuotaExceeded      = errors.New("daily limit reached")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrRemote             = errors.New("remote service unavailable")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrNotImplemented     = errors.New("not implemented")
)

// LoginPath is where unauthenticated clients are sent.
const LoginPath = "/login"

// Respond writes err as a JSON error reply. Errors outside the taxonomy are
// logged and reported as 500 without detail.
func Respond(c *fiber.Ctx, err error) error {
	status, body := classify(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
	}
	return c.Status(status).JSON(body)
}

func classify(err error) (int, dto.ErrorResponse) {
	msg := err.Error()

	switch {
	case errors.Is(err, ErrUnauthenticated):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Error: true, Message: msg, Redirect: LoginPath}
	case errors.Is(err, ErrQuotaExceeded):
		return fiber.StatusTooManyRequests, dto.ErrorResponse{
			Error:   true,
			Message: msg + ". Upgrade to Premium for unlimited access.",
			Code:    "quota_exceeded",
		}
	case errors.Is(err, ErrUnsupportedMedia):
		return fiber.StatusUnsupportedMediaType, dto.ErrorResponse{Error: true, Message: msg}
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest, dto.ErrorResponse{Error: true, Message: msg}
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Error: true, Message: msg}
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Error: true, Message: msg}
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Error: true, Message: msg}
	case errors.Is(err, ErrPreconditionFailed):
		return fiber.StatusPreconditionRequired, dto.ErrorResponse{Error: true, Message: msg}
	case errors.Is(err, ErrNotImplemented):
		return fiber.StatusNotImplemented, dto.ErrorResponse{Error: true, Message: msg}
	case errors.Is(err, ErrRemote):
		return fiber.StatusBadGateway, dto.ErrorResponse{Error: true, Message: "Upstream service failed, please try again"}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Error: true, Message: "Internal server error"}
}
