package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"hellosrv/internal/http/middleware"
	"hellosrv/internal/service"
)

// Hello answers with the greeting once the configured delay has elapsed.
// The wait ends early when the request's user context is cancelled.
//
// @Summary Deferred greeting
// @Produce plain
// @Success 200 {string} string "Hello World"
// @Failure 503 {object} errorPayload
// @Router / [get]
// @Router / [post]
// @Router / [put]
// @Router / [patch]
// @Router / [delete]
// @Router / [head]
// @Router / [options]
func Hello(svc service.GreetingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reply, err := svc.Respond(c.UserContext(), service.RequestMeta{
			RequestID: middleware.RequestIDFrom(c),
			Method:    c.Method(),
			Path:      utils.CopyString(c.Path()),
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrBusy):
				return writeError(c, fiber.StatusServiceUnavailable, "BUSY", "too many pending responses")
			case errors.Is(err, service.ErrCancelled):
				return writeError(c, fiber.StatusServiceUnavailable, "CANCELLED", "response cancelled")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		c.Set(fiber.HeaderContentType, reply.ContentType)
		return c.Status(reply.Status).SendString(reply.Body)
	}
}

// GetGreeting returns the current greeting without any delay.
//
// @Summary Current greeting
// @Produce json
// @Success 200 {object} service.Greeting
// @Router /greeting [get]
func GetGreeting(svc service.GreetingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Current())
	}
}

// PutGreeting replaces the greeting body with the raw request body.
//
// @Summary Replace greeting body
// @Accept plain
// @Produce json
// @Success 200 {object} service.Greeting
// @Failure 400 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Router /greeting [put]
func PutGreeting(svc service.GreetingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := string(c.Body())

		if err := svc.UpdateBody(c.UserContext(), body); err != nil {
			switch {
			case errors.Is(err, service.ErrBodyRequired):
				return writeError(c, fiber.StatusBadRequest, "BODY_REQUIRED", "greeting body is required")
			case errors.Is(err, service.ErrBodyTooLarge):
				return writeError(c, fiber.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "greeting body too large")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(svc.Current())
	}
}
