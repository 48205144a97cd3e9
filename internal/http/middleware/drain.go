package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// Drain cancels every in-flight request's user context once ctx is done.
func Drain(ctx context.Context) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqCtx, cancel := context.WithCancel(c.UserContext())
		defer cancel()
		stop := context.AfterFunc(ctx, cancel)
		defer stop()

		c.SetUserContext(reqCtx)
		return c.Next()
	}
}
