package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Recover turns a panic in a downstream handler into a 500 handled by the
// app's ErrorHandler.
func Recover(log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(logrus.Fields{
					"request_id": RequestIDFrom(c),
					"path":       c.Path(),
					"panic":      fmt.Sprint(r),
				}).Error("HTTP handler panic recovered")
				err = fiber.ErrInternalServerError
			}
		}()

		return c.Next()
	}
}
