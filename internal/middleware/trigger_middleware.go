package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/hiredeck/hiredeck/internal/util"
)

// TriggerAuth guards the scheduler-facing endpoints with a shared secret
// passed as a bearer token. An unset secret disables the endpoints entirely.
func TriggerAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code: fiber.StatusServiceUnavailable, Message: "Trigger endpoint is not configured",
			})
		}
		token := bearerToken(c)
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code: fiber.StatusUnauthorized, Message: "Invalid trigger token",
			})
		}
		return c.Next()
	}
}
