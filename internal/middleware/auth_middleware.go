package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hiredeck/hiredeck/internal/util"
)

// Locals keys populated by Protected for downstream handlers.
const (
	LocalUserID   = "user_id"
	LocalTenantID = "tenant_id"
	LocalRole     = "role"
)

// Protected verifies the bearer token and stores the caller's identity in the
// request locals. Tokens are HS256 with sub, tenant_id and role claims.
func Protected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code: fiber.StatusUnauthorized, Message: "Missing authorization token",
			})
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code: fiber.StatusUnauthorized, Message: "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code: fiber.StatusUnauthorized, Message: "Invalid token claims",
			})
		}

		userID, err1 := uuid.Parse(stringClaim(claims, "sub"))
		tenantID, err2 := uuid.Parse(stringClaim(claims, "tenant_id"))
		if err1 != nil || err2 != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code: fiber.StatusUnauthorized, Message: "Invalid token claims",
			})
		}

		c.Locals(LocalUserID, userID)
		c.Locals(LocalTenantID, tenantID)
		c.Locals(LocalRole, stringClaim(claims, "role"))
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
