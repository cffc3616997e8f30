package middleware

import (
	"log"
	"strings"

	"proveedores/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReviewAccess is a Fiber middleware that gates the review routes behind a
// valid session token. The token is taken from the Authorization header or,
// for file downloads triggered by a plain link, from the token query
// parameter.
func ReviewAccess(accessService *services.AccessService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Query("token")

		if tokenString == "" {
			authHeader := c.Get("Authorization")
			if authHeader == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Review access requires a session token",
				})
			}

			// Expected format: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if !(len(parts) == 2 && parts[0] == "Bearer") {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Authorization header format must be 'Bearer <token>'",
				})
			}
			tokenString = parts[1]
		}

		claims, err := accessService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("Session token validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired session token",
				"error":   err.Error(),
			})
		}

		// Store claims in Fiber context for subsequent handlers
		c.Locals("role", claims["role"])
		c.Locals("session_id", claims["jti"])

		return c.Next()
	}
}
