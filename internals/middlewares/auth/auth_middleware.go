package auth

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"tutorium_backend/internals/configs"
	authModel "tutorium_backend/internals/features/users/auth/model"
)

// AuthMiddleware verifies the access token (cookie or bearer), rejects
// blacklisted tokens, and stores the claims in c.Locals for the handlers.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := ExtractToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}

		// Blacklist check (once per request)
		if c.Locals("token_checked") == nil {
			var existing authModel.TokenBlacklistModel
			err := db.Where("token = ? AND expires_at > ?", tokenString, time.Now()).
				First(&existing).Error
			if err == nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token has been revoked"})
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Println("[ERROR] blacklist lookup failed:", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
			}
			c.Locals("token_checked", true)
		}

		secret := configs.JWTSecret
		if secret == "" {
			log.Println("[ERROR] JWT_SECRET is empty")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Missing JWT secret"})
		}

		claims := jwt.MapClaims{}
		if _, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		}); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		if err := storeClaimsToLocals(c, claims); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		c.Locals("access_token", tokenString)

		return c.Next()
	}
}

// ExtractToken reads the access token from the Authorization header,
// falling back to the HTTP-only cookie set at login.
func ExtractToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")); token != "" {
			return token, nil
		}
	}
	if token := c.Cookies("access_token"); token != "" {
		return token, nil
	}
	return "", errors.New("Unauthorized: missing access token")
}
