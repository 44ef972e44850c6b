package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"tutorium_backend/internals/helpers/authz"
)

// Locals keys written by AuthMiddleware and read by the handlers.
const (
	LocalUserID   = "user_id"
	LocalUserRole = "user_role"
	LocalUsername = "username"
	LocalEmail    = "email"
	LocalTutorID  = "tutor_id"
)

func storeClaimsToLocals(c *fiber.Ctx, claims jwt.MapClaims) error {
	id, ok := claims["id"].(string)
	if !ok || id == "" {
		return errors.New("Invalid token: missing user id")
	}
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("Invalid token: malformed user id")
	}
	role, _ := claims["role"].(string)
	if role == "" {
		return errors.New("Invalid token: missing role")
	}

	c.Locals(LocalUserID, id)
	c.Locals(LocalUserRole, role)
	if v, ok := claims["username"].(string); ok {
		c.Locals(LocalUsername, v)
	}
	if v, ok := claims["email"].(string); ok {
		c.Locals(LocalEmail, v)
	}
	if v, ok := claims["tutor_id"].(string); ok && v != "" {
		c.Locals(LocalTutorID, v)
	}
	return nil
}

// ActorFromCtx rebuilds the typed caller identity from the request locals.
func ActorFromCtx(c *fiber.Ctx) (authz.Actor, error) {
	idStr, ok := c.Locals(LocalUserID).(string)
	if !ok {
		return authz.Actor{}, errors.New("missing user id in context")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return authz.Actor{}, errors.New("invalid user id in context")
	}
	role, ok := c.Locals(LocalUserRole).(string)
	if !ok {
		return authz.Actor{}, errors.New("missing role in context")
	}

	actor := authz.Actor{ID: id, Role: role}
	if tutorStr, ok := c.Locals(LocalTutorID).(string); ok {
		if tutorID, err := uuid.Parse(tutorStr); err == nil {
			actor.TutorID = &tutorID
		}
	}
	return actor, nil
}
