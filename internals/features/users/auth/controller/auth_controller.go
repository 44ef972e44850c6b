package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorium_backend/internals/features/users/auth/service"
	userDTO "tutorium_backend/internals/features/users/user/dto"
	userModel "tutorium_backend/internals/features/users/user/model"
	helper "tutorium_backend/internals/helpers"
	authMW "tutorium_backend/internals/middlewares/auth"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userIDStr, ok := c.Locals(authMW.LocalUserID).(string)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid user ID in context")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid user ID in context")
	}

	var user userModel.UserModel
	if err := ac.DB.First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}

	resp := userDTO.ToUserResponse(&user)
	if user.TutorID != nil {
		var tutor userModel.UserModel
		if err := ac.DB.Select("id", "username", "first_name", "last_name").
			First(&tutor, "id = ?", *user.TutorID).Error; err == nil {
			resp.Tutor = userDTO.ToUserLite(&tutor)
		}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": resp})
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	return service.Login(ac.DB, c)
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	return service.Logout(ac.DB, c)
}

func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	return service.RefreshToken(ac.DB, c)
}

func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	return service.ChangePassword(ac.DB, c)
}
