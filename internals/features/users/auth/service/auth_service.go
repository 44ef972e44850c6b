package service

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	userDTO "tutorium_backend/internals/features/users/user/dto"
	userModel "tutorium_backend/internals/features/users/user/model"
	helper "tutorium_backend/internals/helpers"
)

/* ==========================
   LOGIN
========================== */

func Login(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Password == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Username and password are required")
	}

	var user userModel.UserModel
	if err := db.Where("username = ?", input.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid username or password")
		}
		log.Println("[ERROR] login lookup failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal server error")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Your account has been deactivated")
	}
	if err := CheckPasswordHash(user.Password, input.Password); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid username or password")
	}

	now := nowUTC()
	accessToken, err := SignAccessToken(&user, now)
	if err != nil {
		log.Println("[ERROR] sign access token:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}
	refreshToken, err := SignRefreshToken(&user, now)
	if err != nil {
		log.Println("[ERROR] sign refresh token:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}
	if err := StoreRefreshToken(db, &user, refreshToken, now); err != nil {
		log.Println("[ERROR] store refresh token:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}

	SetAuthCookies(c, accessToken, refreshToken, now)

	resp := userDTO.ToUserResponse(&user)
	if user.TutorID != nil {
		var tutor userModel.UserModel
		if err := db.Select("id", "username", "first_name", "last_name").
			First(&tutor, "id = ?", *user.TutorID).Error; err == nil {
			resp.Tutor = userDTO.ToUserLite(&tutor)
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful",
		"user":    resp,
	})
}

/* ==========================
   LOGOUT
========================== */

func Logout(db *gorm.DB, c *fiber.Ctx) error {
	if token, ok := c.Locals("access_token").(string); ok && token != "" {
		if err := BlacklistToken(db, token); err != nil {
			log.Println("[ERROR] blacklist token:", err)
		}
	}
	if rt := c.Cookies("refresh_token"); rt != "" {
		_ = DeleteRefreshToken(db, rt)
	}
	ClearAuthCookies(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logout successful"})
}

/* ==========================
   REFRESH
========================== */

func RefreshToken(db *gorm.DB, c *fiber.Ctx) error {
	raw := c.Cookies("refresh_token")
	if raw == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Missing refresh token")
	}

	idStr, err := ParseRefreshToken(raw)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid refresh token")
	}
	userID, err := uuid.Parse(idStr)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid refresh token")
	}

	// The token must still be known to us (not rotated away or logged out).
	hash, err := ComputeRefreshHash(raw)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal server error")
	}
	var count int64
	if err := db.Table("refresh_tokens").
		Where("token_hash = ? AND user_id = ? AND expires_at > ?", hash, userID, nowUTC()).
		Count(&count).Error; err != nil || count == 0 {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token is no longer valid")
	}

	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "User not found")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Your account has been deactivated")
	}

	now := nowUTC()
	accessToken, err := SignAccessToken(&user, now)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}
	newRefresh, err := SignRefreshToken(&user, now)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}
	// Rotate: drop the old token, store the new one.
	_ = DeleteRefreshToken(db, raw)
	if err := StoreRefreshToken(db, &user, newRefresh, now); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}

	SetAuthCookies(c, accessToken, newRefresh, now)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Token refreshed"})
}

/* ==========================
   CHANGE PASSWORD (self)
========================== */

func ChangePassword(db *gorm.DB, c *fiber.Ctx) error {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if len(input.NewPassword) < 8 {
		return helper.JsonError(c, fiber.StatusBadRequest, "New password must be at least 8 characters")
	}

	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}
	if err := CheckPasswordHash(user.Password, input.CurrentPassword); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Current password is incorrect")
	}

	hash, err := HashPassword(input.NewPassword)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Password hashing failed")
	}
	if err := db.Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Update("password", hash).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update password")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Password updated successfully"})
}
