package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorium_backend/internals/constants"
	classroomService "tutorium_backend/internals/features/classroom/service"
	pointsService "tutorium_backend/internals/features/points/service"
	authService "tutorium_backend/internals/features/users/auth/service"
	"tutorium_backend/internals/features/users/user/dto"
	userModel "tutorium_backend/internals/features/users/user/model"
	helper "tutorium_backend/internals/helpers"
	"tutorium_backend/internals/helpers/authz"
	authMW "tutorium_backend/internals/middlewares/auth"
)

type UserController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db, Validate: validator.New()}
}

/* =========================================================
   GET /api/users  (admin)
   ========================================================= */

func (ctrl *UserController) GetUsers(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&userModel.UserModel{})
	if role := strings.ToUpper(c.Query("role")); role != "" {
		if !constants.IsValidRole(role) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid role filter")
		}
		q = q.Where("role = ?", role)
	}
	if tutorID := c.Query("tutor_id"); tutorID != "" {
		q = q.Where("tutor_id = ?", tutorID)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(COALESCE(first_name, '')) LIKE ? OR LOWER(COALESCE(last_name, '')) LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] count users: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load users")
	}

	var users []userModel.UserModel
	if err := q.Order("created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&users).Error; err != nil {
		log.Printf("[ERROR] list users: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load users")
	}

	out := make([]*dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.ToUserResponse(&users[i]))
	}

	return c.JSON(fiber.Map{
		"users":      out,
		"pagination": helper.BuildPagination(total, paging),
	})
}

/* =========================================================
   GET /api/users/:id  (self, admin, assigned tutor)
   ========================================================= */

func (ctrl *UserController) GetUser(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var user userModel.UserModel
	if err := ctrl.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		log.Printf("[ERROR] load user %s: %v", userID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	if d := authz.CanViewUser(actor, user.ID, user.Role, user.TutorID); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}

	resp := dto.ToUserResponse(&user)
	if user.TutorID != nil {
		var tutor userModel.UserModel
		if err := ctrl.DB.First(&tutor, "id = ?", *user.TutorID).Error; err == nil {
			resp.Tutor = dto.ToUserLite(&tutor)
		}
	}
	return c.JSON(fiber.Map{"user": resp})
}

/* =========================================================
   PUT /api/users/:id  (admin)
   ========================================================= */

func (ctrl *UserController) UpdateUser(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var user userModel.UserModel
	if err := ctrl.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		log.Printf("[ERROR] load user %s: %v", userID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	updates := map[string]interface{}{}
	if req.Username != nil {
		updates["username"] = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.TutorID != nil {
		if *req.TutorID == "" {
			updates["tutor_id"] = nil
		} else {
			tutorID, err := uuid.Parse(*req.TutorID)
			if err != nil {
				return helper.JsonError(c, fiber.StatusBadRequest, "Invalid tutor_id")
			}
			var tutor userModel.UserModel
			if err := ctrl.DB.First(&tutor, "id = ? AND role = ?", tutorID, constants.RoleTutor).Error; err != nil {
				return helper.JsonError(c, fiber.StatusBadRequest, "Assigned tutor not found")
			}
			updates["tutor_id"] = tutorID
		}
	}

	if len(updates) > 0 {
		if err := ctrl.DB.Model(&user).Updates(updates).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.JsonError(c, fiber.StatusConflict, "Username or email already in use")
			}
			log.Printf("[ERROR] update user %s: %v", userID, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update user")
		}
	}

	// Promotion to tutor gets a classroom right away.
	if req.Role != nil && *req.Role == constants.RoleTutor {
		if err := classroomService.EnsureClassroomForTutor(ctrl.DB, &user); err != nil {
			log.Printf("[ERROR] ensure classroom for %s: %v", user.ID, err)
		}
	}

	// Point edits go through the ledger so the balance stays derivable.
	if req.Points != nil {
		if _, err := pointsService.AdjustPoints(ctrl.DB, actor.ID, user.ID, *req.Points,
			pointsService.ActionSet, "Admin balance correction"); err != nil {
			log.Printf("[ERROR] set points for %s: %v", user.ID, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update points")
		}
	}

	var updated userModel.UserModel
	if err := ctrl.DB.First(&updated, "id = ?", userID).Error; err != nil {
		log.Printf("[ERROR] reload user %s: %v", userID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	return c.JSON(fiber.Map{
		"message": "User updated",
		"user":    dto.ToUserResponse(&updated),
	})
}

/* =========================================================
   DELETE /api/users/:id  (admin)
   ========================================================= */

func (ctrl *UserController) DeleteUser(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}
	if actor.ID == userID {
		return helper.JsonError(c, fiber.StatusBadRequest, "You cannot delete your own account")
	}

	res := ctrl.DB.Delete(&userModel.UserModel{}, "id = ?", userID)
	if res.Error != nil {
		log.Printf("[ERROR] delete user %s: %v", userID, res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete user")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}

	return c.JSON(fiber.Map{"message": "User deleted"})
}

/* =========================================================
   PUT /api/users/:id/password  (admin)
   ========================================================= */

func (ctrl *UserController) ResetPassword(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	hash, err := authService.HashPassword(req.Password)
	if err != nil {
		log.Printf("[ERROR] hash password: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reset password")
	}

	res := ctrl.DB.Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Update("password", hash)
	if res.Error != nil {
		log.Printf("[ERROR] reset password for %s: %v", userID, res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reset password")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}

	return c.JSON(fiber.Map{"message": "Password reset"})
}

/* =========================================================
   PUT /api/users/role  (admin)
   ========================================================= */

func (ctrl *UserController) UpdateRole(c *fiber.Ctx) error {
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user_id")
	}

	var user userModel.UserModel
	if err := ctrl.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		log.Printf("[ERROR] load user %s: %v", userID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	updates := map[string]interface{}{"role": req.Role}
	if req.Role != constants.RoleStudent {
		updates["tutor_id"] = nil
	}
	if err := ctrl.DB.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("[ERROR] update role for %s: %v", userID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update role")
	}

	if req.Role == constants.RoleTutor {
		if err := classroomService.EnsureClassroomForTutor(ctrl.DB, &user); err != nil {
			log.Printf("[ERROR] ensure classroom for %s: %v", user.ID, err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Role updated",
		"user":    dto.ToUserResponse(&user),
	})
}

/* =========================================================
   POST /api/auth/register  (admin creates a user directly)
   ========================================================= */

func (ctrl *UserController) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var tutorID *uuid.UUID
	if req.Role == constants.RoleStudent {
		if req.TutorID == "" {
			return helper.JsonError(c, fiber.StatusBadRequest, "tutor_id is required for students")
		}
		parsed, err := uuid.Parse(req.TutorID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid tutor_id")
		}
		var tutor userModel.UserModel
		if err := ctrl.DB.First(&tutor, "id = ? AND role = ?", parsed, constants.RoleTutor).Error; err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Assigned tutor not found")
		}
		tutorID = &parsed
	}

	hash, err := authService.HashPassword(req.Password)
	if err != nil {
		log.Printf("[ERROR] hash password: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	user := userModel.UserModel{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hash,
		Role:     req.Role,
		TutorID:  tutorID,
		IsActive: true,
	}
	if req.FirstName != "" {
		user.FirstName = &req.FirstName
	}
	if req.LastName != "" {
		user.LastName = &req.LastName
	}

	if err := ctrl.DB.Create(&user).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Username or email already in use")
		}
		log.Printf("[ERROR] create user: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	if user.Role == constants.RoleTutor {
		if err := classroomService.EnsureClassroomForTutor(ctrl.DB, &user); err != nil {
			log.Printf("[ERROR] ensure classroom for %s: %v", user.ID, err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created",
		"user":    dto.ToUserResponse(&user),
	})
}

/* =========================================================
   Tutor: own students
   ========================================================= */

// GET /api/tutor/students
func (ctrl *UserController) GetTutorStudents(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var students []userModel.UserModel
	if err := ctrl.DB.
		Where("tutor_id = ? AND role = ?", actor.ID, constants.RoleStudent).
		Order("points DESC, username ASC").
		Find(&students).Error; err != nil {
		log.Printf("[ERROR] list students for %s: %v", actor.ID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load students")
	}

	out := make([]*dto.UserResponse, 0, len(students))
	for i := range students {
		out = append(out, dto.ToUserResponse(&students[i]))
	}
	return c.JSON(fiber.Map{"students": out})
}

// POST /api/tutor/students — the tutor creates a student under themselves.
func (ctrl *UserController) CreateTutorStudent(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	hash, err := authService.HashPassword(req.Password)
	if err != nil {
		log.Printf("[ERROR] hash password: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create student")
	}

	tutorID := actor.ID
	student := userModel.UserModel{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hash,
		Role:     constants.RoleStudent,
		TutorID:  &tutorID,
		IsActive: true,
	}
	if req.FirstName != "" {
		student.FirstName = &req.FirstName
	}
	if req.LastName != "" {
		student.LastName = &req.LastName
	}

	if err := ctrl.DB.Create(&student).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Username or email already in use")
		}
		log.Printf("[ERROR] create student: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create student")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Student created",
		"student": dto.ToUserResponse(&student),
	})
}
