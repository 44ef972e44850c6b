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
	authService "tutorium_backend/internals/features/users/auth/service"
	"tutorium_backend/internals/features/users/registration/dto"
	registrationModel "tutorium_backend/internals/features/users/registration/model"
	userModel "tutorium_backend/internals/features/users/user/model"
	helper "tutorium_backend/internals/helpers"
	authMW "tutorium_backend/internals/middlewares/auth"
)

var errAlreadyProcessed = errors.New("registration already processed")

type RegistrationController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewRegistrationController(db *gorm.DB) *RegistrationController {
	return &RegistrationController{DB: db, Validate: validator.New()}
}

/* =========================================================
   POST /api/register  (public)
   ========================================================= */

func (ctrl *RegistrationController) SubmitRegistration(c *fiber.Ctx) error {
	var req dto.SubmitRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Reject duplicates against both live accounts and requests still in
	// the queue.
	var count int64
	if err := ctrl.DB.Model(&userModel.UserModel{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		log.Printf("[ERROR] check existing users: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to submit registration")
	}
	if count > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Username or email already in use")
	}
	if err := ctrl.DB.Model(&registrationModel.RegistrationRequestModel{}).
		Where("(username = ? OR email = ?) AND status = ?", username, email, registrationModel.RegistrationPending).
		Count(&count).Error; err != nil {
		log.Printf("[ERROR] check pending registrations: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to submit registration")
	}
	if count > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "A registration for this username or email is already pending")
	}

	hash, err := authService.HashPassword(req.Password)
	if err != nil {
		log.Printf("[ERROR] hash password: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to submit registration")
	}

	requestedRole := req.RequestedRole
	if requestedRole == "" {
		requestedRole = constants.RoleStudent
	}

	request := registrationModel.RegistrationRequestModel{
		Username:      username,
		Email:         email,
		PasswordHash:  hash,
		RequestedRole: requestedRole,
		Status:        registrationModel.RegistrationPending,
	}
	if req.FirstName != "" {
		request.FirstName = &req.FirstName
	}
	if req.LastName != "" {
		request.LastName = &req.LastName
	}

	if err := ctrl.DB.Create(&request).Error; err != nil {
		log.Printf("[ERROR] create registration request: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to submit registration")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Registration submitted and awaiting approval",
		"registration": dto.ToRegistrationResponse(&request),
	})
}

/* =========================================================
   GET /api/admin/registration-requests  (admin)
   ========================================================= */

func (ctrl *RegistrationController) GetRegistrations(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&registrationModel.RegistrationRequestModel{})
	if status := strings.ToUpper(c.Query("status")); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] count registrations: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load registrations")
	}

	var requests []registrationModel.RegistrationRequestModel
	if err := q.Order("created_at ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&requests).Error; err != nil {
		log.Printf("[ERROR] list registrations: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load registrations")
	}

	out := make([]dto.RegistrationResponse, 0, len(requests))
	for i := range requests {
		out = append(out, dto.ToRegistrationResponse(&requests[i]))
	}

	return c.JSON(fiber.Map{
		"registrations": out,
		"pagination":    helper.BuildPagination(total, paging),
	})
}

/* =========================================================
   PUT /api/admin/registration-requests/:id  (admin)
   ========================================================= */

// ProcessRegistration resolves a pending signup. Approval creates the account
// inside the same transaction that flips the request status, so a crash never
// leaves an approved request without a user.
func (ctrl *RegistrationController) ProcessRegistration(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid registration id")
	}

	var req dto.ProcessRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if req.Status == registrationModel.RegistrationRejected && strings.TrimSpace(req.Reason) == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "A reason is required when rejecting")
	}

	var registration registrationModel.RegistrationRequestModel
	if err := ctrl.DB.First(&registration, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Registration request not found")
		}
		log.Printf("[ERROR] load registration %s: %v", requestID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load registration")
	}

	var tutorID *uuid.UUID
	if req.Status == registrationModel.RegistrationApproved &&
		registration.RequestedRole == constants.RoleStudent {
		if req.TutorID == "" {
			return helper.JsonError(c, fiber.StatusBadRequest, "tutor_id is required when approving a student")
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

	var createdUser *userModel.UserModel
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":          req.Status,
			"processed_by_id": actor.ID,
		}
		if req.Status == registrationModel.RegistrationRejected {
			updates["rejection_reason"] = strings.TrimSpace(req.Reason)
		}

		res := tx.Model(&registrationModel.RegistrationRequestModel{}).
			Where("id = ? AND status = ?", requestID, registrationModel.RegistrationPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadyProcessed
		}

		if req.Status != registrationModel.RegistrationApproved {
			return nil
		}

		user := userModel.UserModel{
			Username:  registration.Username,
			Email:     registration.Email,
			Password:  registration.PasswordHash,
			FirstName: registration.FirstName,
			LastName:  registration.LastName,
			Role:      registration.RequestedRole,
			TutorID:   tutorID,
			IsActive:  true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if user.Role == constants.RoleTutor {
			if err := classroomService.EnsureClassroomForTutor(tx, &user); err != nil {
				return err
			}
		}
		createdUser = &user
		return nil
	})
	if err != nil {
		if errors.Is(err, errAlreadyProcessed) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Registration request has already been processed")
		}
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Username or email already in use")
		}
		log.Printf("[ERROR] process registration %s: %v", requestID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to process registration")
	}

	if err := ctrl.DB.First(&registration, "id = ?", requestID).Error; err != nil {
		log.Printf("[ERROR] reload registration %s: %v", requestID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load registration")
	}

	resp := fiber.Map{
		"message":      "Registration " + registration.Status,
		"registration": dto.ToRegistrationResponse(&registration),
	}
	if createdUser != nil {
		resp["user"] = fiber.Map{"id": createdUser.ID, "username": createdUser.Username}
	}
	return c.JSON(resp)
}
