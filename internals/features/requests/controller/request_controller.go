package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorium_backend/internals/constants"
	"tutorium_backend/internals/features/requests/dto"
	requestModel "tutorium_backend/internals/features/requests/model"
	"tutorium_backend/internals/features/requests/service"
	helper "tutorium_backend/internals/helpers"
	"tutorium_backend/internals/helpers/authz"
	authMW "tutorium_backend/internals/middlewares/auth"
)

type RequestController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewRequestController(db *gorm.DB) *RequestController {
	return &RequestController{DB: db, Validate: validator.New()}
}

/* =========================================================
   POST /api/requests  (student)
   ========================================================= */

func (ctrl *RequestController) SubmitRequest(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid item_id")
	}

	request, err := service.Submit(ctrl.DB, actor.ID, itemID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Item not found")
		case errors.Is(err, service.ErrNoTutor):
			return helper.JsonError(c, fiber.StatusBadRequest, "You have not been assigned to a tutor yet")
		case errors.Is(err, service.ErrOutOfStock):
			return helper.JsonError(c, fiber.StatusBadRequest, "Item is out of stock")
		case errors.Is(err, service.ErrInsufficientBalance):
			return helper.JsonError(c, fiber.StatusBadRequest, "You do not have enough points for this item")
		default:
			log.Printf("[ERROR] submit request: %v", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to submit request")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Request submitted",
		"request": dto.ToRequestResponse(request),
	})
}

/* =========================================================
   GET /api/requests  (all roles, scoped)
   ========================================================= */

func (ctrl *RequestController) GetRequests(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&requestModel.ItemRequestModel{}).
		Preload("Student").Preload("Item")
	switch actor.Role {
	case constants.RoleAdmin:
		// unrestricted
	case constants.RoleTutor:
		q = q.Where("tutor_id = ?", actor.ID)
	default:
		q = q.Where("student_id = ?", actor.ID)
	}

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] count requests: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load requests")
	}

	var requests []requestModel.ItemRequestModel
	if err := q.Order("created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&requests).Error; err != nil {
		log.Printf("[ERROR] list requests: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load requests")
	}

	out := make([]dto.RequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, dto.ToRequestResponse(&requests[i]))
	}

	return c.JSON(fiber.Map{
		"requests":   out,
		"pagination": helper.BuildPagination(total, paging),
	})
}

/* =========================================================
   GET /api/requests/:id  (owner, tutor, admin)
   ========================================================= */

func (ctrl *RequestController) GetRequest(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request id")
	}

	var request requestModel.ItemRequestModel
	if err := ctrl.DB.Preload("Student").Preload("Item").
		First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Request not found")
		}
		log.Printf("[ERROR] load request %s: %v", requestID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load request")
	}

	if d := authz.CanViewRequest(actor, request.StudentID, request.TutorID); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}

	return c.JSON(fiber.Map{"request": dto.ToRequestResponse(&request)})
}

/* =========================================================
   PUT /api/requests/:id  (admin, owning tutor)
   ========================================================= */

func (ctrl *RequestController) ProcessRequest(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request id")
	}

	var req dto.ProcessRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var request requestModel.ItemRequestModel
	if err := ctrl.DB.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Request not found")
		}
		log.Printf("[ERROR] load request %s: %v", requestID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load request")
	}

	if d := authz.CanProcessRequest(actor, request.TutorID); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}
	if !request.IsPending() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request has already been processed")
	}

	processed, err := service.Process(ctrl.DB, requestID, req.Status, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyProcessed):
			return helper.JsonError(c, fiber.StatusBadRequest, "Request has already been processed")
		case errors.Is(err, service.ErrOutOfStock):
			return helper.JsonError(c, fiber.StatusBadRequest, "Item is out of stock")
		case errors.Is(err, service.ErrInsufficientBalance):
			return helper.JsonError(c, fiber.StatusBadRequest, "Student no longer has enough points")
		case errors.Is(err, service.ErrInvalidStatus):
			return helper.JsonError(c, fiber.StatusBadRequest, "Status must be APPROVED or REJECTED")
		default:
			log.Printf("[ERROR] process request %s: %v", requestID, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to process request")
		}
	}

	return c.JSON(fiber.Map{
		"message": "Request " + processed.Status,
		"request": dto.ToRequestResponse(processed),
	})
}
