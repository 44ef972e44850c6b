package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorium_backend/internals/constants"
	"tutorium_backend/internals/features/points/dto"
	pointsModel "tutorium_backend/internals/features/points/model"
	"tutorium_backend/internals/features/points/service"
	userDTO "tutorium_backend/internals/features/users/user/dto"
	userModel "tutorium_backend/internals/features/users/user/model"
	helper "tutorium_backend/internals/helpers"
	"tutorium_backend/internals/helpers/authz"
	authMW "tutorium_backend/internals/middlewares/auth"
)

type PointsController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewPointsController(db *gorm.DB) *PointsController {
	return &PointsController{DB: db, Validate: validator.New()}
}

/* =========================================================
   POST /api/users/:id/points  (admin, tutor)
   ========================================================= */

func (ctrl *PointsController) AdjustPoints(c *fiber.Ctx) error {
	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var req dto.AdjustPointsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var target userModel.UserModel
	if err := ctrl.DB.First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		log.Printf("[ERROR] load user %s: %v", targetID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if d := authz.CanAdjustPoints(actor, target.Role, target.TutorID); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}

	updated, err := service.AdjustPoints(ctrl.DB, actor.ID, targetID, req.Points, req.Action, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		case errors.Is(err, service.ErrInvalidAction):
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid action")
		case errors.Is(err, service.ErrNegativePoints):
			return helper.JsonError(c, fiber.StatusBadRequest, "Points must not be negative")
		case errors.Is(err, service.ErrInsufficientBalance):
			return helper.JsonError(c, fiber.StatusConflict, "Insufficient points balance")
		default:
			log.Printf("[ERROR] adjust points for %s: %v", targetID, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to adjust points")
		}
	}

	return c.JSON(fiber.Map{
		"message": "Points updated",
		"user":    userDTO.ToUserResponse(updated),
	})
}

/* =========================================================
   GET /api/points/transactions  (all roles, scoped)
   ========================================================= */

func (ctrl *PointsController) ListTransactions(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&pointsModel.PointsTransactionModel{})
	switch actor.Role {
	case constants.RoleAdmin:
		// unrestricted
	case constants.RoleTutor:
		q = q.Where("student_id IN (?)",
			ctrl.DB.Model(&userModel.UserModel{}).Select("id").Where("tutor_id = ?", actor.ID))
	default:
		q = q.Where("student_id = ?", actor.ID)
	}

	if studentID := c.Query("student_id"); studentID != "" {
		q = q.Where("student_id = ?", studentID)
	}
	if txType := c.Query("type"); txType != "" {
		q = q.Where("type = ?", txType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] count transactions: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load transactions")
	}

	var txs []pointsModel.PointsTransactionModel
	if err := q.Order("created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&txs).Error; err != nil {
		log.Printf("[ERROR] list transactions: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load transactions")
	}

	out := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, dto.ToTransactionResponse(&txs[i]))
	}

	return c.JSON(fiber.Map{
		"transactions": out,
		"pagination":   helper.BuildPagination(total, paging),
	})
}
