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
	"tutorium_backend/internals/features/store/dto"
	storeModel "tutorium_backend/internals/features/store/model"
	userModel "tutorium_backend/internals/features/users/user/model"
	helper "tutorium_backend/internals/helpers"
	"tutorium_backend/internals/helpers/authz"
	authMW "tutorium_backend/internals/middlewares/auth"
)

type StoreController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewStoreController(db *gorm.DB) *StoreController {
	return &StoreController{DB: db, Validate: validator.New()}
}

/* =========================================================
   GET /api/store  (all roles, scoped)
   ========================================================= */

// GetItems lists store items for the caller: a student sees their tutor's
// store, a tutor sees their own, an admin sees everything.
func (ctrl *StoreController) GetItems(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	q := ctrl.DB.Model(&storeModel.StoreItemModel{})
	switch actor.Role {
	case constants.RoleAdmin:
		if tutorID := c.Query("tutor_id"); tutorID != "" {
			q = q.Where("tutor_id = ?", tutorID)
		}
	case constants.RoleTutor:
		q = q.Where("tutor_id = ?", actor.ID)
	default:
		if actor.TutorID == nil {
			return c.JSON(fiber.Map{"items": []dto.ItemResponse{}})
		}
		q = q.Where("tutor_id = ?", *actor.TutorID)
	}

	var items []storeModel.StoreItemModel
	if err := q.Order("name ASC").Find(&items).Error; err != nil {
		log.Printf("[ERROR] list store items: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load store items")
	}

	out := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.ToItemResponse(&items[i], nil))
	}
	return c.JSON(fiber.Map{"items": out})
}

/* =========================================================
   POST /api/store  (admin, tutor)
   ========================================================= */

func (ctrl *StoreController) CreateItem(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	ownerID := actor.ID
	if actor.IsAdmin() {
		if req.TutorID == "" {
			return helper.JsonError(c, fiber.StatusBadRequest, "tutor_id is required when admin creates an item")
		}
		parsed, err := uuid.Parse(req.TutorID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid tutor_id")
		}
		var owner userModel.UserModel
		if err := ctrl.DB.First(&owner, "id = ? AND role = ?", parsed, constants.RoleTutor).Error; err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Tutor not found")
		}
		ownerID = parsed
	}

	item := storeModel.StoreItemModel{
		TutorID:           ownerID,
		Name:              strings.TrimSpace(req.Name),
		Description:       req.Description,
		PointsRequired:    req.PointsRequired,
		AvailableQuantity: req.AvailableQuantity,
		ImageURL:          req.ImageURL,
	}
	if err := ctrl.DB.Create(&item).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "An item with this name already exists")
		}
		log.Printf("[ERROR] create store item: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create item")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Item created",
		"item":    dto.ToItemResponse(&item, nil),
	})
}

/* =========================================================
   PUT /api/store/:id  (admin, owning tutor)
   ========================================================= */

func (ctrl *StoreController) UpdateItem(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid item id")
	}

	var req dto.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var item storeModel.StoreItemModel
	if err := ctrl.DB.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Item not found")
		}
		log.Printf("[ERROR] load store item %s: %v", itemID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load item")
	}

	if d := authz.CanManageItem(actor, item.TutorID); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.PointsRequired != nil {
		updates["points_required"] = *req.PointsRequired
	}
	if req.AvailableQuantity != nil {
		updates["available_quantity"] = *req.AvailableQuantity
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if len(updates) == 0 {
		return c.JSON(fiber.Map{"message": "Nothing to update", "item": dto.ToItemResponse(&item, nil)})
	}

	if err := ctrl.DB.Model(&item).Updates(updates).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "An item with this name already exists")
		}
		log.Printf("[ERROR] update store item %s: %v", itemID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update item")
	}

	return c.JSON(fiber.Map{
		"message": "Item updated",
		"item":    dto.ToItemResponse(&item, nil),
	})
}

/* =========================================================
   DELETE /api/store/:id  (admin, owning tutor)
   ========================================================= */

func (ctrl *StoreController) DeleteItem(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid item id")
	}

	var item storeModel.StoreItemModel
	if err := ctrl.DB.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Item not found")
		}
		log.Printf("[ERROR] load store item %s: %v", itemID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load item")
	}

	if d := authz.CanManageItem(actor, item.TutorID); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}

	if err := ctrl.DB.Delete(&item).Error; err != nil {
		log.Printf("[ERROR] delete store item %s: %v", itemID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete item")
	}

	return c.JSON(fiber.Map{"message": "Item deleted"})
}

