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
	"tutorium_backend/internals/features/events/dto"
	eventModel "tutorium_backend/internals/features/events/model"
	"tutorium_backend/internals/features/events/service"
	userModel "tutorium_backend/internals/features/users/user/model"
	helper "tutorium_backend/internals/helpers"
	"tutorium_backend/internals/helpers/authz"
	authMW "tutorium_backend/internals/middlewares/auth"
)

type EventController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewEventController(db *gorm.DB) *EventController {
	return &EventController{DB: db, Validate: validator.New()}
}

func (ctrl *EventController) countEnrolled(eventID uuid.UUID) int64 {
	var n int64
	ctrl.DB.Model(&eventModel.EventParticipantModel{}).
		Where("event_id = ? AND status = ?", eventID, eventModel.ParticipantRegistered).
		Count(&n)
	return n
}

func (ctrl *EventController) loadEvent(c *fiber.Ctx) (*eventModel.EventModel, error) {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, "Invalid event id")
	}
	var event eventModel.EventModel
	if err := ctrl.DB.Preload("CreatedBy").First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		}
		log.Printf("[ERROR] load event %s: %v", eventID, err)
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load event")
	}
	return &event, nil
}

/* =========================================================
   GET /api/events  (all roles, scoped)
   ========================================================= */

// GetEvents lists global events plus the caller's group events: a tutor sees
// their own, a student their tutor's.
func (ctrl *EventController) GetEvents(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	q := ctrl.DB.Model(&eventModel.EventModel{}).Preload("CreatedBy")
	switch actor.Role {
	case constants.RoleAdmin:
		// everything
	case constants.RoleTutor:
		q = q.Where("scope = ? OR created_by_id = ?", eventModel.ScopeGlobal, actor.ID)
	default:
		if actor.TutorID != nil {
			q = q.Where("scope = ? OR created_by_id = ?", eventModel.ScopeGlobal, *actor.TutorID)
		} else {
			q = q.Where("scope = ?", eventModel.ScopeGlobal)
		}
	}

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", strings.ToUpper(status))
	}

	var events []eventModel.EventModel
	if err := q.Order("start_time ASC").Find(&events).Error; err != nil {
		log.Printf("[ERROR] list events: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load events")
	}

	out := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, dto.ToEventResponse(&events[i], ctrl.countEnrolled(events[i].ID)))
	}
	return c.JSON(fiber.Map{"events": out})
}

/* =========================================================
   POST /api/events  (admin → GLOBAL, tutor → GROUP)
   ========================================================= */

func (ctrl *EventController) CreateEvent(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	scope := eventModel.ScopeGroup
	if actor.IsAdmin() {
		scope = eventModel.ScopeGlobal
	}

	event := eventModel.EventModel{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Scope:       scope,
		Status:      eventModel.StatusUpcoming,
		Type:        req.Type,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Capacity:    req.Capacity,
		Points:      req.Points,
		Tags:        req.Tags,
		CreatedByID: actor.ID,
	}
	if err := ctrl.DB.Create(&event).Error; err != nil {
		log.Printf("[ERROR] create event: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create event")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Event created",
		"event":   dto.ToEventResponse(&event, 0),
	})
}

/* =========================================================
   GET /api/events/:id
   ========================================================= */

func (ctrl *EventController) GetEvent(c *fiber.Ctx) error {
	event, err := ctrl.loadEvent(c)
	if event == nil {
		return err
	}
	return c.JSON(fiber.Map{"event": dto.ToEventResponse(event, ctrl.countEnrolled(event.ID))})
}

/* =========================================================
   PUT /api/events/:id  (admin, owning tutor)
   ========================================================= */

func (ctrl *EventController) UpdateEvent(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	event, err := ctrl.loadEvent(c)
	if event == nil {
		return err
	}
	if d := authz.CanManageEvent(actor, event.Scope, event.CreatedByID); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}

	var req dto.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.StartTime != nil {
		updates["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		updates["end_time"] = *req.EndTime
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.Points != nil {
		updates["points"] = *req.Points
	}
	if req.Tags != nil {
		updates["tags"] = *req.Tags
	}
	if len(updates) == 0 {
		return c.JSON(fiber.Map{"message": "Nothing to update", "event": dto.ToEventResponse(event, ctrl.countEnrolled(event.ID))})
	}

	if err := ctrl.DB.Model(event).Updates(updates).Error; err != nil {
		log.Printf("[ERROR] update event %s: %v", event.ID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update event")
	}

	return c.JSON(fiber.Map{
		"message": "Event updated",
		"event":   dto.ToEventResponse(event, ctrl.countEnrolled(event.ID)),
	})
}

/* =========================================================
   DELETE /api/events/:id  (admin, owning tutor)
   ========================================================= */

func (ctrl *EventController) DeleteEvent(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	event, err := ctrl.loadEvent(c)
	if event == nil {
		return err
	}
	if d := authz.CanManageEvent(actor, event.Scope, event.CreatedByID); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).
			Delete(&eventModel.EventParticipantModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(event).Error
	})
	if err != nil {
		log.Printf("[ERROR] delete event %s: %v", event.ID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete event")
	}

	return c.JSON(fiber.Map{"message": "Event deleted"})
}

/* =========================================================
   POST /api/events/:id/join  (student)
   ========================================================= */

func (ctrl *EventController) JoinEvent(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event id")
	}

	participant, enrolled, err := service.Join(ctrl.DB, eventID, actor.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		case errors.Is(err, service.ErrEventNotJoinable):
			return helper.JsonError(c, fiber.StatusBadRequest, "Event is not open for registration")
		case errors.Is(err, service.ErrAlreadyJoined):
			return helper.JsonError(c, fiber.StatusConflict, "You have already joined this event")
		case errors.Is(err, service.ErrEventFull):
			return helper.JsonError(c, fiber.StatusConflict, "Event is at capacity")
		default:
			log.Printf("[ERROR] join event %s: %v", eventID, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to join event")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":           "Joined event",
		"participant":       dto.ToParticipantResponse(participant),
		"enrolled_students": enrolled,
	})
}

/* =========================================================
   Participants  (owner / admin)
   ========================================================= */

// GET /api/events/:id/participants — staff see any roster; a student only
// sees rosters of events they have joined.
func (ctrl *EventController) GetParticipants(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	event, err := ctrl.loadEvent(c)
	if event == nil {
		return err
	}

	if actor.Role == constants.RoleStudent {
		var joined int64
		if err := ctrl.DB.Model(&eventModel.EventParticipantModel{}).
			Where("event_id = ? AND user_id = ?", event.ID, actor.ID).
			Count(&joined).Error; err != nil {
			log.Printf("[ERROR] roster access check for %s: %v", event.ID, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load participants")
		}
		if joined == 0 {
			return helper.JsonError(c, fiber.StatusForbidden, "Only participants can view this roster")
		}
	}

	var participants []eventModel.EventParticipantModel
	if err := ctrl.DB.Preload("User").
		Where("event_id = ?", event.ID).
		Order("created_at ASC").
		Find(&participants).Error; err != nil {
		log.Printf("[ERROR] list participants for %s: %v", event.ID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load participants")
	}

	out := make([]dto.ParticipantResponse, 0, len(participants))
	for i := range participants {
		out = append(out, dto.ToParticipantResponse(&participants[i]))
	}
	return c.JSON(fiber.Map{"participants": out})
}

// POST /api/events/:id/participants — the owner registers a student directly.
func (ctrl *EventController) AddParticipant(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	event, err := ctrl.loadEvent(c)
	if event == nil {
		return err
	}
	if d := authz.CanManageEvent(actor, event.Scope, event.CreatedByID); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}

	var req dto.AddParticipantRequest
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
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}

	participant, enrolled, err := service.Join(ctrl.DB, event.ID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotJoinable):
			return helper.JsonError(c, fiber.StatusBadRequest, "Event is not open for registration")
		case errors.Is(err, service.ErrAlreadyJoined):
			return helper.JsonError(c, fiber.StatusConflict, "User has already joined this event")
		case errors.Is(err, service.ErrEventFull):
			return helper.JsonError(c, fiber.StatusConflict, "Event is at capacity")
		default:
			log.Printf("[ERROR] add participant to %s: %v", event.ID, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to add participant")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":           "Participant added",
		"participant":       dto.ToParticipantResponse(participant),
		"enrolled_students": enrolled,
	})
}

// PATCH /api/events/:id/participants/:userId — attendance bookkeeping;
// ATTENDED pays the event's points out through the ledger.
func (ctrl *EventController) UpdateParticipant(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	event, err := ctrl.loadEvent(c)
	if event == nil {
		return err
	}
	if d := authz.CanManageEvent(actor, event.Scope, event.CreatedByID); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var req dto.UpdateParticipantRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	participant, err := service.SetParticipantStatus(ctrl.DB, event.ID, userID, req.Status)
	if err != nil {
		if errors.Is(err, service.ErrNotParticipant) {
			return helper.JsonError(c, fiber.StatusNotFound, "Participant not found")
		}
		if errors.Is(err, service.ErrAttendanceFinal) {
			return helper.JsonError(c, fiber.StatusConflict, "Attendance has already been recorded")
		}
		log.Printf("[ERROR] update participant %s/%s: %v", event.ID, userID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update participant")
	}

	return c.JSON(fiber.Map{
		"message":     "Participant updated",
		"participant": dto.ToParticipantResponse(participant),
	})
}

// DELETE /api/events/:id/participants/:userId
func (ctrl *EventController) RemoveParticipant(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	event, err := ctrl.loadEvent(c)
	if event == nil {
		return err
	}
	if d := authz.CanManageEvent(actor, event.Scope, event.CreatedByID); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	res := ctrl.DB.Where("event_id = ? AND user_id = ?", event.ID, userID).
		Delete(&eventModel.EventParticipantModel{})
	if res.Error != nil {
		log.Printf("[ERROR] remove participant %s/%s: %v", event.ID, userID, res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to remove participant")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Participant not found")
	}

	return c.JSON(fiber.Map{"message": "Participant removed"})
}
