package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	eventModel "tutorium_backend/internals/features/events/model"
	userDTO "tutorium_backend/internals/features/users/user/dto"
)

type CreateEventRequest struct {
	Title       string         `json:"title" validate:"required,min=1,max=150"`
	Description string         `json:"description"`
	Type        string         `json:"type" validate:"required,oneof=IN_PERSON ONLINE"`
	Location    string         `json:"location" validate:"max=255"`
	StartTime   time.Time      `json:"start_time" validate:"required"`
	EndTime     *time.Time     `json:"end_time"`
	Capacity    int            `json:"capacity" validate:"gte=0"`
	Points      int            `json:"points" validate:"gte=0"`
	Tags        datatypes.JSON `json:"tags"`
}

type UpdateEventRequest struct {
	Title       *string         `json:"title" validate:"omitempty,min=1,max=150"`
	Description *string         `json:"description"`
	Status      *string         `json:"status" validate:"omitempty,oneof=UPCOMING ONGOING COMPLETED CANCELLED"`
	Type        *string         `json:"type" validate:"omitempty,oneof=IN_PERSON ONLINE"`
	Location    *string         `json:"location" validate:"omitempty,max=255"`
	StartTime   *time.Time      `json:"start_time"`
	EndTime     *time.Time      `json:"end_time"`
	Capacity    *int            `json:"capacity" validate:"omitempty,gte=0"`
	Points      *int            `json:"points" validate:"omitempty,gte=0"`
	Tags        *datatypes.JSON `json:"tags"`
}

type AddParticipantRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

type UpdateParticipantRequest struct {
	Status string `json:"status" validate:"required,oneof=REGISTERED ATTENDED ABSENT"`
}

type EventResponse struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Scope       string            `json:"scope"`
	Status      string            `json:"status"`
	Type        string            `json:"type"`
	Location    string            `json:"location"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     *time.Time        `json:"end_time,omitempty"`
	Capacity    int               `json:"capacity"`
	Points      int               `json:"points"`
	Tags        datatypes.JSON    `json:"tags,omitempty"`
	CreatedByID uuid.UUID         `json:"created_by_id"`
	CreatedBy   *userDTO.UserLite `json:"created_by,omitempty"`
	Enrolled    int64             `json:"enrolled_students"`
	CreatedAt   time.Time         `json:"created_at"`
}

func ToEventResponse(e *eventModel.EventModel, enrolled int64) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Scope:       e.Scope,
		Status:      e.Status,
		Type:        e.Type,
		Location:    e.Location,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Capacity:    e.Capacity,
		Points:      e.Points,
		Tags:        e.Tags,
		CreatedByID: e.CreatedByID,
		CreatedBy:   userDTO.ToUserLite(e.CreatedBy),
		Enrolled:    enrolled,
		CreatedAt:   e.CreatedAt,
	}
}

type ParticipantResponse struct {
	ID        uuid.UUID         `json:"id"`
	EventID   uuid.UUID         `json:"event_id"`
	UserID    uuid.UUID         `json:"user_id"`
	Status    string            `json:"status"`
	User      *userDTO.UserLite `json:"user,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func ToParticipantResponse(p *eventModel.EventParticipantModel) ParticipantResponse {
	return ParticipantResponse{
		ID:        p.ID,
		EventID:   p.EventID,
		UserID:    p.UserID,
		Status:    p.Status,
		User:      userDTO.ToUserLite(p.User),
		CreatedAt: p.CreatedAt,
	}
}
