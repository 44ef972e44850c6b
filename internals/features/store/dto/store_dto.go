package dto

import (
	"time"

	"github.com/google/uuid"

	storeModel "tutorium_backend/internals/features/store/model"
	userDTO "tutorium_backend/internals/features/users/user/dto"
)

type CreateItemRequest struct {
	Name              string  `json:"name" validate:"required,min=1,max=100"`
	Description       string  `json:"description"`
	PointsRequired    int     `json:"points_required" validate:"required,gt=0"`
	AvailableQuantity int     `json:"available_quantity" validate:"gte=0"`
	ImageURL          *string `json:"image_url" validate:"omitempty,url"`
	// Admins may create an item on behalf of a tutor.
	TutorID string `json:"tutor_id" validate:"omitempty,uuid"`
}

type UpdateItemRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description       *string `json:"description"`
	PointsRequired    *int    `json:"points_required" validate:"omitempty,gt=0"`
	AvailableQuantity *int    `json:"available_quantity" validate:"omitempty,gte=0"`
	ImageURL          *string `json:"image_url" validate:"omitempty,url"`
}

type ItemResponse struct {
	ID                uuid.UUID         `json:"id"`
	TutorID           uuid.UUID         `json:"tutor_id"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	PointsRequired    int               `json:"points_required"`
	AvailableQuantity int               `json:"available_quantity"`
	ImageURL          *string           `json:"image_url,omitempty"`
	Tutor             *userDTO.UserLite `json:"tutor,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func ToItemResponse(item *storeModel.StoreItemModel, tutor *userDTO.UserLite) ItemResponse {
	return ItemResponse{
		ID:                item.ID,
		TutorID:           item.TutorID,
		Name:              item.Name,
		Description:       item.Description,
		PointsRequired:    item.PointsRequired,
		AvailableQuantity: item.AvailableQuantity,
		ImageURL:          item.ImageURL,
		Tutor:             tutor,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}
