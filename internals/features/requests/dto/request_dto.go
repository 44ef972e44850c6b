package dto

import (
	"time"

	"github.com/google/uuid"

	requestModel "tutorium_backend/internals/features/requests/model"
	storeDTO "tutorium_backend/internals/features/store/dto"
	userDTO "tutorium_backend/internals/features/users/user/dto"
)

type SubmitRequest struct {
	ItemID string `json:"item_id" validate:"required,uuid"`
	Note   string `json:"note" validate:"max=500"`
}

type ProcessRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	Note   string `json:"note" validate:"max=500"`
}

type RequestResponse struct {
	ID          uuid.UUID              `json:"id"`
	StudentID   uuid.UUID              `json:"student_id"`
	TutorID     uuid.UUID              `json:"tutor_id"`
	ItemID      uuid.UUID              `json:"item_id"`
	Status      string                 `json:"status"`
	PointsSpent int                    `json:"points_spent"`
	Note        string                 `json:"note"`
	Student     *userDTO.UserLite      `json:"student,omitempty"`
	Item        *storeDTO.ItemResponse `json:"item,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func ToRequestResponse(r *requestModel.ItemRequestModel) RequestResponse {
	resp := RequestResponse{
		ID:          r.ID,
		StudentID:   r.StudentID,
		TutorID:     r.TutorID,
		ItemID:      r.ItemID,
		Status:      r.Status,
		PointsSpent: r.PointsSpent,
		Note:        r.Note,
		Student:     userDTO.ToUserLite(r.Student),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Item != nil {
		item := storeDTO.ToItemResponse(r.Item, nil)
		resp.Item = &item
	}
	return resp
}
