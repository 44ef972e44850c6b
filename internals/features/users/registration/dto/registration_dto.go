package dto

import (
	"time"

	"github.com/google/uuid"

	registrationModel "tutorium_backend/internals/features/users/registration/model"
)

type SubmitRegistrationRequest struct {
	Username      string `json:"username" validate:"required,min=3,max=50"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	RequestedRole string `json:"requested_role" validate:"omitempty,oneof=TUTOR STUDENT"`
}

type ProcessRegistrationRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	// Required when rejecting.
	Reason string `json:"reason" validate:"max=500"`
	// The tutor to assign when approving a student signup.
	TutorID string `json:"tutor_id" validate:"omitempty,uuid"`
}

type RegistrationResponse struct {
	ID              uuid.UUID  `json:"id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	FirstName       *string    `json:"first_name,omitempty"`
	LastName        *string    `json:"last_name,omitempty"`
	RequestedRole   string     `json:"requested_role"`
	Status          string     `json:"status"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	ProcessedByID   *uuid.UUID `json:"processed_by_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func ToRegistrationResponse(r *registrationModel.RegistrationRequestModel) RegistrationResponse {
	return RegistrationResponse{
		ID:              r.ID,
		Username:        r.Username,
		Email:           r.Email,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		RequestedRole:   r.RequestedRole,
		Status:          r.Status,
		RejectionReason: r.RejectionReason,
		ProcessedByID:   r.ProcessedByID,
		CreatedAt:       r.CreatedAt,
	}
}
