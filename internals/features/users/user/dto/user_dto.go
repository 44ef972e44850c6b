package dto

import (
	"github.com/google/uuid"

	userModel "tutorium_backend/internals/features/users/user/model"
)

// UserLite is the shape embedded in request/event/item responses.
type UserLite struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName *string   `json:"first_name,omitempty"`
	LastName  *string   `json:"last_name,omitempty"`
}

func ToUserLite(u *userModel.UserModel) *UserLite {
	if u == nil {
		return nil
	}
	return &UserLite{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	FirstName *string    `json:"first_name,omitempty"`
	LastName  *string    `json:"last_name,omitempty"`
	Points    int        `json:"points"`
	TutorID   *uuid.UUID `json:"tutor_id,omitempty"`
	Tutor     *UserLite  `json:"tutor,omitempty"`
}

func ToUserResponse(u *userModel.UserModel) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Points:    u.Points,
		TutorID:   u.TutorID,
	}
}

type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required,oneof=ADMIN TUTOR STUDENT"`
	TutorID   string `json:"tutor_id" validate:"omitempty,uuid"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type UpdateUserRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Role      *string `json:"role" validate:"omitempty,oneof=ADMIN TUTOR STUDENT"`
	TutorID   *string `json:"tutor_id" validate:"omitempty,uuid"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Points    *int    `json:"points" validate:"omitempty,gte=0"`
}

type UpdateRoleRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Role   string `json:"role" validate:"required,oneof=ADMIN TUTOR STUDENT"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type CreateStudentRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
