package model

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorium_backend/internals/constants"
)

var validate = validator.New()

// UserModel represents the users table. Points is a cached projection of the
// points_transactions ledger and is only written from the points service.
type UserModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string     `gorm:"size:50;uniqueIndex;not null" json:"username" validate:"required,min=3,max=50"`
	Email     string     `gorm:"size:255;uniqueIndex;not null" json:"email" validate:"required,email"`
	Password  string     `gorm:"not null" json:"-" validate:"required,min=8"`
	FirstName *string    `gorm:"size:50" json:"first_name,omitempty"`
	LastName  *string    `gorm:"size:50" json:"last_name,omitempty"`
	Role      string     `gorm:"type:varchar(20);not null;default:'STUDENT'" json:"role" validate:"required,oneof=ADMIN TUTOR STUDENT"`
	TutorID   *uuid.UUID `gorm:"type:uuid;index" json:"tutor_id,omitempty"`
	Points    int        `gorm:"not null;default:0" json:"points"`
	AvatarURL *string    `gorm:"size:255" json:"avatar_url,omitempty"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = constants.RoleStudent
	}
	return nil
}

func (u *UserModel) Validate() error {
	return validate.Struct(u)
}

func (u *UserModel) IsStudent() bool { return u.Role == constants.RoleStudent }
func (u *UserModel) IsTutor() bool   { return u.Role == constants.RoleTutor }
func (u *UserModel) IsAdmin() bool   { return u.Role == constants.RoleAdmin }
