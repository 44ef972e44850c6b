package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshTokenModel stores the HMAC-SHA256 hash of issued refresh tokens.
// The raw token only lives in the client cookie.
type RefreshTokenModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash []byte    `gorm:"not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
