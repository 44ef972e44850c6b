package model

import (
	"time"
)

// TokenBlacklistModel holds access tokens revoked by logout. Rows past
// expires_at are ignored by the auth middleware, so no reaper is needed.
type TokenBlacklistModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TokenBlacklistModel) TableName() string {
	return "token_blacklists"
}
