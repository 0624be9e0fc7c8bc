package models

import "time"

// RefreshToken persists an issued refresh token; deleting the row revokes it.
type RefreshToken struct {
	Base
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
