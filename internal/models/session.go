package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthSession backs one issued access token. Signing out revokes it.
type AuthSession struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}

func (AuthSession) TableName() string { return "auth_sessions" }
