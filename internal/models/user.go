package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Subscription tier ids as stored in users.subscription_tier_id.
const (
	TierFree    = 0
	TierPremium = 1
)

// User is the gateway's profile row. Credentials live alongside the profile
// so that sign-in is a single lookup.
type User struct {
	ID                 uuid.UUID `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey" json:"user_id"`
	Email              string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	PasswordHash       string    `gorm:"not null" json:"-"`
	Role               string    `gorm:"size:20;default:'user'" json:"role"`
	Name               string    `gorm:"size:100" json:"name"`
	AvatarURL          string    `gorm:"size:500" json:"avatar_url"`
	Occupation         string    `gorm:"size:100" json:"occupation"`
	SubscriptionTierID int       `gorm:"default:0" json:"subscription_tier_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Author is the public projection of a user attached to posts and comments.
type Author struct {
	UserID             uuid.UUID `gorm:"column:user_id" json:"user_id"`
	Name               string    `json:"name"`
	AvatarURL          string    `json:"avatar_url"`
	SubscriptionTierID int       `json:"subscription_tier_id"`
}

// UsageLimit is one user's metered usage for one UTC day.
type UsageLimit struct {
	ID                   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID               uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_usage_user_date" json:"user_id"`
	Date                 string    `gorm:"type:date;not null;uniqueIndex:idx_usage_user_date" json:"date"`
	ScansCount           int       `gorm:"default:0" json:"scans_count"`
	ChatbotMessagesCount int       `gorm:"default:0" json:"chatbot_messages_count"`
}

func (UsageLimit) TableName() string { return "usage_limits" }
