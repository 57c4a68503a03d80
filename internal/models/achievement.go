package models

import (
	"time"

	"github.com/google/uuid"
)

type Achievement struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	IconName       string    `json:"icon_name"`
	RequiredAction string    `json:"required_action"`
	RequiredCount  int       `json:"required_count"`
}

func (Achievement) TableName() string { return "achievements" }

type UserAchievement struct {
	ID            uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	UnlockedAt    time.Time   `json:"unlocked_at"`
	Progress      int         `json:"progress"`
	Achievement   Achievement `gorm:"foreignKey:AchievementID" json:"achievement"`
}

func (UserAchievement) TableName() string { return "user_achievements" }

type Title struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name                  string     `json:"name"`
	Description           string     `json:"description"`
	RequiredAchievementID *uuid.UUID `gorm:"type:uuid" json:"required_achievement_id"`
}

func (Title) TableName() string { return "titles" }

type UserTitle struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_title" json:"user_id"`
	TitleID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_title" json:"title_id"`
	Equipped   bool      `gorm:"default:false" json:"equipped"`
	UnlockedAt time.Time `json:"unlocked_at"`
	Title      Title     `gorm:"foreignKey:TitleID" json:"title"`
}

func (UserTitle) TableName() string { return "user_titles" }

// UserAction kinds recorded after qualifying actions.
const (
	ActionPostCreated        = "post_created"
	ActionCommentCreated     = "comment_created"
	ActionPostLiked          = "post_liked"
	ActionCommentLiked       = "comment_liked"
	ActionPlantScanned       = "plant_scanned"
	ActionChatbotMessageSent = "chatbot_message_sent"
)

type UserAction struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ActionType string     `gorm:"size:50;not null" json:"action_type"`
	TargetID   *uuid.UUID `gorm:"type:uuid" json:"target_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (UserAction) TableName() string { return "user_actions" }
