package profile

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/google/uuid"
)

type UpdateRequest struct {
	Name       *string `json:"name"`
	Occupation *string `json:"occupation"`
}

// ProfileCard is what other users see.
type ProfileCard struct {
	UserID        uuid.UUID                `json:"user_id"`
	Name          string                   `json:"name"`
	AvatarURL     string                   `json:"avatar_url"`
	Occupation    string                   `json:"occupation"`
	Premium       bool                     `json:"premium"`
	EquippedTitle string                   `json:"equipped_title,omitempty"`
	Achievements  []models.UserAchievement `json:"achievements"`
}
