package models

import (
	"time"

	"github.com/google/uuid"
)

type Reminder struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ReminderText  string    `gorm:"type:text;not null" json:"reminder_text"`
	DiagnosisText string    `gorm:"type:text" json:"diagnosis_text"`
	ScheduledFor  time.Time `gorm:"not null;index" json:"scheduled_for"`
	Completed     bool      `gorm:"default:false" json:"completed"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Reminder) TableName() string { return "reminders" }
