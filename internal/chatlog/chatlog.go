// Package chatlog persists the plant-care assistant's conversations so a
// user's history survives reloads and feeds later prompts.
package chatlog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// DefaultLimit bounds history reads.
const DefaultLimit = 50

type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"-"`
	Role      string             `bson:"role" json:"role"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type Store interface {
	Append(ctx context.Context, userID uuid.UUID, msgs ...Message) error
	// History returns the latest limit messages, oldest first.
	History(ctx context.Context, userID uuid.UUID, limit int) ([]Message, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return DefaultLimit
	}
	return limit
}

func stamp(userID uuid.UUID, msgs []Message) []Message {
	now := time.Now().UTC()
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		m.UserID = userID.String()
		if m.CreatedAt.IsZero() {
			// Keep insertion order stable when a pair is written together.
			m.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		}
		out[i] = m
	}
	return out
}
