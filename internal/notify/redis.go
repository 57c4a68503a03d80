package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "notify:"

type RedisOutbox struct {
	client *goredis.Client
}

func NewRedisOutbox(client *goredis.Client) *RedisOutbox {
	return &RedisOutbox{client: client}
}

func tagKey(userID uuid.UUID, tag string) string {
	return fmt.Sprintf("%stag:%s:%s", keyPrefix, userID, tag)
}

func queueKey(userID uuid.UUID) string {
	return fmt.Sprintf("%squeue:%s", keyPrefix, userID)
}

func (o *RedisOutbox) Push(ctx context.Context, userID uuid.UUID, n Notification, lifetime time.Duration) (bool, error) {
	if o.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	if n.Tag != "" {
		fresh, err := o.client.SetNX(ctx, tagKey(userID, n.Tag), 1, lifetime).Result()
		if err != nil {
			return false, fmt.Errorf("reserve notification tag: %w", err)
		}
		if !fresh {
			return false, nil
		}
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return false, fmt.Errorf("encode notification: %w", err)
	}

	pipe := o.client.TxPipeline()
	pipe.RPush(ctx, queueKey(userID), payload)
	pipe.Expire(ctx, queueKey(userID), lifetime)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("enqueue notification: %w", err)
	}
	return true, nil
}

func (o *RedisOutbox) Drain(ctx context.Context, userID uuid.UUID) ([]Notification, error) {
	if o.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}

	pipe := o.client.TxPipeline()
	items := pipe.LRange(ctx, queueKey(userID), 0, -1)
	pipe.Del(ctx, queueKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("drain notifications: %w", err)
	}

	out := make([]Notification, 0, len(items.Val()))
	for _, raw := range items.Val() {
		var n Notification
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}
