package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const MatchChannel = "matches.created"

// MatchEvent is the fixed record emitted for every new match. Consumers in
// the notification subsystem handle it at-least-once.
type MatchEvent struct {
	User1ID   uuid.UUID `json:"user1_id"`
	User2ID   uuid.UUID `json:"user2_id"`
	MatchedAt time.Time `json:"matched_at"`
}

type Publisher interface {
	PublishMatch(ctx context.Context, evt MatchEvent) error
}

// RedisPublisher emits match events over Redis pub/sub.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client, channel: MatchChannel}
}

func (p *RedisPublisher) PublishMatch(ctx context.Context, evt MatchEvent) error {
	if p == nil || p.client == nil {
		return errors.New("nil publisher")
	}
	if evt.MatchedAt.IsZero() {
		evt.MatchedAt = time.Now().UTC()
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, b).Err()
}

var _ Publisher = (*RedisPublisher)(nil)
