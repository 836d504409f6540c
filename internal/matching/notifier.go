// internal/matching/notifier.go
// Match-created events for the external notification channel.

package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// MatchEvent is the payload pushed to the notification channel when a match
// is created. It is emitted once, by the writer that created the row.
type MatchEvent struct {
	EventID      string      `json:"event_id"`
	MatchID      int64       `json:"match_id"`
	UserA        UserSummary `json:"user_a"`
	UserB        UserSummary `json:"user_b"`
	MatchQuality int         `json:"match_quality"`
	SuperMatch   bool        `json:"super_match"`
	CreatedAt    time.Time   `json:"created_at"`
}

type Notifier interface {
	NotifyMatchCreated(ctx context.Context, event *MatchEvent) error
}

func newMatchEvent(match *Match, swiper, target *Profile) *MatchEvent {
	event := &MatchEvent{
		EventID:      uuid.NewString(),
		MatchID:      match.ID,
		UserA:        UserSummary{ID: swiper.ID, DisplayName: swiper.DisplayName, Age: swiper.Age},
		UserB:        UserSummary{ID: target.ID, DisplayName: target.DisplayName, Age: target.Age},
		MatchQuality: match.MatchQuality,
		SuperMatch:   match.SuperMatch,
		CreatedAt:    match.CreatedAt,
	}
	// Keep the event ordered like the stored row.
	if event.UserA.ID > event.UserB.ID {
		event.UserA, event.UserB = event.UserB, event.UserA
	}
	return event
}

// RedisNotifier publishes match events to a Redis channel the notification
// service subscribes to.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) NotifyMatchCreated(ctx context.Context, event *MatchEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal match event: %w", err)
	}

	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish match event: %w", err)
	}

	return nil
}

// NopNotifier drops events; used when no notification channel is configured.
type NopNotifier struct{}

func (NopNotifier) NotifyMatchCreated(context.Context, *MatchEvent) error {
	return nil
}
