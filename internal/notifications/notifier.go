// Package notifications publishes domain events for delivery to external
// collaborators (websocket gateways, push workers) over Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"
	"time"

	"astra/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Publisher is the surface handlers depend on. Keeping it an interface lets
// the API run without any delivery backend and keeps tests free of Redis.
type Publisher interface {
	PublishUser(ctx context.Context, userID uint, event Event) error
	PublishBroadcast(ctx context.Context, event Event) error
}

// Event is the envelope placed on a notification channel.
type Event struct {
	Type      string `json:"type"`
	ActorID   uint   `json:"actor_id,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// NewEvent builds an event stamped with the current time.
func NewEvent(eventType string, actorID uint, data any) Event {
	return Event{
		Type:      eventType,
		ActorID:   actorID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
}

// Notifier publishes events into Redis channels. A Notifier with a nil
// client is a no-op, so the API keeps serving when Redis is down.
type Notifier struct {
	rdb *redis.Client
}

func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends an event to a single user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, event Event) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := n.rdb.Publish(ctx, UserChannel(userID), payload).Err(); err != nil {
		return err
	}
	observability.NotificationsPublished.WithLabelValues(event.Type).Inc()
	return nil
}

// PublishBroadcast sends an event to all connected collaborators.
func (n *Notifier) PublishBroadcast(ctx context.Context, event Event) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := n.rdb.Publish(ctx, BroadcastChannel, payload).Err(); err != nil {
		return err
	}
	observability.NotificationsPublished.WithLabelValues(event.Type).Inc()
	return nil
}

// StartPatternSubscriber subscribes to `notifications:user:*` and the
// broadcast channel and calls onMessage for each incoming message. It is
// used by delivery collaborators, not by the API itself.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "notifications:user:*", BroadcastChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in PatternSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// BroadcastChannel carries events addressed to every connected user.
const BroadcastChannel = "notifications:broadcast"

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}
