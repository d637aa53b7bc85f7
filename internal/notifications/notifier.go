// Package notifications publishes domain events to Redis channels so
// downstream consumers (mailers, feed rebuilders) can react without the
// API blocking on them.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"
	"time"

	"pawfeed/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Event types published on the events channel.
const (
	EventPostSubmitted = "post.submitted"
	EventPostApproved  = "post.approved"
	EventPostRejected  = "post.rejected"
	EventPostFeatured  = "post.featured"
	EventPostDeleted   = "post.deleted"
	EventNewFollower   = "user.followed"
)

// EventsChannel is the firehose channel all domain events go to.
const EventsChannel = "pawfeed:events"

// Event is the wire shape of a published domain event.
type Event struct {
	Type      string    `json:"type"`
	PostID    uint      `json:"post_id,omitempty"`
	UserID    uint      `json:"user_id,omitempty"`
	ActorID   uint      `json:"actor_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier provides helpers to publish events into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishEvent sends the event to the firehose channel and to the channel of
// the user it concerns (when set). Publishing is best-effort; a nil client
// turns it into a no-op.
func (n *Notifier) PublishEvent(ctx context.Context, event Event) error {
	if n.rdb == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := n.rdb.Publish(ctx, EventsChannel, payload).Err(); err != nil {
		return err
	}
	observability.EventsPublished.WithLabelValues(event.Type).Inc()

	if event.UserID != 0 {
		return n.rdb.Publish(ctx, UserChannel(event.UserID), payload).Err()
	}
	return nil
}

// StartSubscriber subscribes to the events firehose and per-user channels
// and calls onMessage for each incoming message.
func (n *Notifier) StartSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, EventsChannel, "pawfeed:user:*")
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
							log.Printf("PANIC in event subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "pawfeed:user:" + strconv.FormatUint(uint64(userID), 10)
}
