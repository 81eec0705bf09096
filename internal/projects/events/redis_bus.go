package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/markode-co/MarkodeAITool/internal/logging"
)

const (
	statusKeyPrefix     = "gen:status:" // last event per project: gen:status:{project_id}
	eventChannelPrefix  = "gen:events:" // pub/sub channel per project: gen:events:{project_id}
	defaultStatusTTL    = 24 * time.Hour
	subscriptionBufSize = 16
)

// ErrNoEvent is returned by Last when nothing was published for the project.
var ErrNoEvent = errors.New("no status event recorded")

// RedisBus publishes status events on Redis pub/sub and keeps the latest one per project.
type RedisBus struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBus creates a bus on client. A zero ttl uses a 24h retention for the last event.
func NewRedisBus(client *redis.Client, ttl time.Duration) *RedisBus {
	if ttl <= 0 {
		ttl = defaultStatusTTL
	}
	return &RedisBus{client: client, ttl: ttl}
}

// Publish stores ev as the project's last event and broadcasts it.
func (b *RedisBus) Publish(ctx context.Context, ev StatusEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	pipe := b.client.Pipeline()
	pipe.Set(ctx, statusKey(ev.ProjectID), data, b.ttl)
	pipe.Publish(ctx, eventChannel(ev.ProjectID), data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish status event: %w", err)
	}
	return nil
}

// Last returns the most recent event published for projectID.
func (b *RedisBus) Last(ctx context.Context, projectID string) (*StatusEvent, error) {
	data, err := b.client.Get(ctx, statusKey(projectID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoEvent
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get status event: %w", err)
	}

	var ev StatusEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status event: %w", err)
	}
	return &ev, nil
}

// Subscribe delivers events for projectID until ctx is done. The returned
// channel is closed once the subscription ends.
func (b *RedisBus) Subscribe(ctx context.Context, projectID string) (<-chan StatusEvent, error) {
	sub := b.client.Subscribe(ctx, eventChannel(projectID))
	// wait for the subscription to be confirmed so no event published afterwards is missed
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan StatusEvent, subscriptionBufSize)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev StatusEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					logging.New(ctx).LogWarnf("subscribe", "channel=%s dropping malformed status event: %v", msg.Channel, err)
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func statusKey(projectID string) string {
	return fmt.Sprintf("%s%s", statusKeyPrefix, projectID)
}

func eventChannel(projectID string) string {
	return fmt.Sprintf("%s%s", eventChannelPrefix, projectID)
}
