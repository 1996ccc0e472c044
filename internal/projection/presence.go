// Package projection keeps Redis-side projections derived from the user event stream.
package projection

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sopra/user-service/shared/events"
	"go.uber.org/zap"
)

const (
	OnlineUsersKey = "users:online"
	PresenceGroup  = "user-service-presence"
)

// Presence maintains the set of ONLINE user ids.
type Presence struct {
	client *redis.Client
	log    *zap.Logger
}

func NewPresence(client *redis.Client, log *zap.Logger) *Presence {
	return &Presence{client: client, log: log}
}

// HandleUserEvent is the Redis stream subscriber handler.
func (p *Presence) HandleUserEvent(ctx context.Context, event events.Event) error {
	data, err := events.DecodeUserEvent(event)
	if err != nil {
		return err
	}
	member := strconv.FormatInt(data.UserID, 10)

	switch event.Type {
	case events.UserRegistered, events.UserLoggedIn:
		err = p.client.SAdd(ctx, OnlineUsersKey, member).Err()
	case events.UserLoggedOut:
		err = p.client.SRem(ctx, OnlineUsersKey, member).Err()
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to apply %s for user %d: %w", event.Type, data.UserID, err)
	}

	p.log.Debug("presence updated", zap.String("type", event.Type), zap.Int64("userId", data.UserID))
	return nil
}

// Count returns the number of users currently ONLINE.
func (p *Presence) Count(ctx context.Context) (int64, error) {
	n, err := p.client.SCard(ctx, OnlineUsersKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count online users: %w", err)
	}
	return n, nil
}

// Subscriber returns a stream consumer that feeds HandleUserEvent. A zero
// block duration uses the subscriber default.
func (p *Presence) Subscriber(consumer string, block time.Duration) *events.Subscriber {
	return events.NewSubscriber(p.client, events.SubscriberConfig{
		Group:         PresenceGroup,
		Consumer:      consumer,
		Stream:        events.UserEventsStream,
		Handler:       p.HandleUserEvent,
		BlockDuration: block,
	}, p.log)
}
