package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/deficit-slayer/pkg/battle"
	"github.com/jwebster45206/deficit-slayer/pkg/display"
	"github.com/jwebster45206/deficit-slayer/pkg/state"
	"github.com/jwebster45206/deficit-slayer/pkg/view"
	"github.com/redis/go-redis/v9"
)

// Channel is the Redis Pub/Sub channel battle events are published on.
const Channel = "battle-events"

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeBattleLogged    EventType = "battle.logged"
	EventTypeMonsterAdvanced EventType = "battle.advanced"
)

// Event represents a generic event structure
type Event struct {
	Type EventType              `json:"type"`
	Data map[string]interface{} `json:"data,omitempty"`
}

// Broadcaster publishes events to Redis Pub/Sub for SSE distribution
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// PublishBattleLogged publishes a battle.logged event
func (b *Broadcaster) PublishBattleLogged(ctx context.Context, entry state.GameLog, res battle.Result, gs view.GameState) error {
	event := Event{
		Type: EventTypeBattleLogged,
		Data: map[string]interface{}{
			"log_id":        entry.ID,
			"monster_id":    entry.MonsterID,
			"calories":      entry.CaloriesConsumed,
			"deficit":       res.Deficit,
			"effect":        res.Effect,
			"floating_text": display.CombatText(res),
			"defeated":      res.Defeated,
			"completed":     res.Completed,
			"game_state":    gs,
		},
	}
	return b.publish(ctx, event)
}

// PublishMonsterAdvanced publishes a battle.advanced event
func (b *Broadcaster) PublishMonsterAdvanced(ctx context.Context, gs view.GameState) error {
	event := Event{
		Type: EventTypeMonsterAdvanced,
		Data: map[string]interface{}{
			"monster_index": gs.CurrentMonsterIndex,
			"game_state":    gs,
		},
	}
	return b.publish(ctx, event)
}

func (b *Broadcaster) publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, Channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", Channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", Channel,
		"event_type", event.Type,
	)

	return nil
}
