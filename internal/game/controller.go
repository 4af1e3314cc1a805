// Package game owns the single live game state. Views and handlers read
// snapshots and request transitions; nothing else writes the state.
package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/deficit-slayer/internal/logger"
	"github.com/jwebster45206/deficit-slayer/internal/storage"
	"github.com/jwebster45206/deficit-slayer/pkg/battle"
	"github.com/jwebster45206/deficit-slayer/pkg/roster"
	"github.com/jwebster45206/deficit-slayer/pkg/state"
	"github.com/jwebster45206/deficit-slayer/pkg/view"
)

// Publisher receives battle events after they are persisted.
type Publisher interface {
	PublishBattleLogged(ctx context.Context, entry state.GameLog, res battle.Result, gs view.GameState) error
	PublishMonsterAdvanced(ctx context.Context, gs view.GameState) error
}

// Controller serializes every transition as read latest, transform, write,
// then swap the in-memory snapshot. A failed write leaves the snapshot as it
// was.
type Controller struct {
	mu        sync.Mutex
	engine    *battle.Engine
	roster    *roster.Roster
	store     storage.Storage
	key       string
	publisher Publisher
	now       func() time.Time
	newID     func() string
	logger    *slog.Logger

	current state.GameState
}

// Option customizes a Controller.
type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDSource replaces the log id generator.
func WithIDSource(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

// WithPublisher sends battle events to p.
func WithPublisher(p Publisher) Option {
	return func(c *Controller) { c.publisher = p }
}

// WithKey stores the state under key instead of storage.StateKey.
func WithKey(key string) Option {
	return func(c *Controller) { c.key = key }
}

// Load restores the saved game, or starts a new one when nothing is saved or
// the saved record cannot be used. Only a storage read failure is an error.
func Load(ctx context.Context, r *roster.Roster, store storage.Storage, logger *slog.Logger, opts ...Option) (*Controller, error) {
	c := &Controller{
		engine: battle.NewEngine(r),
		roster: r,
		store:  store,
		key:    storage.StateKey,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	data, err := store.LoadState(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load game state: %w", err)
	}

	gs, repairs := state.Migrate(data, r, c.now())
	if len(repairs) > 0 {
		c.logger.Warn("Saved game state repaired with defaults", "key", c.key, "fields", repairs)
	}
	if data == nil {
		c.logger.Info("Starting new game", "key", c.key)
	} else {
		c.logger.Info("Game state loaded",
			"key", c.key,
			"monster_index", gs.CurrentMonsterIndex,
			"monster_hp", gs.CurrentMonsterHP,
			"total_deficit", gs.TotalDeficit,
			"logs", len(gs.Logs))
	}

	c.current = gs
	return c, nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() state.GameState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Clone()
}

// View returns the derived presentation of the current state.
func (c *Controller) View() view.GameState {
	return view.Build(c.roster, c.Snapshot())
}

func (c *Controller) Roster() *roster.Roster {
	return c.roster
}

// LogIntake records a day's intake against the current monster.
func (c *Controller) LogIntake(ctx context.Context, caloriesConsumed int) (state.GameState, battle.Result, error) {
	log := logger.FromContext(ctx, c.logger)
	c.mu.Lock()
	defer c.mu.Unlock()

	next, res, err := c.engine.LogIntake(c.current, caloriesConsumed, c.now(), c.newID())
	if err != nil {
		return c.current.Clone(), res, err
	}
	if err := c.save(ctx, next); err != nil {
		return c.current.Clone(), battle.Result{Effect: battle.EffectNone}, err
	}
	c.current = next

	entry := next.Logs[len(next.Logs)-1]
	log.Info("Day logged",
		"log_id", entry.ID,
		"calories", caloriesConsumed,
		"deficit", res.Deficit,
		"effect", res.Effect,
		"monster_id", entry.MonsterID,
		"monster_hp", next.CurrentMonsterHP)
	if res.Completed {
		log.Info("Final monster defeated", "total_deficit", next.TotalDeficit)
	} else if res.Defeated {
		log.Info("Monster defeated", "monster_id", entry.MonsterID)
	}

	if c.publisher != nil {
		if err := c.publisher.PublishBattleLogged(ctx, entry, res, view.Build(c.roster, next)); err != nil {
			log.Warn("Failed to publish battle event", "error", err)
		}
	}

	return next.Clone(), res, nil
}

// Advance moves to the next monster once the current one is defeated.
func (c *Controller) Advance(ctx context.Context) (state.GameState, error) {
	log := logger.FromContext(ctx, c.logger)
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.engine.Advance(c.current)
	if err != nil {
		return c.current.Clone(), err
	}
	if err := c.save(ctx, next); err != nil {
		return c.current.Clone(), err
	}
	c.current = next

	log.Info("Advanced to next monster",
		"monster_index", next.CurrentMonsterIndex,
		"monster_hp", next.CurrentMonsterHP)

	if c.publisher != nil {
		if err := c.publisher.PublishMonsterAdvanced(ctx, view.Build(c.roster, next)); err != nil {
			log.Warn("Failed to publish advance event", "error", err)
		}
	}

	return next.Clone(), nil
}

func (c *Controller) save(ctx context.Context, gs state.GameState) error {
	data, err := json.Marshal(gs)
	if err != nil {
		c.logger.Error("Failed to marshal game state", "error", err)
		return fmt.Errorf("failed to marshal game state: %w", err)
	}
	if err := c.store.SaveState(ctx, c.key, data); err != nil {
		return fmt.Errorf("failed to persist game state: %w", err)
	}
	return nil
}
