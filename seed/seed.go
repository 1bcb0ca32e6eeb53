// Package seed resets the fighter table to the demo roster.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/kasuganosora/fighterdemo/server/audit"
	"github.com/kasuganosora/fighterdemo/server/cache"
	"github.com/kasuganosora/fighterdemo/server/model"
	"github.com/kasuganosora/fighterdemo/server/store"
	"go.uber.org/zap"
)

// LockKey guards the reseed across handlers and instances sharing a cache.
const LockKey = "lock:fighter:seed"

// ErrInProgress is returned when another reseed holds the lock.
var ErrInProgress = errors.New("seed already in progress")

// Fighters returns the demo roster.
func Fighters() []model.Fighter {
	return []model.Fighter{
		{Name: "隆", Skill: model.SkillList{"波动拳"}},
		{Name: "肯", Skill: model.SkillList{"升龙拳"}},
	}
}

// Seeder wipes and reloads the fighter table.
type Seeder struct {
	store   store.FighterStore
	cache   cache.Cache
	audit   *audit.Service
	lockTTL time.Duration
	logger  *zap.Logger
}

// New creates a Seeder. auditSvc may be nil.
func New(s store.FighterStore, c cache.Cache, auditSvc *audit.Service, lockTTL time.Duration, logger *zap.Logger) *Seeder {
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &Seeder{store: s, cache: c, audit: auditSvc, lockTTL: lockTTL, logger: logger}
}

// Run replaces every fighter with the demo roster and returns the stored rows.
func (sd *Seeder) Run(ctx context.Context, traceID string) ([]model.Fighter, error) {
	release, err := cache.Lock(ctx, sd.cache, LockKey, sd.lockTTL)
	if errors.Is(err, cache.ErrLocked) {
		return nil, ErrInProgress
	}
	if err != nil {
		return nil, err
	}
	defer release(context.WithoutCancel(ctx))

	start := time.Now()
	sd.logger.Info("seeding fighters")
	err = sd.store.Replace(ctx, Fighters())
	var fighters []model.Fighter
	if err == nil {
		fighters, err = sd.store.List(ctx)
	}

	if sd.audit != nil {
		entry := audit.Entry{
			TraceID:    traceID,
			Action:     audit.ActionSeed,
			Response:   fighters,
			DurationMs: int(time.Since(start).Milliseconds()),
		}
		if err != nil {
			entry.Error = err.Error()
		}
		sd.audit.Log(entry)
	}
	if err != nil {
		sd.logger.Error("seeding fighters failed", zap.Error(err))
		return nil, err
	}
	sd.logger.Info("seeding fighters done", zap.Int("count", len(fighters)))
	return fighters, nil
}
