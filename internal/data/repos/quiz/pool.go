package quiz

import (
	"context"
	"errors"
	"fmt"

	types "github.com/yungbote/memoquiz-backend/internal/domain"
	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
)

// Pool is the single access path to persisted quiz items. Reads load a fresh
// snapshot from the store; every write holds the locker for its whole
// load/modify/save sequence.
type Pool struct {
	store  Store
	locker Locker
	log    *logger.Logger
}

func NewPool(store Store, locker Locker, baseLog *logger.Logger) *Pool {
	if locker == nil {
		locker = NewLocalLocker()
	}
	return &Pool{
		store:  store,
		locker: locker,
		log:    baseLog.With("repo", "QuizPool"),
	}
}

func (p *Pool) Snapshot(ctx context.Context) (types.Pool, error) {
	pool, err := p.store.LoadAll(ctx)
	if err != nil {
		p.reportCorrupt(err)
		return nil, err
	}
	return pool, nil
}

// Upsert persists one item. Items that break the counter floor are rejected.
func (p *Pool) Upsert(ctx context.Context, item *types.QuizItem) error {
	if !item.Valid() {
		return fmt.Errorf("%w: quiz item violates counter floor", types.ErrInvalidArgument)
	}
	return p.Mutate(ctx, func(ctx context.Context, store Store) error {
		return store.Upsert(ctx, item)
	})
}

// Mutate runs fn with exclusive access to the store.
func (p *Pool) Mutate(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	unlock, err := p.locker.Lock(ctx)
	if err != nil {
		return fmt.Errorf("acquire quiz pool lock: %w", err)
	}
	defer unlock()

	if err := fn(ctx, p.store); err != nil {
		p.reportCorrupt(err)
		return err
	}
	return nil
}

// ReplaceAll swaps the whole pool under the lock.
func (p *Pool) ReplaceAll(ctx context.Context, pool types.Pool) error {
	for id, item := range pool {
		if !item.Valid() {
			return fmt.Errorf("%w: quiz item %s violates counter floor", types.ErrInvalidArgument, id)
		}
	}
	return p.Mutate(ctx, func(ctx context.Context, store Store) error {
		return store.SaveAll(ctx, pool)
	})
}

func (p *Pool) reportCorrupt(err error) {
	if errors.Is(err, types.ErrStorageCorrupt) {
		p.log.Error("Quiz pool storage is corrupt; refusing to treat it as empty", "error", err)
	}
}
