package quiz

import (
	"context"

	types "github.com/yungbote/memoquiz-backend/internal/domain"
)

// Store persists the quiz pool. Implementations are not safe against
// concurrent read-modify-write; route mutations through Pool.
type Store interface {
	// LoadAll returns every persisted item; unparsable state yields ErrStorageCorrupt.
	LoadAll(ctx context.Context) (types.Pool, error)
	// SaveAll atomically replaces the persisted pool.
	SaveAll(ctx context.Context, pool types.Pool) error
	// Upsert inserts or replaces one item by id.
	Upsert(ctx context.Context, item *types.QuizItem) error
}
