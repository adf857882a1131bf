package quiz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/yungbote/memoquiz-backend/internal/data/repos/testutil"
	types "github.com/yungbote/memoquiz-backend/internal/domain"
)

func TestGormStoreSaveLoadUpsert(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	store := NewGormStore(db, testutil.Logger(t))

	a := testutil.NewItem("memory-a", 1)
	b := testutil.NewItem("memory-b", 2)
	require.NoError(t, store.SaveAll(ctx, types.Pool{a.ID: a, b.ID: b}))

	pool, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Equal(t, a, pool[a.ID])

	a.SuccessCount = 9
	require.NoError(t, store.Upsert(ctx, a))

	require.NoError(t, store.SaveAll(ctx, types.Pool{a.ID: a}))
	pool, err = store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, 9, pool[a.ID].SuccessCount)

	require.NoError(t, store.SaveAll(ctx, types.Pool{}))
	pool, err = store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, pool)
}

func TestGormStoreCorruptDistractors(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	store := NewGormStore(db, testutil.Logger(t))

	item := testutil.NewItem("memory-a", 1)
	require.NoError(t, store.Upsert(ctx, item))
	require.NoError(t, db.Model(&types.QuizItemRecord{}).
		Where("id = ?", item.ID).
		Update("distractors", datatypes.JSON([]byte(`{"not":"a list"}`))).Error)

	_, err := store.LoadAll(ctx)
	require.ErrorIs(t, err, types.ErrStorageCorrupt)
}
