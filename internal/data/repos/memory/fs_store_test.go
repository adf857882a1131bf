package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/memoquiz-backend/internal/domain"
	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestFSStore(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "2", "texts", "b.txt"), "Second text")
	writeFile(t, filepath.Join(root, "2", "texts", "a.txt"), "  First text \n")
	writeFile(t, filepath.Join(root, "2", "texts", "nested", "c.txt"), "Nested text")
	writeFile(t, filepath.Join(root, "2", "texts", "empty.txt"), "   ")
	writeFile(t, filepath.Join(root, "2", "images", "x.png"), "png")
	writeFile(t, filepath.Join(root, "1", "metadata.json"), "{}")
	writeFile(t, filepath.Join(root, "stray.txt"), "not a memory")

	store := NewFSStore(root, logger.NewNop())

	ids, err := store.ListMemoryIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids)

	frags, err := store.Fragments(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"First text", "Second text", "Nested text"}, frags)

	frags, err = store.Fragments(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, frags)

	_, err = store.Fragments(ctx, "missing")
	require.ErrorIs(t, err, types.ErrNotFound)
	_, err = store.Fragments(ctx, "../2")
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestFSStoreMissingRoot(t *testing.T) {
	store := NewFSStore(filepath.Join(t.TempDir(), "nope"), logger.NewNop())
	ids, err := store.ListMemoryIDs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
