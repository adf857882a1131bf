package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/memoquiz-backend/internal/data/repos/quiz"
	"github.com/yungbote/memoquiz-backend/internal/data/repos/testutil"
	types "github.com/yungbote/memoquiz-backend/internal/domain"
)

type fakeMemories struct {
	fragments map[string][]string
}

func (f *fakeMemories) ListMemoryIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.fragments))
	for id := range f.fragments {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeMemories) Fragments(ctx context.Context, id string) ([]string, error) {
	frags, ok := f.fragments[id]
	if !ok {
		return nil, fmt.Errorf("%w: memory %s", types.ErrNotFound, id)
	}
	return frags, nil
}

// fakeGenerator returns numbered questions. failFirst makes the first N calls
// fail; failAll makes every call fail.
type fakeGenerator struct {
	mu        sync.Mutex
	calls     int
	failFirst int
	failAll   bool
	block     bool
}

func (g *fakeGenerator) Generate(ctx context.Context, contextText string) (*GeneratedQuestion, error) {
	g.mu.Lock()
	g.calls++
	n := g.calls
	g.mu.Unlock()

	if g.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if g.failAll || n <= g.failFirst {
		return nil, fmt.Errorf("upstream unavailable")
	}
	return &GeneratedQuestion{
		Question:      fmt.Sprintf("What happened in %q (%d)?", contextText, n),
		CorrectAnswer: fmt.Sprintf("answer %d", n),
		Distractors:   []string{"wrong 1", "wrong 2", "wrong 3"},
	}, nil
}

func (g *fakeGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func twoMemories() *fakeMemories {
	return &fakeMemories{fragments: map[string][]string{
		"beach-2019": {"We swam at dawn.", "Grandma brought figs."},
		"wedding":    {"The band played until 2am."},
	}}
}

func newTestPool(t *testing.T, items ...*types.QuizItem) (*quiz.Pool, *quiz.FileStore) {
	t.Helper()
	store := quiz.NewFileStore(filepath.Join(t.TempDir(), "quizs.json"), testutil.Logger(t))
	pool := quiz.NewPool(store, quiz.NewLocalLocker(), testutil.Logger(t))
	for _, item := range items {
		require.NoError(t, pool.Upsert(context.Background(), item))
	}
	return pool, store
}
