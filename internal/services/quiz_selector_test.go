package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/memoquiz-backend/internal/data/repos/testutil"
	types "github.com/yungbote/memoquiz-backend/internal/domain"
)

func TestSelectBestEmptyAndExhausted(t *testing.T) {
	sel := NewThompsonSelector(NewRandSource(1))
	assert.Nil(t, sel.SelectBest(nil, nil))
	assert.Nil(t, sel.SelectBest(types.Pool{}, nil))

	a := testutil.NewItem("m", 1)
	b := testutil.NewItem("m", 2)
	pool := types.Pool{a.ID: a, b.ID: b}
	assert.Nil(t, sel.SelectBest(pool, map[string]struct{}{a.ID: {}, b.ID: {}}))
}

func TestSelectBestHonorsExclusion(t *testing.T) {
	sel := NewThompsonSelector(NewRandSource(7))
	a := testutil.NewItem("m", 1)
	b := testutil.NewItem("m", 2)
	a.SuccessCount = 500
	pool := types.Pool{a.ID: a, b.ID: b}

	for i := 0; i < 200; i++ {
		got := sel.SelectBest(pool, map[string]struct{}{a.ID: {}})
		require.NotNil(t, got)
		assert.Equal(t, b.ID, got.ID)
	}
}

func TestSelectBestFavorsHigherPosterior(t *testing.T) {
	sel := NewThompsonSelector(NewRandSource(42))
	a := testutil.NewItem("m", 1)
	b := testutil.NewItem("m", 2)
	a.SuccessCount, a.FailureCount = 10, 1
	b.SuccessCount, b.FailureCount = 1, 10
	pool := types.Pool{a.ID: a, b.ID: b}

	const runs = 10000
	wins := 0
	for i := 0; i < runs; i++ {
		if sel.SelectBest(pool, nil).ID == a.ID {
			wins++
		}
	}
	// P(Beta(10,1) > Beta(1,10)) is effectively 1.
	assert.Greater(t, float64(wins)/runs, 0.95)
}

func TestSelectBestNeutralPriorsSplitEvenly(t *testing.T) {
	sel := NewThompsonSelector(NewRandSource(99))
	a := testutil.NewItem("m", 1)
	b := testutil.NewItem("m", 2)
	pool := types.Pool{a.ID: a, b.ID: b}

	const runs = 10000
	wins := 0
	for i := 0; i < runs; i++ {
		if sel.SelectBest(pool, nil).ID == a.ID {
			wins++
		}
	}
	assert.InDelta(t, 0.5, float64(wins)/runs, 0.05)
}

func TestSelectBestIsReproducibleWithSeed(t *testing.T) {
	pool := types.Pool{}
	for i := 0; i < 20; i++ {
		item := testutil.NewItem("m", i)
		item.SuccessCount += i
		pool[item.ID] = item
	}
	pick := func() []string {
		sel := NewThompsonSelector(NewRandSource(2024))
		out := make([]string, 0, 50)
		for i := 0; i < 50; i++ {
			out = append(out, sel.SelectBest(pool, nil).ID)
		}
		return out
	}
	assert.Equal(t, pick(), pick())
}
