package services

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	types "github.com/yungbote/memoquiz-backend/internal/domain"
)

// BanditSelector picks the next question to reuse from the pool.
type BanditSelector interface {
	// SelectBest returns nil when every item is excluded or the pool is empty.
	SelectBest(pool types.Pool, excluded map[string]struct{}) *types.QuizItem
}

type thompsonSelector struct {
	src rand.Source
}

// NewThompsonSelector draws one Beta(success, failure) sample per candidate and
// keeps the largest.
func NewThompsonSelector(src rand.Source) BanditSelector {
	if src == nil {
		src = NewRandSource(0)
	}
	return &thompsonSelector{src: src}
}

func (s *thompsonSelector) SelectBest(pool types.Pool, excluded map[string]struct{}) *types.QuizItem {
	if len(pool) == 0 {
		return nil
	}
	ids := make([]string, 0, len(pool))
	for id := range pool {
		ids = append(ids, id)
	}
	// Map order is random; a fixed order keeps seeded runs reproducible.
	sort.Strings(ids)

	var (
		best      *types.QuizItem
		bestScore float64
	)
	for _, id := range ids {
		item := pool[id]
		if item == nil || isExcluded(excluded, id, item.ID) {
			continue
		}
		score := s.sample(item)
		if best == nil || score > bestScore {
			best, bestScore = item, score
		}
	}
	return best
}

func (s *thompsonSelector) sample(item *types.QuizItem) float64 {
	dist := distuv.Beta{
		Alpha: float64(max(item.SuccessCount, types.PriorSuccesses)),
		Beta:  float64(max(item.FailureCount, types.PriorFailures)),
		Src:   s.src,
	}
	return dist.Rand()
}

func isExcluded(excluded map[string]struct{}, ids ...string) bool {
	for _, id := range ids {
		if _, ok := excluded[id]; ok {
			return true
		}
	}
	return false
}
