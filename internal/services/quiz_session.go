package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/memoquiz-backend/internal/data/repos/quiz"
	types "github.com/yungbote/memoquiz-backend/internal/domain"
	"github.com/yungbote/memoquiz-backend/internal/observability"
	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
)

// QuizPool is the persisted question pool as the services see it.
type QuizPool interface {
	Snapshot(ctx context.Context) (types.Pool, error)
	Upsert(ctx context.Context, item *types.QuizItem) error
	Mutate(ctx context.Context, fn func(ctx context.Context, store quiz.Store) error) error
}

const (
	slotBandit      = "bandit"
	slotSynthesized = "synthesized"
	slotSkipped     = "skipped"
)

type SessionOptions struct {
	Count           int
	ExplorationRate float64
	// RefillAttempts bounds extra slot attempts after failed slots.
	RefillAttempts int
}

type SlotFailure struct {
	Slot   int    `json:"slot"`
	Reason string `json:"reason"`
}

// Session is an ordered set of distinct quiz items. Degraded is true when
// fewer than Requested items could be produced.
type Session struct {
	Items       []*types.QuizItem
	Requested   int
	Degraded    bool
	Failures    []SlotFailure
	Synthesized int
	Reused      int
}

type SessionBuilder interface {
	BuildSession(ctx context.Context, opts SessionOptions) (*Session, error)
}

type sessionBuilder struct {
	log      *logger.Logger
	pool     QuizPool
	selector BanditSelector
	synth    QuestionSynthesizer
	memories MemorySource
	rng      *rand.Rand
	maxCount int
	metrics  *observability.Metrics
}

func NewSessionBuilder(
	log *logger.Logger,
	pool QuizPool,
	selector BanditSelector,
	synth QuestionSynthesizer,
	memories MemorySource,
	src rand.Source,
	maxCount int,
	metrics *observability.Metrics,
) SessionBuilder {
	if src == nil {
		src = NewRandSource(0)
	}
	return &sessionBuilder{
		log:      log.With("service", "SessionBuilder"),
		pool:     pool,
		selector: selector,
		synth:    synth,
		memories: memories,
		rng:      rand.New(src),
		maxCount: maxCount,
		metrics:  metrics,
	}
}

func (b *sessionBuilder) validate(opts SessionOptions) error {
	if opts.Count < 0 {
		return fmt.Errorf("%w: count must be >= 0", types.ErrInvalidArgument)
	}
	if b.maxCount > 0 && opts.Count > b.maxCount {
		return fmt.Errorf("%w: count must be <= %d", types.ErrInvalidArgument, b.maxCount)
	}
	if math.IsNaN(opts.ExplorationRate) || opts.ExplorationRate < 0 || opts.ExplorationRate > 1 {
		return fmt.Errorf("%w: exploration rate must be within [0, 1]", types.ErrInvalidArgument)
	}
	return nil
}

func (b *sessionBuilder) BuildSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	if err := b.validate(opts); err != nil {
		return nil, err
	}
	refill := max(opts.RefillAttempts, 0)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "quiz.build_session")
	defer span.End()
	span.SetAttributes(
		attribute.Int("quiz.count", opts.Count),
		attribute.Float64("quiz.epsilon", opts.ExplorationRate),
	)

	sess := &Session{Requested: opts.Count, Items: make([]*types.QuizItem, 0, opts.Count)}
	chosen := make(map[string]struct{}, opts.Count)

	// Each slot gets one attempt; refill attempts only run while slots are short.
	for slot := 0; slot < opts.Count+refill && len(sess.Items) < opts.Count; slot++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		explore := b.rng.Float64() < opts.ExplorationRate
		item, source, err := b.fillSlot(ctx, explore, chosen)
		if err != nil {
			if isFatalSessionError(ctx, err) {
				span.RecordError(err)
				return nil, err
			}
			reason := types.Reason(err)
			b.log.Warn("Quiz session slot skipped", "slot", slot, "reason", reason, "error", err)
			sess.Failures = append(sess.Failures, SlotFailure{Slot: slot, Reason: reason})
			b.metrics.ObserveSlot(slotSkipped)
			continue
		}
		chosen[item.ID] = struct{}{}
		sess.Items = append(sess.Items, item)
		if source == slotSynthesized {
			sess.Synthesized++
		} else {
			sess.Reused++
		}
		b.metrics.ObserveSlot(source)
	}

	sess.Degraded = len(sess.Items) < opts.Count
	b.metrics.ObserveSession(sess.Degraded)
	span.SetAttributes(
		attribute.Int("quiz.items", len(sess.Items)),
		attribute.Int("quiz.synthesized", sess.Synthesized),
		attribute.Bool("quiz.degraded", sess.Degraded),
	)
	b.log.Info("Built quiz session",
		"requested", opts.Count,
		"items", len(sess.Items),
		"synthesized", sess.Synthesized,
		"reused", sess.Reused,
		"degraded", sess.Degraded,
	)
	return sess, nil
}

// fillSlot either synthesizes a new item (exploration) or asks the bandit for
// the best unchosen item from a fresh snapshot, falling back to synthesis when
// nothing is eligible.
func (b *sessionBuilder) fillSlot(ctx context.Context, explore bool, chosen map[string]struct{}) (*types.QuizItem, string, error) {
	if !explore {
		snap, err := b.pool.Snapshot(ctx)
		if err != nil {
			return nil, "", err
		}
		b.metrics.SetPoolSize(len(snap))
		if item := b.selector.SelectBest(snap, chosen); item != nil {
			return item.Clone(), slotBandit, nil
		}
	}
	item, err := b.synth.Synthesize(ctx, b.memories)
	if err != nil {
		return nil, "", err
	}
	if err := b.pool.Upsert(ctx, item); err != nil {
		return nil, "", fmt.Errorf("persist synthesized item: %w", err)
	}
	return item, slotSynthesized, nil
}

// isFatalSessionError reports errors that abort the whole session instead of
// skipping one slot.
func isFatalSessionError(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, types.ErrStorageCorrupt) ||
		errors.Is(err, context.Canceled)
}
