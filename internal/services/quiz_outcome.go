package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/memoquiz-backend/internal/data/repos/quiz"
	types "github.com/yungbote/memoquiz-backend/internal/domain"
	"github.com/yungbote/memoquiz-backend/internal/observability"
	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
)

// Outcome is the graded result of one answer.
type Outcome struct {
	Item    *types.QuizItem
	Correct bool
}

type OutcomeRecorder interface {
	// RecordOutcome adds exactly one success or one failure to the item.
	RecordOutcome(ctx context.Context, questionID string, correct bool) (*Outcome, error)
	// RecordAnswer grades answer against the stored correct answer and records it.
	RecordAnswer(ctx context.Context, questionID string, answer string) (*Outcome, error)
}

type outcomeRecorder struct {
	log     *logger.Logger
	pool    QuizPool
	metrics *observability.Metrics
}

func NewOutcomeRecorder(log *logger.Logger, pool QuizPool, metrics *observability.Metrics) OutcomeRecorder {
	return &outcomeRecorder{
		log:     log.With("service", "OutcomeRecorder"),
		pool:    pool,
		metrics: metrics,
	}
}

func (r *outcomeRecorder) RecordOutcome(ctx context.Context, questionID string, correct bool) (*Outcome, error) {
	return r.record(ctx, questionID, func(*types.QuizItem) bool { return correct })
}

func (r *outcomeRecorder) RecordAnswer(ctx context.Context, questionID string, answer string) (*Outcome, error) {
	return r.record(ctx, questionID, func(item *types.QuizItem) bool { return item.IsCorrectAnswer(answer) })
}

// record grades and increments inside one locked load/modify/save so
// concurrent answers never lose an update.
func (r *outcomeRecorder) record(ctx context.Context, questionID string, grade func(*types.QuizItem) bool) (*Outcome, error) {
	questionID = strings.TrimSpace(questionID)
	if questionID == "" {
		return nil, fmt.Errorf("%w: question_id required", types.ErrInvalidArgument)
	}
	var out *Outcome
	err := r.pool.Mutate(ctx, func(ctx context.Context, store quiz.Store) error {
		all, err := store.LoadAll(ctx)
		if err != nil {
			return err
		}
		item, ok := all[questionID]
		if !ok || item == nil {
			return fmt.Errorf("%w: question %s", types.ErrNotFound, questionID)
		}
		correct := grade(item)
		if correct {
			item.SuccessCount++
		} else {
			item.FailureCount++
		}
		if err := store.Upsert(ctx, item); err != nil {
			return err
		}
		out = &Outcome{Item: item.Clone(), Correct: correct}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.metrics.ObserveOutcome(out.Correct)
	r.log.Debug("Recorded quiz outcome",
		"question_id", questionID,
		"correct", out.Correct,
		"success_count", out.Item.SuccessCount,
		"failure_count", out.Item.FailureCount,
	)
	return out, nil
}
