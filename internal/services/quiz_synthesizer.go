package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	types "github.com/yungbote/memoquiz-backend/internal/domain"
	"github.com/yungbote/memoquiz-backend/internal/observability"
	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
	"github.com/yungbote/memoquiz-backend/internal/platform/openai"
)

const tracerName = "github.com/yungbote/memoquiz-backend/internal/services"

// MemorySource exposes the user's memories and their text fragments.
type MemorySource interface {
	ListMemoryIDs(ctx context.Context) ([]string, error)
	Fragments(ctx context.Context, memoryID string) ([]string, error)
}

// QuestionSynthesizer builds a fresh, unpersisted QuizItem from a random memory.
type QuestionSynthesizer interface {
	Synthesize(ctx context.Context, memories MemorySource) (*types.QuizItem, error)
}

type questionSynthesizer struct {
	log       *logger.Logger
	generator QuestionGenerator
	rng       *rand.Rand
	timeout   time.Duration
	metrics   *observability.Metrics
}

func NewQuestionSynthesizer(log *logger.Logger, generator QuestionGenerator, src rand.Source, timeout time.Duration, metrics *observability.Metrics) QuestionSynthesizer {
	if src == nil {
		src = NewRandSource(0)
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &questionSynthesizer{
		log:       log.With("service", "QuestionSynthesizer"),
		generator: generator,
		rng:       rand.New(src),
		timeout:   timeout,
		metrics:   metrics,
	}
}

func (s *questionSynthesizer) Synthesize(ctx context.Context, memories MemorySource) (item *types.QuizItem, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "quiz.synthesize")
	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = types.Reason(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, result)
		}
		s.metrics.ObserveSynthesis(result, time.Since(start))
		span.End()
	}()

	ids, err := memories.ListMemoryIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no memories", types.ErrNoContent)
	}
	memoryID := ids[s.rng.IntN(len(ids))]
	span.SetAttributes(attribute.String("memory.id", memoryID))

	fragments, err := memories.Fragments(ctx, memoryID)
	if errors.Is(err, types.ErrNotFound) {
		// Memory vanished between listing and reading.
		return nil, fmt.Errorf("%w: memory %s disappeared", types.ErrNoContent, memoryID)
	}
	if err != nil {
		return nil, fmt.Errorf("read memory %s: %w", memoryID, err)
	}
	if len(fragments) == 0 {
		return nil, fmt.Errorf("%w: memory %s has no text", types.ErrNoContent, memoryID)
	}
	fragment := fragments[s.rng.IntN(len(fragments))]

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	raw, err := s.generator.Generate(genCtx, fragment)
	if err != nil {
		return nil, s.classify(ctx, genCtx, err)
	}
	q, err := normalizeGenerated(raw)
	if err != nil {
		return nil, err
	}

	item = &types.QuizItem{
		ID:            uuid.NewString(),
		SourceID:      memoryID,
		Context:       fragment,
		Question:      q.Question,
		CorrectAnswer: q.CorrectAnswer,
		Distractors:   q.Distractors,
		SuccessCount:  types.PriorSuccesses,
		FailureCount:  types.PriorFailures,
	}
	s.log.Debug("Synthesized quiz item", "id", item.ID, "source_id", memoryID)
	return item, nil
}

// classify maps any generator failure onto a GenerationError. A caller
// cancellation is returned untouched so sessions can stop early.
func (s *questionSynthesizer) classify(parent, genCtx context.Context, err error) error {
	if parentErr := parent.Err(); parentErr != nil {
		return parentErr
	}
	var genErr *types.GenerationError
	switch {
	case errors.As(err, &genErr):
		return err
	case errors.Is(err, openai.ErrMalformedOutput):
		return types.NewGenerationError(types.GenerationParse, err)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(genCtx.Err(), context.DeadlineExceeded):
		return types.NewGenerationError(types.GenerationTimeout, err)
	default:
		return types.NewGenerationError(types.GenerationUpstream, err)
	}
}
