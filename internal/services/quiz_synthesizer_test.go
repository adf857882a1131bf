package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/memoquiz-backend/internal/data/repos/testutil"
	types "github.com/yungbote/memoquiz-backend/internal/domain"
	"github.com/yungbote/memoquiz-backend/internal/platform/openai"
)

type stubGenerator struct {
	out *GeneratedQuestion
	err error
}

func (g stubGenerator) Generate(ctx context.Context, contextText string) (*GeneratedQuestion, error) {
	return g.out, g.err
}

func newSynth(t *testing.T, gen QuestionGenerator, timeout time.Duration) QuestionSynthesizer {
	return NewQuestionSynthesizer(testutil.Logger(t), gen, NewRandSource(3), timeout, nil)
}

func TestSynthesizeBuildsFreshItem(t *testing.T) {
	mem := twoMemories()
	item, err := newSynth(t, &fakeGenerator{}, time.Second).Synthesize(context.Background(), mem)
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Contains(t, mem.fragments, item.SourceID)
	assert.Contains(t, mem.fragments[item.SourceID], item.Context)
	assert.NotEmpty(t, item.Question)
	assert.NotEmpty(t, item.CorrectAnswer)
	assert.Len(t, item.Distractors, 3)
	assert.Equal(t, types.PriorSuccesses, item.SuccessCount)
	assert.Equal(t, types.PriorFailures, item.FailureCount)
}

func TestSynthesizeNoContent(t *testing.T) {
	synth := newSynth(t, &fakeGenerator{}, time.Second)

	_, err := synth.Synthesize(context.Background(), &fakeMemories{fragments: map[string][]string{}})
	assert.ErrorIs(t, err, types.ErrNoContent)

	_, err = synth.Synthesize(context.Background(), &fakeMemories{fragments: map[string][]string{"empty": nil}})
	assert.ErrorIs(t, err, types.ErrNoContent)
}

func TestSynthesizeClassifiesGeneratorFailures(t *testing.T) {
	cases := []struct {
		name   string
		gen    QuestionGenerator
		reason string
	}{
		{"upstream", &fakeGenerator{failAll: true}, types.GenerationUpstream},
		{"timeout", &fakeGenerator{block: true}, types.GenerationTimeout},
		{"malformed", stubGenerator{err: openai.ErrMalformedOutput}, types.GenerationParse},
		{"blank question", stubGenerator{out: &GeneratedQuestion{CorrectAnswer: "x", Distractors: []string{"y"}}}, types.GenerationInvalid},
		{"distractor equals answer", stubGenerator{out: &GeneratedQuestion{Question: "q", CorrectAnswer: "Paris", Distractors: []string{" paris "}}}, types.GenerationInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newSynth(t, tc.gen, 20*time.Millisecond).Synthesize(context.Background(), twoMemories())
			require.ErrorIs(t, err, types.ErrGeneration)
			var genErr *types.GenerationError
			require.True(t, errors.As(err, &genErr))
			assert.Equal(t, tc.reason, genErr.Reason)
		})
	}
}

func TestSynthesizeReturnsCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newSynth(t, &fakeGenerator{block: true}, time.Second).Synthesize(ctx, twoMemories())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeGeneratedDedupesDistractors(t *testing.T) {
	q, err := normalizeGenerated(&GeneratedQuestion{
		Question:      "  Who sang? ",
		CorrectAnswer: "Ana",
		Distractors:   []string{"Bo", "bo", "", "ANA", "Cy"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Who sang?", q.Question)
	assert.Equal(t, []string{"Bo", "Cy"}, q.Distractors)
}

func TestParseGeneratedQuestion(t *testing.T) {
	q, err := parseGeneratedQuestion(map[string]any{
		"question":       "Where?",
		"correct_answer": "Lisbon",
		"bad_answers":    []any{"Porto", "Faro"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Porto", "Faro"}, q.Distractors)

	_, err = parseGeneratedQuestion(map[string]any{"question": "Where?"})
	require.ErrorIs(t, err, types.ErrGeneration)
}
