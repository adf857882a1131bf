package services

import (
	"context"
	"fmt"
	"strings"

	types "github.com/yungbote/memoquiz-backend/internal/domain"
	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
	"github.com/yungbote/memoquiz-backend/internal/platform/openai"
)

// GeneratedQuestion is the raw oracle output before it becomes a QuizItem.
type GeneratedQuestion struct {
	Question      string
	CorrectAnswer string
	Distractors   []string
}

// QuestionGenerator turns a context fragment into one multiple-choice question.
type QuestionGenerator interface {
	Generate(ctx context.Context, contextText string) (*GeneratedQuestion, error)
}

type llmQuestionGenerator struct {
	log         *logger.Logger
	client      openai.Client
	distractors int
}

func NewLLMQuestionGenerator(log *logger.Logger, client openai.Client, distractors int) QuestionGenerator {
	if distractors <= 0 {
		distractors = 3
	}
	return &llmQuestionGenerator{
		log:         log.With("service", "LLMQuestionGenerator"),
		client:      client,
		distractors: distractors,
	}
}

const questionSystemPrompt = `You write multiple-choice quiz questions that help someone recall their own memories.
Use only facts stated in the provided context. Do not invent details.
Return a short question, the single correct answer, and plausible but wrong answers.
Wrong answers must be clearly different from the correct answer.`

func questionSchema(distractors int) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question":       map[string]any{"type": "string"},
			"correct_answer": map[string]any{"type": "string"},
			"bad_answers": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 1,
				"maxItems": distractors,
			},
		},
		"required":             []string{"question", "correct_answer", "bad_answers"},
		"additionalProperties": false,
	}
}

func (g *llmQuestionGenerator) Generate(ctx context.Context, contextText string) (*GeneratedQuestion, error) {
	user := fmt.Sprintf(
		"Generate a multiple-choice question with %d options (1 correct, %d wrong) based on this context:\n\n%s",
		g.distractors+1, g.distractors, strings.TrimSpace(contextText),
	)
	obj, err := g.client.GenerateJSON(ctx, questionSystemPrompt, user, "quiz_question", questionSchema(g.distractors))
	if err != nil {
		return nil, err
	}
	return parseGeneratedQuestion(obj)
}

func parseGeneratedQuestion(obj map[string]any) (*GeneratedQuestion, error) {
	question, ok := obj["question"].(string)
	if !ok {
		return nil, types.NewGenerationError(types.GenerationParse, fmt.Errorf("missing question"))
	}
	answer, ok := obj["correct_answer"].(string)
	if !ok {
		return nil, types.NewGenerationError(types.GenerationParse, fmt.Errorf("missing correct_answer"))
	}
	raw, ok := obj["bad_answers"].([]any)
	if !ok {
		return nil, types.NewGenerationError(types.GenerationParse, fmt.Errorf("missing bad_answers"))
	}
	out := &GeneratedQuestion{Question: question, CorrectAnswer: answer}
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, types.NewGenerationError(types.GenerationParse, fmt.Errorf("bad_answers must be strings"))
		}
		out.Distractors = append(out.Distractors, s)
	}
	return out, nil
}

// normalizeGenerated trims fields, drops blank or duplicate distractors and any
// that restate the correct answer, and rejects questions that are left unusable.
func normalizeGenerated(q *GeneratedQuestion) (*GeneratedQuestion, error) {
	if q == nil {
		return nil, types.NewGenerationError(types.GenerationInvalid, fmt.Errorf("empty generator output"))
	}
	out := &GeneratedQuestion{
		Question:      strings.TrimSpace(q.Question),
		CorrectAnswer: strings.TrimSpace(q.CorrectAnswer),
	}
	if out.Question == "" || out.CorrectAnswer == "" {
		return nil, types.NewGenerationError(types.GenerationInvalid, fmt.Errorf("question and correct answer are required"))
	}
	seen := map[string]struct{}{strings.ToLower(out.CorrectAnswer): {}}
	for _, d := range q.Distractors {
		d = strings.TrimSpace(d)
		key := strings.ToLower(d)
		if d == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Distractors = append(out.Distractors, d)
	}
	if len(out.Distractors) == 0 {
		return nil, types.NewGenerationError(types.GenerationInvalid, fmt.Errorf("no usable distractors"))
	}
	return out, nil
}

type unavailableGenerator struct {
	reason string
}

// NewUnavailableGenerator fails every call, so sessions still serve stored
// questions while no oracle is configured.
func NewUnavailableGenerator(reason string) QuestionGenerator {
	return unavailableGenerator{reason: reason}
}

func (g unavailableGenerator) Generate(ctx context.Context, contextText string) (*GeneratedQuestion, error) {
	return nil, types.NewGenerationError(types.GenerationUpstream, fmt.Errorf("%s", g.reason))
}
