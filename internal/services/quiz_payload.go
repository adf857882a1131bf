package services

import (
	"math/rand/v2"

	types "github.com/yungbote/memoquiz-backend/internal/domain"
)

// QuestionPayload is what a client sees. The correct answer is never included.
type QuestionPayload struct {
	ID       string   `json:"id"`
	SourceID string   `json:"source_id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// NewQuestionPayloads renders items in order, shuffling each item's options.
func NewQuestionPayloads(items []*types.QuizItem, src rand.Source) []QuestionPayload {
	if src == nil {
		src = NewRandSource(0)
	}
	rng := rand.New(src)
	out := make([]QuestionPayload, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		options := make([]string, 0, len(item.Distractors)+1)
		options = append(options, item.CorrectAnswer)
		options = append(options, item.Distractors...)
		rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
		out = append(out, QuestionPayload{
			ID:       item.ID,
			SourceID: item.SourceID,
			Question: item.Question,
			Options:  options,
		})
	}
	return out
}
