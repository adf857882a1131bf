package domain

import "strings"

// QuizItem is one generated multiple-choice question plus its outcome counters.
// SuccessCount and FailureCount start at 1 and only ever grow; together they are
// the Beta(success, failure) belief the selector samples from.
type QuizItem struct {
	ID            string   `json:"id" yaml:"id"`
	SourceID      string   `json:"source_id" yaml:"source_id"`
	Context       string   `json:"context" yaml:"context"`
	Question      string   `json:"question" yaml:"question"`
	CorrectAnswer string   `json:"correct_answer" yaml:"correct_answer"`
	Distractors   []string `json:"distractors" yaml:"distractors"`
	SuccessCount  int      `json:"success_count" yaml:"success_count"`
	FailureCount  int      `json:"failure_count" yaml:"failure_count"`
}

// Neutral prior assigned to every new item.
const (
	PriorSuccesses = 1
	PriorFailures  = 1
)

// Clone returns a deep copy so snapshot readers can't alias stored slices.
func (q *QuizItem) Clone() *QuizItem {
	if q == nil {
		return nil
	}
	out := *q
	if q.Distractors != nil {
		out.Distractors = append([]string(nil), q.Distractors...)
	}
	return &out
}

// Valid reports whether the counter floor holds.
func (q *QuizItem) Valid() bool {
	return q != nil && q.SuccessCount >= PriorSuccesses && q.FailureCount >= PriorFailures
}

// Attempts is the number of recorded answers, excluding the prior.
func (q *QuizItem) Attempts() int {
	if q == nil {
		return 0
	}
	return q.SuccessCount + q.FailureCount - PriorSuccesses - PriorFailures
}

// IsCorrectAnswer grades a free-form answer against the stored correct answer.
func (q *QuizItem) IsCorrectAnswer(answer string) bool {
	if q == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.CorrectAnswer))
}

// Pool is the full keyed collection of quiz items.
type Pool map[string]*QuizItem

// Clone deep-copies the pool.
func (p Pool) Clone() Pool {
	out := make(Pool, len(p))
	for id, item := range p {
		out[id] = item.Clone()
	}
	return out
}

type PoolStats struct {
	Size           int `json:"size" yaml:"size"`
	TotalSuccesses int `json:"total_successes" yaml:"total_successes"`
	TotalFailures  int `json:"total_failures" yaml:"total_failures"`
}

// Stats sums the observed outcomes, excluding priors.
func (p Pool) Stats() PoolStats {
	st := PoolStats{Size: len(p)}
	for _, item := range p {
		if item == nil {
			continue
		}
		st.TotalSuccesses += item.SuccessCount - PriorSuccesses
		st.TotalFailures += item.FailureCount - PriorFailures
	}
	return st
}
