package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuizResult is one finished session as reported by the client.
type QuizResult struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Score          int       `gorm:"column:score;not null" json:"score"`
	TotalQuestions int       `gorm:"column:total_questions;not null" json:"total_questions"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
}

func (QuizResult) TableName() string { return "quiz_result" }

// MemberStat counts how often a family member was recognized in answers.
type MemberStat struct {
	Name      string    `gorm:"column:name;primaryKey" json:"name"`
	Successes int       `gorm:"column:successes;not null" json:"successes"`
	Failures  int       `gorm:"column:failures;not null" json:"failures"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (MemberStat) TableName() string { return "member_stat" }

func (m *MemberStat) Total() int {
	if m == nil {
		return 0
	}
	return m.Successes + m.Failures
}

// FailureRatio is 0 for members with no answers.
func (m *MemberStat) FailureRatio() float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	return float64(m.Failures) / float64(total)
}
