package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// QuizItemRecord is the relational row form of a QuizItem.
type QuizItemRecord struct {
	ID            string         `gorm:"column:id;type:varchar(64);primaryKey"`
	SourceID      string         `gorm:"column:source_id;not null;index"`
	Context       string         `gorm:"column:context;type:text;not null"`
	Question      string         `gorm:"column:question;type:text;not null"`
	CorrectAnswer string         `gorm:"column:correct_answer;type:text;not null"`
	Distractors   datatypes.JSON `gorm:"column:distractors;not null"`
	SuccessCount  int            `gorm:"column:success_count;not null"`
	FailureCount  int            `gorm:"column:failure_count;not null"`
	CreatedAt     time.Time      `gorm:"column:created_at;not null"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;not null"`
}

func (QuizItemRecord) TableName() string { return "quiz_item" }

func NewQuizItemRecord(item *QuizItem, now time.Time) (*QuizItemRecord, error) {
	distractors := item.Distractors
	if distractors == nil {
		distractors = []string{}
	}
	raw, err := json.Marshal(distractors)
	if err != nil {
		return nil, err
	}
	return &QuizItemRecord{
		ID:            item.ID,
		SourceID:      item.SourceID,
		Context:       item.Context,
		Question:      item.Question,
		CorrectAnswer: item.CorrectAnswer,
		Distractors:   datatypes.JSON(raw),
		SuccessCount:  item.SuccessCount,
		FailureCount:  item.FailureCount,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// QuizItem decodes the row; undecodable distractors or a broken counter floor
// are reported as ErrStorageCorrupt.
func (r *QuizItemRecord) QuizItem() (*QuizItem, error) {
	distractors := []string{}
	if len(r.Distractors) > 0 {
		if err := json.Unmarshal(r.Distractors, &distractors); err != nil {
			return nil, fmt.Errorf("%w: item %s distractors: %v", ErrStorageCorrupt, r.ID, err)
		}
	}
	item := &QuizItem{
		ID:            r.ID,
		SourceID:      r.SourceID,
		Context:       r.Context,
		Question:      r.Question,
		CorrectAnswer: r.CorrectAnswer,
		Distractors:   distractors,
		SuccessCount:  r.SuccessCount,
		FailureCount:  r.FailureCount,
	}
	if !item.Valid() {
		return nil, fmt.Errorf("%w: item %s has counters below the prior (success=%d failure=%d)",
			ErrStorageCorrupt, r.ID, r.SuccessCount, r.FailureCount)
	}
	return item, nil
}
