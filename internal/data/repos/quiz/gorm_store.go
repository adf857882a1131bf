package quiz

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/memoquiz-backend/internal/domain"
	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
)

// GormStore keeps the pool in the quiz_item table (SQLite or Postgres).
type GormStore struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func NewGormStore(db *gorm.DB, baseLog *logger.Logger) *GormStore {
	return &GormStore{
		db:  db,
		log: baseLog.With("repo", "QuizGormStore"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

var upsertColumns = []string{
	"source_id", "context", "question", "correct_answer", "distractors",
	"success_count", "failure_count", "updated_at",
}

func (s *GormStore) LoadAll(ctx context.Context) (types.Pool, error) {
	var rows []*types.QuizItemRecord
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load quiz pool: %w", err)
	}
	pool := make(types.Pool, len(rows))
	for _, row := range rows {
		item, err := row.QuizItem()
		if err != nil {
			return nil, err
		}
		pool[item.ID] = item
	}
	return pool, nil
}

// SaveAll upserts every item and removes rows absent from pool, in one transaction.
func (s *GormStore) SaveAll(ctx context.Context, pool types.Pool) error {
	now := s.now()
	rows := make([]*types.QuizItemRecord, 0, len(pool))
	ids := make([]string, 0, len(pool))
	for id, item := range pool {
		if item == nil {
			continue
		}
		cp := item.Clone()
		cp.ID = id
		row, err := types.NewQuizItemRecord(cp, now)
		if err != nil {
			return fmt.Errorf("encode quiz item %s: %w", id, err)
		}
		rows = append(rows, row)
		ids = append(ids, id)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(rows) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns(upsertColumns),
			}).CreateInBatches(rows, 200).Error; err != nil {
				return fmt.Errorf("upsert quiz pool: %w", err)
			}
			if err := tx.Where("id NOT IN ?", ids).Delete(&types.QuizItemRecord{}).Error; err != nil {
				return fmt.Errorf("prune quiz pool: %w", err)
			}
			return nil
		}
		if err := tx.Where("1 = 1").Delete(&types.QuizItemRecord{}).Error; err != nil {
			return fmt.Errorf("clear quiz pool: %w", err)
		}
		return nil
	})
}

func (s *GormStore) Upsert(ctx context.Context, item *types.QuizItem) error {
	if item == nil || item.ID == "" {
		return fmt.Errorf("%w: quiz item id required", types.ErrInvalidArgument)
	}
	row, err := types.NewQuizItemRecord(item, s.now())
	if err != nil {
		return fmt.Errorf("encode quiz item %s: %w", item.ID, err)
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(row).Error; err != nil {
		return fmt.Errorf("upsert quiz item %s: %w", item.ID, err)
	}
	return nil
}
