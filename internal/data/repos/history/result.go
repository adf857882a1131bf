package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/memoquiz-backend/internal/domain"
	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
)

// QuizResultRepo is the append-only session result sink.
type QuizResultRepo interface {
	Append(ctx context.Context, score, totalQuestions int) (*types.QuizResult, error)
	ListRecent(ctx context.Context, limit int) ([]*types.QuizResult, error)
}

type quizResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizResultRepo(db *gorm.DB, baseLog *logger.Logger) QuizResultRepo {
	return &quizResultRepo{db: db, log: baseLog.With("repo", "QuizResultRepo")}
}

func (r *quizResultRepo) Append(ctx context.Context, score, totalQuestions int) (*types.QuizResult, error) {
	if totalQuestions < 0 || score < 0 || score > totalQuestions {
		return nil, fmt.Errorf("%w: score %d out of %d", types.ErrInvalidArgument, score, totalQuestions)
	}
	row := &types.QuizResult{
		ID:             uuid.New(),
		Score:          score,
		TotalQuestions: totalQuestions,
		CreatedAt:      time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *quizResultRepo) ListRecent(ctx context.Context, limit int) ([]*types.QuizResult, error) {
	out := []*types.QuizResult{}
	if limit <= 0 {
		return out, nil
	}
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
