package services

import (
	"context"

	"github.com/yungbote/memoquiz-backend/internal/data/repos/history"
	types "github.com/yungbote/memoquiz-backend/internal/domain"
	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
)

// QuizHistoryService keeps per-session scores and per-member recognition stats.
type QuizHistoryService interface {
	RecordResult(ctx context.Context, score, totalQuestions int) (*types.QuizResult, error)
	ListResults(ctx context.Context, limit int) ([]*types.QuizResult, error)
	RecordMemberAnswer(ctx context.Context, member string, correct bool) error
	MemberRanking(ctx context.Context, limit int) ([]*types.MemberStat, error)
}

type quizHistoryService struct {
	log     *logger.Logger
	results history.QuizResultRepo
	members history.MemberStatRepo
}

func NewQuizHistoryService(log *logger.Logger, results history.QuizResultRepo, members history.MemberStatRepo) QuizHistoryService {
	return &quizHistoryService{
		log:     log.With("service", "QuizHistoryService"),
		results: results,
		members: members,
	}
}

func (s *quizHistoryService) RecordResult(ctx context.Context, score, totalQuestions int) (*types.QuizResult, error) {
	res, err := s.results.Append(ctx, score, totalQuestions)
	if err != nil {
		return nil, err
	}
	s.log.Info("Recorded quiz result", "score", score, "total", totalQuestions)
	return res, nil
}

func (s *quizHistoryService) ListResults(ctx context.Context, limit int) ([]*types.QuizResult, error) {
	return s.results.ListRecent(ctx, limit)
}

func (s *quizHistoryService) RecordMemberAnswer(ctx context.Context, member string, correct bool) error {
	return s.members.Record(ctx, member, correct)
}

func (s *quizHistoryService) MemberRanking(ctx context.Context, limit int) ([]*types.MemberStat, error) {
	return s.members.Ranking(ctx, limit)
}
