package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/memoquiz-backend/internal/data/repos/history"
	"github.com/yungbote/memoquiz-backend/internal/data/repos/memory"
	"github.com/yungbote/memoquiz-backend/internal/data/repos/quiz"
	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
)

type Repos struct {
	QuizStore   quiz.Store
	QuizPool    *quiz.Pool
	Memories    *memory.FSStore
	QuizResult  history.QuizResultRepo
	MemberStats history.MemberStatRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients) Repos {
	log.Info("Wiring repos...")

	var store quiz.Store
	if cfg.QuizStore == StoreFile {
		store = quiz.NewFileStore(cfg.QuizPoolPath, log)
	} else {
		store = quiz.NewGormStore(db, log)
	}
	var locker quiz.Locker
	if clients.PoolLock != nil {
		locker = clients.PoolLock
	}

	return Repos{
		QuizStore:   store,
		QuizPool:    quiz.NewPool(store, locker, log),
		Memories:    memory.NewFSStore(cfg.MemoriesDir, log),
		QuizResult:  history.NewQuizResultRepo(db, log),
		MemberStats: history.NewMemberStatRepo(db, log),
	}
}
