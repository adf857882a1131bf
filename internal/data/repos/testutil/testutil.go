package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	types "github.com/yungbote/memoquiz-backend/internal/domain"
	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	return logger.NewNop()
}

// DB opens a fresh migrated SQLite database under tb.TempDir().
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.QuizItemRecord{}, &types.QuizResult{}, &types.MemberStat{}); err != nil {
		tb.Fatalf("automigrate: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewItem returns a valid quiz item with the neutral prior.
func NewItem(sourceID string, n int) *types.QuizItem {
	return &types.QuizItem{
		ID:            uuid.NewString(),
		SourceID:      sourceID,
		Context:       fmt.Sprintf("context %d", n),
		Question:      fmt.Sprintf("question %d?", n),
		CorrectAnswer: fmt.Sprintf("answer %d", n),
		Distractors:   []string{"wrong a", "wrong b", "wrong c"},
		SuccessCount:  types.PriorSuccesses,
		FailureCount:  types.PriorFailures,
	}
}
