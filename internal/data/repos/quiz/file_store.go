package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	types "github.com/yungbote/memoquiz-backend/internal/domain"
	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
)

// FileStore keeps the pool as one JSON object keyed by question id.
type FileStore struct {
	path string
	log  *logger.Logger
}

func NewFileStore(path string, baseLog *logger.Logger) *FileStore {
	return &FileStore{
		path: path,
		log:  baseLog.With("repo", "QuizFileStore", "path", path),
	}
}

func (s *FileStore) Path() string { return s.path }

// fileRecord accepts both the current field names and the legacy ones
// (question_id, memory_id, bad_answer, success, failure).
type fileRecord struct {
	ID            string   `json:"id"`
	SourceID      string   `json:"source_id"`
	Context       string   `json:"context"`
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correct_answer"`
	Distractors   []string `json:"distractors"`
	SuccessCount  *int     `json:"success_count"`
	FailureCount  *int     `json:"failure_count"`

	LegacyQuestionID string   `json:"question_id"`
	LegacyMemoryID   string   `json:"memory_id"`
	LegacyBadAnswers []string `json:"bad_answer"`
	LegacySuccess    *int     `json:"success"`
	LegacyFailure    *int     `json:"failure"`
}

func (r *fileRecord) item(key string) (*types.QuizItem, error) {
	item := &types.QuizItem{
		ID:            key,
		SourceID:      r.SourceID,
		Context:       r.Context,
		Question:      r.Question,
		CorrectAnswer: r.CorrectAnswer,
		Distractors:   r.Distractors,
		SuccessCount:  types.PriorSuccesses,
		FailureCount:  types.PriorFailures,
	}
	if item.SourceID == "" {
		item.SourceID = r.LegacyMemoryID
	}
	if item.Distractors == nil {
		item.Distractors = r.LegacyBadAnswers
	}
	if item.Distractors == nil {
		item.Distractors = []string{}
	}

	switch {
	case r.SuccessCount != nil:
		item.SuccessCount = *r.SuccessCount
	case r.LegacySuccess != nil && *r.LegacySuccess > types.PriorSuccesses:
		item.SuccessCount = *r.LegacySuccess
	}
	switch {
	case r.FailureCount != nil:
		item.FailureCount = *r.FailureCount
	case r.LegacyFailure != nil && *r.LegacyFailure > types.PriorFailures:
		item.FailureCount = *r.LegacyFailure
	}
	if !item.Valid() {
		return nil, fmt.Errorf("%w: item %s has counters below the prior (success=%d failure=%d)",
			types.ErrStorageCorrupt, key, item.SuccessCount, item.FailureCount)
	}
	return item, nil
}

func (s *FileStore) LoadAll(ctx context.Context) (types.Pool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return types.Pool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read quiz pool: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return types.Pool{}, nil
	}

	var records map[string]*fileRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrStorageCorrupt, s.path, err)
	}
	pool := make(types.Pool, len(records))
	for key, rec := range records {
		if rec == nil {
			return nil, fmt.Errorf("%w: %s: null record for %s", types.ErrStorageCorrupt, s.path, key)
		}
		item, err := rec.item(key)
		if err != nil {
			return nil, err
		}
		pool[key] = item
	}
	return pool, nil
}

// SaveAll writes to a temp file in the same directory and renames it over the
// pool, so readers only ever see a complete document.
func (s *FileStore) SaveAll(ctx context.Context, pool types.Pool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := encodePool(pool)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create pool dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp pool file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp pool file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp pool file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp pool file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp pool file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("replace pool file: %w", err)
	}
	s.log.Debug("Quiz pool saved", "items", len(pool))
	return nil
}

func (s *FileStore) Upsert(ctx context.Context, item *types.QuizItem) error {
	if item == nil || item.ID == "" {
		return fmt.Errorf("%w: quiz item id required", types.ErrInvalidArgument)
	}
	pool, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}
	pool[item.ID] = item.Clone()
	return s.SaveAll(ctx, pool)
}

// encodePool is deterministic: map keys are sorted by encoding/json.
func encodePool(pool types.Pool) ([]byte, error) {
	out := make(map[string]*types.QuizItem, len(pool))
	for id, item := range pool {
		if item == nil {
			continue
		}
		cp := item.Clone()
		cp.ID = id
		if cp.Distractors == nil {
			cp.Distractors = []string{}
		}
		out[id] = cp
	}
	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode quiz pool: %w", err)
	}
	return append(raw, '\n'), nil
}
