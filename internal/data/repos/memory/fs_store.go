package memory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	types "github.com/yungbote/memoquiz-backend/internal/domain"
	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
)

const fragmentPattern = "texts/**/*.txt"

// FSStore reads memories laid out as <root>/<memory_id>/texts/*.txt.
type FSStore struct {
	root string
	log  *logger.Logger
}

func NewFSStore(root string, baseLog *logger.Logger) *FSStore {
	return &FSStore{root: root, log: baseLog.With("repo", "MemoryFSStore", "root", root)}
}

func (s *FSStore) ListMemoryIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ids = append(ids, e.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

// Fragments returns the non-empty text files of one memory, ordered by path.
func (s *FSStore) Fragments(ctx context.Context, memoryID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if memoryID == "" || memoryID != filepath.Base(memoryID) || strings.HasPrefix(memoryID, ".") {
		return nil, fmt.Errorf("%w: memory %q", types.ErrNotFound, memoryID)
	}
	dir := filepath.Join(s.root, memoryID)
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return nil, fmt.Errorf("%w: memory %q", types.ErrNotFound, memoryID)
	}
	if err != nil {
		return nil, fmt.Errorf("stat memory %q: %w", memoryID, err)
	}

	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, fragmentPattern)
	if err != nil {
		return nil, fmt.Errorf("glob memory %q: %w", memoryID, err)
	}
	sort.Strings(matches)

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		raw, err := fs.ReadFile(fsys, m)
		if err != nil {
			s.log.Warn("Skipping unreadable memory fragment", "memory_id", memoryID, "file", m, "error", err)
			continue
		}
		text := strings.TrimSpace(string(raw))
		if text == "" {
			continue
		}
		out = append(out, text)
	}
	return out, nil
}
