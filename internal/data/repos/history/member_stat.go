package history

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/memoquiz-backend/internal/domain"
	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
)

// MemberStatRepo is the keyed-update sink for per-member recognition counts.
type MemberStatRepo interface {
	Record(ctx context.Context, name string, correct bool) error
	Ranking(ctx context.Context, limit int) ([]*types.MemberStat, error)
}

type memberStatRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMemberStatRepo(db *gorm.DB, baseLog *logger.Logger) MemberStatRepo {
	return &memberStatRepo{db: db, log: baseLog.With("repo", "MemberStatRepo")}
}

func (r *memberStatRepo) Record(ctx context.Context, name string, correct bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: member name required", types.ErrInvalidArgument)
	}
	row := &types.MemberStat{Name: name, UpdatedAt: time.Now().UTC()}
	column := "failures"
	if correct {
		row.Successes = 1
		column = "successes"
	} else {
		row.Failures = 1
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			column:       gorm.Expr(column + " + 1"),
			"updated_at": row.UpdatedAt,
		}),
	}).Create(row).Error
}

// Ranking orders members by failure ratio, worst recognized first.
func (r *memberStatRepo) Ranking(ctx context.Context, limit int) ([]*types.MemberStat, error) {
	out := []*types.MemberStat{}
	if err := r.db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].FailureRatio(), out[j].FailureRatio()
		if ri != rj {
			return ri > rj
		}
		if out[i].Failures != out[j].Failures {
			return out[i].Failures > out[j].Failures
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
