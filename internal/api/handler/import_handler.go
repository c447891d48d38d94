package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chrhansen/shred-day-sub001/internal/dto"
	"github.com/chrhansen/shred-day-sub001/internal/model"
	"github.com/chrhansen/shred-day-sub001/internal/service"
	"github.com/chrhansen/shred-day-sub001/pkg/response"
)

// ImportHandler 导入批次与草稿 HTTP 处理器
type ImportHandler struct {
	importSvc service.ImportService
	draftSvc  service.DraftDayService
}

// NewImportHandler 创建 ImportHandler
func NewImportHandler(importSvc service.ImportService, draftSvc service.DraftDayService) *ImportHandler {
	return &ImportHandler{importSvc: importSvc, draftSvc: draftSvc}
}

// importCreateResponse 建批响应：批次本体 + 逐行诊断
type importCreateResponse struct {
	Import      dto.ImportResponse       `json:"import"`
	Diagnostics []service.LineDiagnostic `json:"diagnostics,omitempty"`
}

// CreateText 文本导入建批
// POST /api/v1/imports/text
func (h *ImportHandler) CreateText(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTextImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	imp, diags, err := h.importSvc.CreateTextImport(c.Request.Context(), userID, req.Text, req.SeasonOffset)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImportEmptyText):
			response.BadRequest(c, 50004, "导入文本不能为空")
		case errors.Is(err, service.ErrImportTooManyRows):
			response.BadRequest(c, 50005, "导入文本超出行数上限")
		case errors.Is(err, service.ErrResortCatalogUnavailable):
			response.Error(c, http.StatusServiceUnavailable, 50013, "雪场目录不可用，请稍后重试")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 20001, "用户不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, importCreateResponse{
		Import:      dto.ToImportResponse(imp),
		Diagnostics: diags,
	})
}

// CreateCalendar ICS 日历导入建批。
// 请求体即日历原文（text/calendar），大小由路由层的 BodyLimit 约束。
// POST /api/v1/imports/calendar
func (h *ImportHandler) CreateCalendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	imp, diags, err := h.importSvc.CreateCalendarImport(c.Request.Context(), userID, c.Request.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrICSParse):
			response.BadRequest(c, 50006, "ICS 格式解析失败")
		case errors.Is(err, service.ErrResortCatalogUnavailable):
			response.Error(c, http.StatusServiceUnavailable, 50013, "雪场目录不可用，请稍后重试")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 20001, "用户不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, importCreateResponse{
		Import:      dto.ToImportResponse(imp),
		Diagnostics: diags,
	})
}

// CreatePhoto 建立空的照片批次
// POST /api/v1/imports/photo
func (h *ImportHandler) CreatePhoto(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	imp, err := h.importSvc.CreatePhotoImport(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 20001, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, dto.ToImportResponse(imp))
}

// AttachPhoto 向照片批次挂载一张照片
// POST /api/v1/imports/:id/photos
func (h *ImportHandler) AttachPhoto(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AttachPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	meta := service.PhotoMeta{
		FileKey:   req.FileKey,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if req.TakenAt != nil {
		takenAt, err := time.Parse(dto.DateLayout, *req.TakenAt)
		if err != nil {
			response.BadRequest(c, 50014, "拍摄日期格式非法，应为 YYYY-MM-DD")
			return
		}
		meta.TakenAt = &takenAt
	}

	photo, err := h.importSvc.AttachPhoto(c.Request.Context(), userID, c.Param("id"), meta)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImportKindPhoto):
			response.BadRequest(c, 50007, "仅照片批次允许挂载照片")
		default:
			h.writeImportError(c, err)
		}
		return
	}

	response.Created(c, dto.ToPhotoResponse(photo))
}

// Get 查询批次详情（含草稿与照片）
// GET /api/v1/imports/:id
func (h *ImportHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	imp, err := h.importSvc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeImportError(c, err)
		return
	}

	response.OK(c, dto.ToImportResponse(imp))
}

// List 分页列出批次（创建时间倒序，列表页不展开草稿）
// GET /api/v1/imports?page=1&page_size=20
func (h *ImportHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	imports, total, err := h.importSvc.List(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, dto.ToImportResponses(imports), total, page, pageSize)
}

// Commit 提交批次：按处置决定落库并对账
// POST /api/v1/imports/:id/commit
func (h *ImportHandler) Commit(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	summary, err := h.importSvc.Commit(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeImportError(c, err)
		return
	}

	response.OK(c, summary)
}

// Cancel 取消 waiting 状态的批次
// POST /api/v1/imports/:id/cancel
func (h *ImportHandler) Cancel(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.importSvc.Cancel(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeImportError(c, err)
		return
	}
	response.OK(c, nil)
}

// Delete 删除终态批次
// DELETE /api/v1/imports/:id
func (h *ImportHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.importSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeImportError(c, err)
		return
	}
	response.OK(c, nil)
}

// EditDraft 修改草稿的日期或雪场（同键草稿自动合并）
// PUT /api/v1/drafts/:id
func (h *ImportHandler) EditDraft(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.EditDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	var date *time.Time
	if req.Date != nil {
		parsed, err := time.Parse(dto.DateLayout, *req.Date)
		if err != nil {
			response.BadRequest(c, 40005, "日期格式非法，应为 YYYY-MM-DD")
			return
		}
		date = &parsed
	}

	draft, err := h.draftSvc.ApplyEdit(c.Request.Context(), userID, c.Param("id"), date, req.ResortID)
	if err != nil {
		h.writeDraftError(c, err)
		return
	}

	response.OK(c, dto.ToDraftDayResponse(draft))
}

// DecideDraft 设置草稿的处置决定
// PUT /api/v1/drafts/:id/decision
func (h *ImportHandler) DecideDraft(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.DecideDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	draft, err := h.draftSvc.Decide(c.Request.Context(), userID, c.Param("id"), model.Decision(req.Decision))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDecision):
			response.BadRequest(c, 50009, "非法的处置决定")
		case errors.Is(err, service.ErrMergeRequiresLinkedDay):
			response.BadRequest(c, 50010, "merge 决定要求草稿已关联正式记录")
		default:
			h.writeDraftError(c, err)
		}
		return
	}

	response.OK(c, dto.ToDraftDayResponse(draft))
}

// writeImportError 批次路径的公共错误映射
func (h *ImportHandler) writeImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrImportNotFound):
		response.NotFound(c, 50001, "导入批次不存在")
	case errors.Is(err, service.ErrImportForbidden):
		response.Forbidden(c, 50002, "无权操作该导入批次")
	case errors.Is(err, service.ErrImportNotWaiting):
		response.Conflict(c, 50003, "导入批次已离开 waiting 状态")
	case errors.Is(err, service.ErrImportNotTerminal):
		response.Conflict(c, 50012, "仅终态批次允许删除")
	default:
		response.InternalError(c)
	}
}

// writeDraftError 草稿路径的公共错误映射
func (h *ImportHandler) writeDraftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDraftNotFound):
		response.NotFound(c, 50008, "草稿不存在")
	case errors.Is(err, service.ErrDraftForbidden):
		response.Forbidden(c, 50002, "无权操作该草稿")
	case errors.Is(err, service.ErrImportNotEditable):
		response.Conflict(c, 50011, "导入批次已不可编辑")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/import_handler.go
