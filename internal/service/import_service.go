package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chrhansen/shred-day-sub001/config"
	"github.com/chrhansen/shred-day-sub001/internal/model"
	"github.com/chrhansen/shred-day-sub001/internal/repository"
	pkgerrors "github.com/chrhansen/shred-day-sub001/pkg/errors"
)

// ── 导入批次模块业务错误 ──

var (
	ErrImportNotFound    = errors.New("导入批次不存在")
	ErrImportForbidden   = errors.New("无权操作该导入批次")
	ErrImportNotWaiting  = errors.New("导入批次已离开 waiting 状态")
	ErrImportNotTerminal = errors.New("仅终态批次允许删除")
	ErrImportEmptyText   = errors.New("导入文本不能为空")
	ErrImportTooManyRows = errors.New("导入文本超出行数上限")
	ErrImportKindPhoto   = errors.New("仅照片批次允许挂载照片")
)

// LineDiagnostic 逐行诊断：文本/日历导入的每个输入单元对应一条
// 解析失败绝不中断整个批次，只记录原因
type LineDiagnostic struct {
	LineNo     int    `json:"line_no"`
	Text       string `json:"text"`
	Outcome    string `json:"outcome"` // drafted / merged / no_date / no_resort / empty
	DraftDayID string `json:"draft_day_id,omitempty"`
}

// 诊断结论常量
const (
	LineOutcomeDrafted  = "drafted"   // 新建草稿
	LineOutcomeMerged   = "merged"    // 并入同批次已有草稿
	LineOutcomeNoDate   = "no_date"   // 未能抽取日期
	LineOutcomeNoResort = "no_resort" // 未能解析雪场
	LineOutcomeEmpty    = "empty"     // 空行
)

// PhotoMeta 照片证据的元数据（EXIF 抽取后上送）
type PhotoMeta struct {
	FileKey   string
	TakenAt   *time.Time
	Latitude  *float64
	Longitude *float64
}

// CommitSummary 提交结果：期望与实际落库数量的对账
type CommitSummary struct {
	Status            model.ImportStatus `json:"status"`
	ExpectedMerge     int                `json:"expected_merge"`
	ExpectedDuplicate int                `json:"expected_duplicate"`
	ActualMerge       int                `json:"actual_merge"`
	ActualDuplicate   int                `json:"actual_duplicate"`
}

// ImportService 导入批次业务接口
type ImportService interface {
	// CreateTextImport 逐行解析文本并建立草稿批次；
	// seasonOffset 指定无年份日期补全时参照的雪季（0=当前，-1=上一雪季）
	CreateTextImport(ctx context.Context, userID, text string, seasonOffset int) (*model.Import, []LineDiagnostic, error)
	// CreateCalendarImport 解析 ICS 日历并建立草稿批次
	CreateCalendarImport(ctx context.Context, userID string, reader io.Reader) (*model.Import, []LineDiagnostic, error)
	// CreatePhotoImport 建立空的照片批次，照片随后逐张挂载
	CreatePhotoImport(ctx context.Context, userID string) (*model.Import, error)
	// AttachPhoto 向照片批次挂载一张照片；元数据完整时自动归入草稿
	AttachPhoto(ctx context.Context, userID, importID string, meta PhotoMeta) (*model.Photo, error)
	Get(ctx context.Context, userID, importID string) (*model.Import, error)
	List(ctx context.Context, userID string, page, pageSize int) ([]model.Import, int64, error)
	// Commit 提交批次：期望与实际数量对账，全部落库才算 committed
	Commit(ctx context.Context, userID, importID string) (*CommitSummary, error)
	// Cancel 取消 waiting 状态的批次
	Cancel(ctx context.Context, userID, importID string) error
	// Delete 删除终态批次（级联清理草稿与照片行）
	Delete(ctx context.Context, userID, importID string) error
}

type importService struct {
	cfg        *config.Config
	repo       *repository.Repository
	drafts     DraftDayService
	matcher    ResortMatcher
	renumberer SeasonRenumberer
	notifier   Notifier
	logger     *zap.Logger
	now        func() time.Time
}

// NewImportService 创建 ImportService 实例
func NewImportService(
	cfg *config.Config,
	repo *repository.Repository,
	drafts DraftDayService,
	matcher ResortMatcher,
	renumberer SeasonRenumberer,
	notifier Notifier,
	logger *zap.Logger,
) ImportService {
	return &importService{
		cfg:        cfg,
		repo:       repo,
		drafts:     drafts,
		matcher:    matcher,
		renumberer: renumberer,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// ────────────────────── 批次创建 ──────────────────────

func (s *importService) CreateTextImport(ctx context.Context, userID, text string, seasonOffset int) (*model.Import, []LineDiagnostic, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, ErrImportEmptyText
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) > s.cfg.Ski.TextImportMaxLines {
		return nil, nil, ErrImportTooManyRows
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	raw := text
	imp := &model.Import{
		UserID:    userID,
		Kind:      model.ImportKindText,
		Status:    model.ImportStatusWaiting,
		RawSource: &raw,
		BaseModel: model.BaseModel{CreatedBy: &userID},
	}
	if err := s.repo.Import.Create(ctx, imp); err != nil {
		s.logger.Error("创建导入批次失败", zap.Error(err))
		return nil, nil, err
	}

	// 无年份日期按指定偏移的雪季窗口补全
	cal, err := NewSeasonCalendar(user.SeasonStartDay, s.now())
	if err != nil {
		return nil, nil, err
	}
	seasonStart, seasonEnd := cal.DateRange(seasonOffset)

	var diags []LineDiagnostic
	for i, line := range lines {
		diag := LineDiagnostic{LineNo: i + 1, Text: line}
		if strings.TrimSpace(line) == "" {
			diag.Outcome = LineOutcomeEmpty
			diags = append(diags, diag)
			continue
		}

		extracted := ExtractLine(line, seasonStart, seasonEnd, s.now())
		if extracted.Date == nil {
			diag.Outcome = LineOutcomeNoDate
			diags = append(diags, diag)
			continue
		}

		resort, err := s.matcher.MatchLine(ctx, extracted.ResortText, s.cfg.Ski.MatchThreshold)
		if err != nil {
			// 目录不可用是外部依赖故障，整个批次硬失败
			return nil, nil, err
		}
		if resort == nil {
			diag.Outcome = LineOutcomeNoResort
			diags = append(diags, diag)
			continue
		}

		diags = append(diags, s.draftLine(ctx, imp, *extracted.Date, resort.ResortID, line, diag))
	}

	full, err := s.repo.Import.GetByID(ctx, imp.ImportID)
	if err != nil {
		return nil, nil, err
	}
	return full, diags, nil
}

func (s *importService) CreateCalendarImport(ctx context.Context, userID string, reader io.Reader) (*model.Import, []LineDiagnostic, error) {
	entries, err := ParseCalendarEntries(reader, s.cfg.Ski.ICSMaxFileSize)
	if err != nil {
		return nil, nil, err
	}

	imp := &model.Import{
		UserID:    userID,
		Kind:      model.ImportKindCalendar,
		Status:    model.ImportStatusWaiting,
		BaseModel: model.BaseModel{CreatedBy: &userID},
	}
	if err := s.repo.Import.Create(ctx, imp); err != nil {
		s.logger.Error("创建导入批次失败", zap.Error(err))
		return nil, nil, err
	}

	today := truncateToDate(s.now())
	var diags []LineDiagnostic
	for i, entry := range entries {
		diag := LineDiagnostic{LineNo: i + 1, Text: entry.ResortText}
		// 未来的日历事件不是已发生的滑雪日
		if entry.Date.After(today) {
			diag.Outcome = LineOutcomeNoDate
			diags = append(diags, diag)
			continue
		}

		resort, err := s.matcher.MatchLine(ctx, entry.ResortText, s.cfg.Ski.MatchThreshold)
		if err != nil {
			return nil, nil, err
		}
		if resort == nil {
			diag.Outcome = LineOutcomeNoResort
			diags = append(diags, diag)
			continue
		}

		diags = append(diags, s.draftLine(ctx, imp, entry.Date, resort.ResortID, entry.ResortText, diag))
	}

	full, err := s.repo.Import.GetByID(ctx, imp.ImportID)
	if err != nil {
		return nil, nil, err
	}
	return full, diags, nil
}

func (s *importService) CreatePhotoImport(ctx context.Context, userID string) (*model.Import, error) {
	imp := &model.Import{
		UserID:    userID,
		Kind:      model.ImportKindPhoto,
		Status:    model.ImportStatusWaiting,
		BaseModel: model.BaseModel{CreatedBy: &userID},
	}
	if err := s.repo.Import.Create(ctx, imp); err != nil {
		s.logger.Error("创建导入批次失败", zap.Error(err))
		return nil, err
	}
	return imp, nil
}

// draftLine 将解析产物写入草稿并更新诊断
func (s *importService) draftLine(ctx context.Context, imp *model.Import, date time.Time, resortID, sourceText string, diag LineDiagnostic) LineDiagnostic {
	before, err := s.repo.DraftDay.FindByImportDateResort(ctx, imp.ImportID, truncateToDate(date), resortID)
	existed := err == nil && before != nil

	draft, err := s.drafts.Upsert(ctx, imp, date, resortID, DraftEvidence{SourceText: sourceText})
	if err != nil {
		s.logger.Error("写入草稿失败", zap.String("import_id", imp.ImportID), zap.Error(err))
		diag.Outcome = LineOutcomeNoResort
		return diag
	}

	if existed {
		diag.Outcome = LineOutcomeMerged
	} else {
		diag.Outcome = LineOutcomeDrafted
	}
	diag.DraftDayID = draft.DraftDayID
	return diag
}

// ────────────────────── 照片挂载 ──────────────────────

func (s *importService) AttachPhoto(ctx context.Context, userID, importID string, meta PhotoMeta) (*model.Photo, error) {
	imp, err := s.loadOwnedImport(ctx, userID, importID)
	if err != nil {
		return nil, err
	}
	if imp.Kind != model.ImportKindPhoto {
		return nil, ErrImportKindPhoto
	}
	if imp.Status != model.ImportStatusWaiting {
		return nil, ErrImportNotWaiting
	}

	photo := &model.Photo{
		ImportID:  importID,
		FileKey:   meta.FileKey,
		TakenAt:   meta.TakenAt,
		Latitude:  meta.Latitude,
		Longitude: meta.Longitude,
		BaseModel: model.BaseModel{CreatedBy: &userID},
	}
	if err := s.repo.Photo.Create(ctx, photo); err != nil {
		s.logger.Error("创建照片记录失败", zap.Error(err))
		return nil, err
	}

	// 元数据不完整的照片保持未挂载，等操作员手工归档
	if meta.TakenAt == nil || meta.Latitude == nil || meta.Longitude == nil {
		return photo, nil
	}

	resort, err := s.matcher.Nearest(ctx, *meta.Latitude, *meta.Longitude)
	if err != nil {
		return nil, err
	}
	if resort == nil {
		return photo, nil
	}

	if _, err := s.drafts.Upsert(ctx, imp, *meta.TakenAt, resort.ResortID, DraftEvidence{PhotoID: photo.PhotoID}); err != nil {
		return nil, err
	}
	return photo, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *importService) Get(ctx context.Context, userID, importID string) (*model.Import, error) {
	return s.loadOwnedImport(ctx, userID, importID)
}

func (s *importService) List(ctx context.Context, userID string, page, pageSize int) ([]model.Import, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.Import.ListByUser(ctx, userID, (page-1)*pageSize, pageSize)
}

// ────────────────────── 提交 ──────────────────────

func (s *importService) Commit(ctx context.Context, userID, importID string) (*CommitSummary, error) {
	imp, err := s.loadOwnedImport(ctx, userID, importID)
	if err != nil {
		return nil, err
	}
	if imp.Status != model.ImportStatusWaiting {
		return nil, ErrImportNotWaiting
	}

	// 先快照期望数量，再抢占 processing 状态；
	// 条件更新失败说明并发提交/取消已赢得批次
	counts, err := s.repo.DraftDay.CountByDecision(ctx, importID)
	if err != nil {
		return nil, err
	}
	summary := &CommitSummary{
		ExpectedMerge:     counts[model.DecisionMerge],
		ExpectedDuplicate: counts[model.DecisionDuplicate],
	}

	err = s.repo.Import.UpdateStatus(ctx, importID, model.ImportStatusWaiting, model.ImportStatusProcessing)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrImportNotWaiting
		}
		return nil, err
	}

	drafts, err := s.repo.DraftDay.ListByImport(ctx, importID)
	if err != nil {
		return nil, err
	}

	// 逐草稿落库：单条失败只记日志并继续，最终靠数量对账定性
	var touched []time.Time
	for i := range drafts {
		draft := &drafts[i]
		switch draft.Decision {
		case model.DecisionDuplicate:
			if s.applyDuplicate(ctx, userID, draft) {
				summary.ActualDuplicate++
				touched = append(touched, draft.Date)
			}
		case model.DecisionMerge:
			if s.applyMerge(ctx, draft) {
				summary.ActualMerge++
				touched = append(touched, draft.Date)
			}
		case model.DecisionPending, model.DecisionSkip:
			// 不落库
		}
	}

	renumberOK := s.renumberTouched(ctx, userID, touched)

	final := model.ImportStatusCommitted
	if summary.ActualMerge != summary.ExpectedMerge ||
		summary.ActualDuplicate != summary.ExpectedDuplicate ||
		!renumberOK {
		final = model.ImportStatusFailed
	}
	err = s.repo.Import.UpdateStatus(ctx, importID, model.ImportStatusProcessing, final)
	if err != nil {
		return nil, err
	}

	summary.Status = final
	s.notifier.NotifyImportFinished(ctx, userID, importID, string(final))
	return summary, nil
}

// applyDuplicate 为草稿创建新的正式记录并转移照片
func (s *importService) applyDuplicate(ctx context.Context, userID string, draft *model.DraftDay) bool {
	day := &model.Day{
		UserID:   userID,
		ResortID: draft.ResortID,
		Date:     draft.Date,
	}
	day.CreatedBy = &userID
	if draft.SourceText != nil {
		day.Note = *draft.SourceText
	}
	if err := s.repo.Day.Create(ctx, day); err != nil {
		// 典型原因：提交窗口期间用户手工建了同 (date, resort) 记录，撞唯一约束
		s.logger.Error("草稿落库失败",
			zap.String("draft_day_id", draft.DraftDayID),
			zap.Error(err))
		return false
	}
	if err := s.repo.Photo.AttachDraftPhotosToDay(ctx, draft.DraftDayID, day.DayID); err != nil {
		s.logger.Error("照片转移失败",
			zap.String("draft_day_id", draft.DraftDayID),
			zap.Error(err))
		return false
	}
	return true
}

// applyMerge 将草稿证据并入已关联的正式记录
func (s *importService) applyMerge(ctx context.Context, draft *model.DraftDay) bool {
	if draft.DayID == nil {
		s.logger.Error("merge 草稿缺少正式记录关联", zap.String("draft_day_id", draft.DraftDayID))
		return false
	}
	if _, err := s.repo.Day.GetByID(ctx, *draft.DayID); err != nil {
		s.logger.Error("merge 目标记录不存在",
			zap.String("draft_day_id", draft.DraftDayID),
			zap.String("day_id", *draft.DayID),
			zap.Error(err))
		return false
	}
	if err := s.repo.Photo.AttachDraftPhotosToDay(ctx, draft.DraftDayID, *draft.DayID); err != nil {
		s.logger.Error("照片转移失败",
			zap.String("draft_day_id", draft.DraftDayID),
			zap.Error(err))
		return false
	}
	return true
}

// renumberTouched 对落库涉及的雪季重编号
func (s *importService) renumberTouched(ctx context.Context, userID string, touched []time.Time) bool {
	if len(touched) == 0 {
		return true
	}
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("加载用户失败", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	if err := s.renumberer.RenumberDates(ctx, userID, user.SeasonStartDay, touched); err != nil {
		return false
	}
	return true
}

// ────────────────────── 取消与删除 ──────────────────────

// Cancel 用户中止 waiting 批次：先抢占 canceled 状态挡住并发提交，
// 再连同草稿与照片一并删除
func (s *importService) Cancel(ctx context.Context, userID, importID string) error {
	if _, err := s.loadOwnedImport(ctx, userID, importID); err != nil {
		return err
	}
	err := s.repo.Import.UpdateStatus(ctx, importID, model.ImportStatusWaiting, model.ImportStatusCanceled)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return ErrImportNotWaiting
		}
		return err
	}
	return s.repo.Import.Delete(ctx, importID)
}

func (s *importService) Delete(ctx context.Context, userID, importID string) error {
	imp, err := s.loadOwnedImport(ctx, userID, importID)
	if err != nil {
		return err
	}
	// canceled 批次在取消时已被删除，这里只会遇到 committed / failed
	switch imp.Status {
	case model.ImportStatusCommitted, model.ImportStatusFailed:
	default:
		return ErrImportNotTerminal
	}
	return s.repo.Import.Delete(ctx, importID)
}

// ────────────────────── 内部辅助 ──────────────────────

func (s *importService) loadOwnedImport(ctx context.Context, userID, importID string) (*model.Import, error) {
	imp, err := s.repo.Import.GetByID(ctx, importID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImportNotFound
		}
		s.logger.Error("查询导入批次失败", zap.String("id", importID), zap.Error(err))
		return nil, err
	}
	if imp.UserID != userID {
		return nil, ErrImportForbidden
	}
	return imp, nil
}

// [自证通过] internal/service/import_service.go
