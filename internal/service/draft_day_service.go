package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chrhansen/shred-day-sub001/internal/model"
	"github.com/chrhansen/shred-day-sub001/internal/repository"
)

// ── 草稿日模块业务错误 ──

var (
	ErrDraftNotFound          = errors.New("草稿不存在")
	ErrDraftForbidden         = errors.New("无权操作该草稿")
	ErrImportNotEditable      = errors.New("导入批次已不可编辑")
	ErrInvalidDecision        = errors.New("非法的处置决定")
	ErrMergeRequiresLinkedDay = errors.New("merge 决定要求草稿已关联正式记录")
)

// DraftEvidence 草稿证据：来源文本行或照片，二者其一
type DraftEvidence struct {
	SourceText string
	PhotoID    string
}

// DraftDayService 草稿滑雪日业务接口
type DraftDayService interface {
	// Upsert 创建或合并草稿：同批次内 (date, resort) 冲突走合并路径，
	// 新建草稿按正式记录探测结果自动定为 merge 或 duplicate
	Upsert(ctx context.Context, imp *model.Import, day time.Time, resortID string, evidence DraftEvidence) (*model.DraftDay, error)
	// ApplyEdit 修改日期/雪场；可能合并进同键兄弟草稿并返回另一行
	ApplyEdit(ctx context.Context, userID, draftID string, newDate *time.Time, newResortID *string) (*model.DraftDay, error)
	// Decide 显式设置处置决定
	Decide(ctx context.Context, userID, draftID string, decision model.Decision) (*model.DraftDay, error)
}

type draftDayService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDraftDayService 创建 DraftDayService 实例
func NewDraftDayService(repo *repository.Repository, logger *zap.Logger) DraftDayService {
	return &draftDayService{repo: repo, logger: logger}
}

// ────────────────────── Upsert ──────────────────────

func (s *draftDayService) Upsert(ctx context.Context, imp *model.Import, day time.Time, resortID string, evidence DraftEvidence) (*model.DraftDay, error) {
	day = truncateToDate(day)

	// 1. 同批次内去重探测
	existing, err := s.repo.DraftDay.FindByImportDateResort(ctx, imp.ImportID, day, resortID)
	if err == nil {
		return s.attachEvidence(ctx, existing, evidence)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询草稿失败", zap.Error(err))
		return nil, err
	}

	// 2. 新建草稿：探测正式记录决定初始处置
	draft := &model.DraftDay{
		ImportID: imp.ImportID,
		Date:     day,
		ResortID: resortID,
	}
	if evidence.SourceText != "" {
		text := evidence.SourceText
		draft.SourceText = &text
	}

	if err := s.probeCanonicalDay(ctx, imp.UserID, draft); err != nil {
		return nil, err
	}

	if err := s.repo.DraftDay.Create(ctx, draft); err != nil {
		s.logger.Error("创建草稿失败", zap.Error(err))
		return nil, err
	}

	if evidence.PhotoID != "" {
		if err := s.repo.Photo.AssignDraft(ctx, evidence.PhotoID, draft.DraftDayID); err != nil {
			s.logger.Error("挂载照片失败", zap.String("photo_id", evidence.PhotoID), zap.Error(err))
			return nil, err
		}
	}

	return draft, nil
}

// probeCanonicalDay 探测同 (user, date, resort) 的正式记录并设定处置
// 命中 → merge 并关联；未命中 → duplicate
func (s *draftDayService) probeCanonicalDay(ctx context.Context, userID string, draft *model.DraftDay) error {
	existingDay, err := s.repo.Day.GetByUserDateResort(ctx, userID, draft.Date, draft.ResortID)
	if err == nil {
		draft.Decision = model.DecisionMerge
		draft.DayID = &existingDay.DayID
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		draft.Decision = model.DecisionDuplicate
		draft.DayID = nil
		return nil
	}
	s.logger.Error("探测正式记录失败", zap.Error(err))
	return err
}

// attachEvidence 向已有草稿追加证据，不改变其处置
func (s *draftDayService) attachEvidence(ctx context.Context, draft *model.DraftDay, evidence DraftEvidence) (*model.DraftDay, error) {
	if evidence.PhotoID != "" {
		if err := s.repo.Photo.AssignDraft(ctx, evidence.PhotoID, draft.DraftDayID); err != nil {
			s.logger.Error("挂载照片失败", zap.String("photo_id", evidence.PhotoID), zap.Error(err))
			return nil, err
		}
	}
	if evidence.SourceText != "" {
		merged := mergeSourceText(draft.SourceText, evidence.SourceText)
		if draft.SourceText == nil || *draft.SourceText != *merged {
			draft.SourceText = merged
			if err := s.repo.DraftDay.Update(ctx, draft); err != nil {
				s.logger.Error("更新草稿来源文本失败", zap.Error(err))
				return nil, err
			}
		}
	}
	return draft, nil
}

// ────────────────────── ApplyEdit ──────────────────────

func (s *draftDayService) ApplyEdit(ctx context.Context, userID, draftID string, newDate *time.Time, newResortID *string) (*model.DraftDay, error) {
	draft, imp, err := s.loadOwnedDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}

	targetDate := draft.Date
	if newDate != nil {
		targetDate = truncateToDate(*newDate)
	}
	targetResort := draft.ResortID
	if newResortID != nil {
		targetResort = *newResortID
	}

	// 键未变化时无需去重探测
	if targetDate.Equal(draft.Date) && targetResort == draft.ResortID {
		return draft, nil
	}

	// 1. 兄弟草稿探测：存在同键行 → 迁移证据并删除本行
	sibling, err := s.repo.DraftDay.FindByImportDateResort(ctx, imp.ImportID, targetDate, targetResort)
	if err == nil && sibling.DraftDayID != draft.DraftDayID {
		return s.mergeIntoSibling(ctx, draft, sibling)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询兄弟草稿失败", zap.Error(err))
		return nil, err
	}

	// 2. 原地修改并重新探测正式记录
	draft.Date = targetDate
	draft.ResortID = targetResort
	if err := s.probeCanonicalDay(ctx, imp.UserID, draft); err != nil {
		return nil, err
	}
	if err := s.repo.DraftDay.Update(ctx, draft); err != nil {
		s.logger.Error("更新草稿失败", zap.Error(err))
		return nil, err
	}
	return draft, nil
}

// mergeIntoSibling 将被编辑草稿的全部证据并入兄弟草稿并删除本行
func (s *draftDayService) mergeIntoSibling(ctx context.Context, draft, sibling *model.DraftDay) (*model.DraftDay, error) {
	if err := s.repo.Photo.MoveDraftPhotos(ctx, draft.DraftDayID, sibling.DraftDayID); err != nil {
		s.logger.Error("迁移草稿照片失败", zap.Error(err))
		return nil, err
	}

	if draft.SourceText != nil && *draft.SourceText != "" {
		sibling.SourceText = mergeSourceText(sibling.SourceText, *draft.SourceText)
		if err := s.repo.DraftDay.Update(ctx, sibling); err != nil {
			s.logger.Error("更新兄弟草稿失败", zap.Error(err))
			return nil, err
		}
	}

	if err := s.repo.DraftDay.Delete(ctx, draft.DraftDayID); err != nil {
		s.logger.Error("删除被合并草稿失败", zap.Error(err))
		return nil, err
	}

	return s.repo.DraftDay.GetByID(ctx, sibling.DraftDayID)
}

// ────────────────────── Decide ──────────────────────

func (s *draftDayService) Decide(ctx context.Context, userID, draftID string, decision model.Decision) (*model.DraftDay, error) {
	draft, _, err := s.loadOwnedDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}

	if !decision.IsValid() {
		return nil, ErrInvalidDecision
	}
	// merge 要求已关联正式记录，其余转移无条件
	if decision == model.DecisionMerge && draft.DayID == nil {
		return nil, ErrMergeRequiresLinkedDay
	}

	draft.Decision = decision
	if err := s.repo.DraftDay.Update(ctx, draft); err != nil {
		s.logger.Error("更新草稿处置失败", zap.Error(err))
		return nil, err
	}
	return draft, nil
}

// ────────────────────── 内部辅助 ──────────────────────

// loadOwnedDraft 加载草稿并校验归属与批次可编辑性
func (s *draftDayService) loadOwnedDraft(ctx context.Context, userID, draftID string) (*model.DraftDay, *model.Import, error) {
	draft, err := s.repo.DraftDay.GetByID(ctx, draftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrDraftNotFound
		}
		s.logger.Error("查询草稿失败", zap.String("id", draftID), zap.Error(err))
		return nil, nil, err
	}

	imp, err := s.repo.Import.GetByID(ctx, draft.ImportID)
	if err != nil {
		s.logger.Error("查询导入批次失败", zap.String("id", draft.ImportID), zap.Error(err))
		return nil, nil, err
	}
	if imp.UserID != userID {
		return nil, nil, ErrDraftForbidden
	}
	if imp.Status != model.ImportStatusWaiting {
		return nil, nil, ErrImportNotEditable
	}
	return draft, imp, nil
}

// mergeSourceText 换行拼接来源文本并按行去重（保持原有顺序）
func mergeSourceText(existing *string, incoming string) *string {
	var lines []string
	if existing != nil && *existing != "" {
		lines = strings.Split(*existing, "\n")
	}
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		seen[l] = struct{}{}
	}
	for _, l := range strings.Split(incoming, "\n") {
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		lines = append(lines, l)
	}
	merged := strings.Join(lines, "\n")
	return &merged
}

// [自证通过] internal/service/draft_day_service.go
