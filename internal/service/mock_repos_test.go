package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/chrhansen/shred-day-sub001/internal/model"
	"github.com/chrhansen/shred-day-sub001/internal/repository"
	pkgerrors "github.com/chrhansen/shred-day-sub001/pkg/errors"
)

// ── 内存版 Repository 测试替身 ──
// 行为对齐真实实现：未命中返回 gorm.ErrRecordNotFound，
// 条件更新失败返回 pkgerrors.ErrOptimisticLock

// newMockRepository 组装全套内存仓储
func newMockRepository() *repository.Repository {
	drafts := newMockDraftDayRepo()
	photos := newMockPhotoRepo()
	imports := newMockImportRepo()
	imports.drafts = drafts
	imports.photos = photos
	return &repository.Repository{
		User:     newMockUserRepo(),
		Resort:   newMockResortRepo(),
		Day:      newMockDayRepo(),
		Import:   imports,
		DraftDay: drafts,
		Photo:    photos,
	}
}

// mockClock 单调递增的伪时钟，保证 created_at 排序确定
type mockClock struct {
	t time.Time
}

func newMockClock() *mockClock {
	return &mockClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *mockClock) next() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

// ────────────────────── UserRepository ──────────────────────

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%03d", m.seq)
	}
	if user.Version == 0 {
		user.Version = 1
	}
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	stored, ok := m.users[user.UserID]
	if !ok || stored.Version != user.Version {
		return pkgerrors.ErrOptimisticLock
	}
	user.Version++
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

// ────────────────────── ResortRepository ──────────────────────

type mockResortRepo struct {
	resorts map[string]*model.Resort
	seq     int
}

func newMockResortRepo() *mockResortRepo {
	return &mockResortRepo{resorts: make(map[string]*model.Resort)}
}

func (m *mockResortRepo) Create(_ context.Context, resort *model.Resort) error {
	if resort.ResortID == "" {
		m.seq++
		resort.ResortID = fmt.Sprintf("resort-%03d", m.seq)
	}
	cp := *resort
	m.resorts[resort.ResortID] = &cp
	return nil
}

func (m *mockResortRepo) GetByID(_ context.Context, id string) (*model.Resort, error) {
	r, ok := m.resorts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockResortRepo) GetByNameInsensitive(_ context.Context, name string) (*model.Resort, error) {
	for _, r := range m.resorts {
		if strings.EqualFold(r.Name, name) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockResortRepo) List(_ context.Context) ([]model.Resort, error) {
	out := make([]model.Resort, 0, len(m.resorts))
	for _, r := range m.resorts {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ────────────────────── DayRepository ──────────────────────

type mockDayRepo struct {
	days  map[string]*model.Day
	seq   int
	clock *mockClock

	// renumberCalls 记录每次 RenumberSeason 的 [start, end] 区间
	renumberCalls [][2]time.Time
}

func newMockDayRepo() *mockDayRepo {
	return &mockDayRepo{days: make(map[string]*model.Day), clock: newMockClock()}
}

func (m *mockDayRepo) Create(_ context.Context, day *model.Day) error {
	if day.DayID == "" {
		m.seq++
		day.DayID = fmt.Sprintf("day-%03d", m.seq)
	}
	if day.Version == 0 {
		day.Version = 1
	}
	day.CreatedAt = m.clock.next()
	cp := *day
	m.days[day.DayID] = &cp
	return nil
}

func (m *mockDayRepo) GetByID(_ context.Context, id string) (*model.Day, error) {
	d, ok := m.days[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockDayRepo) GetByUserDateResort(_ context.Context, userID string, date time.Time, resortID string) (*model.Day, error) {
	for _, d := range m.days {
		if d.UserID == userID && d.Date.Equal(date) && d.ResortID == resortID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDayRepo) ListByUserDateRange(_ context.Context, userID string, start, end time.Time) ([]model.Day, error) {
	var out []model.Day
	for _, d := range m.days {
		if d.UserID == userID && !d.Date.Before(start) && !d.Date.After(end) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *mockDayRepo) ListDatesByUser(_ context.Context, userID string) ([]time.Time, error) {
	seen := make(map[time.Time]struct{})
	var out []time.Time
	for _, d := range m.days {
		if d.UserID != userID {
			continue
		}
		if _, ok := seen[d.Date]; ok {
			continue
		}
		seen[d.Date] = struct{}{}
		out = append(out, d.Date)
	}
	return out, nil
}

func (m *mockDayRepo) Update(_ context.Context, day *model.Day) error {
	stored, ok := m.days[day.DayID]
	if !ok || stored.Version != day.Version {
		return pkgerrors.ErrOptimisticLock
	}
	day.Version++
	cp := *day
	cp.CreatedAt = stored.CreatedAt
	m.days[day.DayID] = &cp
	return nil
}

func (m *mockDayRepo) Delete(_ context.Context, id string, deletedBy string) error {
	if d, ok := m.days[id]; ok {
		d.DeletedBy = &deletedBy
		delete(m.days, id)
	}
	return nil
}

func (m *mockDayRepo) RenumberSeason(_ context.Context, userID string, start, end time.Time) error {
	m.renumberCalls = append(m.renumberCalls, [2]time.Time{start, end})

	var inSeason []*model.Day
	for _, d := range m.days {
		if d.UserID == userID && !d.Date.Before(start) && !d.Date.After(end) {
			inSeason = append(inSeason, d)
		}
	}
	sort.Slice(inSeason, func(i, j int) bool {
		if !inSeason[i].Date.Equal(inSeason[j].Date) {
			return inSeason[i].Date.Before(inSeason[j].Date)
		}
		if !inSeason[i].CreatedAt.Equal(inSeason[j].CreatedAt) {
			return inSeason[i].CreatedAt.Before(inSeason[j].CreatedAt)
		}
		return inSeason[i].DayID < inSeason[j].DayID
	})
	for i, d := range inSeason {
		d.DayNumber = i + 1
	}
	return nil
}

// ────────────────────── ImportRepository ──────────────────────

type mockImportRepo struct {
	imports map[string]*model.Import
	seq     int
	clock   *mockClock

	// drafts/photos 供 GetByID 模拟 Preload 与 Delete 模拟级联
	drafts *mockDraftDayRepo
	photos *mockPhotoRepo
}

func newMockImportRepo() *mockImportRepo {
	return &mockImportRepo{imports: make(map[string]*model.Import), clock: newMockClock()}
}

func (m *mockImportRepo) Create(_ context.Context, imp *model.Import) error {
	if imp.ImportID == "" {
		m.seq++
		imp.ImportID = fmt.Sprintf("import-%03d", m.seq)
	}
	if imp.Status == "" {
		imp.Status = model.ImportStatusWaiting
	}
	if imp.Version == 0 {
		imp.Version = 1
	}
	imp.CreatedAt = m.clock.next()
	cp := *imp
	m.imports[imp.ImportID] = &cp
	return nil
}

func (m *mockImportRepo) GetByID(ctx context.Context, id string) (*model.Import, error) {
	imp, ok := m.imports[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *imp
	if m.drafts != nil {
		cp.DraftDays, _ = m.drafts.ListByImport(ctx, id)
	}
	if m.photos != nil {
		cp.Photos, _ = m.photos.ListByImport(ctx, id)
	}
	return &cp, nil
}

func (m *mockImportRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]model.Import, int64, error) {
	var all []model.Import
	for _, imp := range m.imports {
		if imp.UserID == userID {
			all = append(all, *imp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockImportRepo) UpdateStatus(_ context.Context, id string, from, to model.ImportStatus) error {
	imp, ok := m.imports[id]
	if !ok || imp.Status != from {
		return pkgerrors.ErrOptimisticLock
	}
	imp.Status = to
	return nil
}

func (m *mockImportRepo) Delete(ctx context.Context, id string) error {
	delete(m.imports, id)
	if m.drafts != nil {
		for draftID, d := range m.drafts.drafts {
			if d.ImportID == id {
				delete(m.drafts.drafts, draftID)
			}
		}
	}
	if m.photos != nil {
		for photoID, p := range m.photos.photos {
			if p.ImportID == id {
				delete(m.photos.photos, photoID)
			}
		}
	}
	return nil
}

// ────────────────────── DraftDayRepository ──────────────────────

type mockDraftDayRepo struct {
	drafts map[string]*model.DraftDay
	seq    int
	clock  *mockClock
}

func newMockDraftDayRepo() *mockDraftDayRepo {
	return &mockDraftDayRepo{drafts: make(map[string]*model.DraftDay), clock: newMockClock()}
}

func (m *mockDraftDayRepo) Create(_ context.Context, draft *model.DraftDay) error {
	if draft.DraftDayID == "" {
		m.seq++
		draft.DraftDayID = fmt.Sprintf("draft-%03d", m.seq)
	}
	if draft.Decision == "" {
		draft.Decision = model.DecisionPending
	}
	if draft.Version == 0 {
		draft.Version = 1
	}
	draft.CreatedAt = m.clock.next()
	cp := *draft
	m.drafts[draft.DraftDayID] = &cp
	return nil
}

func (m *mockDraftDayRepo) GetByID(_ context.Context, id string) (*model.DraftDay, error) {
	d, ok := m.drafts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockDraftDayRepo) FindByImportDateResort(_ context.Context, importID string, date time.Time, resortID string) (*model.DraftDay, error) {
	for _, d := range m.drafts {
		if d.ImportID == importID && d.Date.Equal(date) && d.ResortID == resortID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDraftDayRepo) ListByImport(_ context.Context, importID string) ([]model.DraftDay, error) {
	var out []model.DraftDay
	for _, d := range m.drafts {
		if d.ImportID == importID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *mockDraftDayRepo) CountByDecision(_ context.Context, importID string) (map[model.Decision]int, error) {
	counts := make(map[model.Decision]int)
	for _, d := range m.drafts {
		if d.ImportID == importID {
			counts[d.Decision]++
		}
	}
	return counts, nil
}

func (m *mockDraftDayRepo) Update(_ context.Context, draft *model.DraftDay) error {
	stored, ok := m.drafts[draft.DraftDayID]
	if !ok || stored.Version != draft.Version {
		return pkgerrors.ErrOptimisticLock
	}
	draft.Version++
	cp := *draft
	cp.CreatedAt = stored.CreatedAt
	m.drafts[draft.DraftDayID] = &cp
	return nil
}

func (m *mockDraftDayRepo) Delete(_ context.Context, id string) error {
	delete(m.drafts, id)
	return nil
}

// ────────────────────── PhotoRepository ──────────────────────

type mockPhotoRepo struct {
	photos map[string]*model.Photo
	seq    int
	clock  *mockClock
}

func newMockPhotoRepo() *mockPhotoRepo {
	return &mockPhotoRepo{photos: make(map[string]*model.Photo), clock: newMockClock()}
}

func (m *mockPhotoRepo) Create(_ context.Context, photo *model.Photo) error {
	if photo.PhotoID == "" {
		m.seq++
		photo.PhotoID = fmt.Sprintf("photo-%03d", m.seq)
	}
	photo.CreatedAt = m.clock.next()
	cp := *photo
	m.photos[photo.PhotoID] = &cp
	return nil
}

func (m *mockPhotoRepo) GetByID(_ context.Context, id string) (*model.Photo, error) {
	p, ok := m.photos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPhotoRepo) ListByImport(_ context.Context, importID string) ([]model.Photo, error) {
	var out []model.Photo
	for _, p := range m.photos {
		if p.ImportID == importID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockPhotoRepo) ListByDraftDay(_ context.Context, draftDayID string) ([]model.Photo, error) {
	var out []model.Photo
	for _, p := range m.photos {
		if p.DraftDayID != nil && *p.DraftDayID == draftDayID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockPhotoRepo) AssignDraft(_ context.Context, photoID string, draftDayID string) error {
	p, ok := m.photos[photoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	id := draftDayID
	p.DraftDayID = &id
	return nil
}

func (m *mockPhotoRepo) MoveDraftPhotos(_ context.Context, fromDraftID, toDraftID string) error {
	for _, p := range m.photos {
		if p.DraftDayID != nil && *p.DraftDayID == fromDraftID {
			id := toDraftID
			p.DraftDayID = &id
		}
	}
	return nil
}

func (m *mockPhotoRepo) AttachDraftPhotosToDay(_ context.Context, draftDayID, dayID string) error {
	for _, p := range m.photos {
		if p.DraftDayID != nil && *p.DraftDayID == draftDayID {
			id := dayID
			p.DayID = &id
		}
	}
	return nil
}

// [自证通过] internal/service/mock_repos_test.go
