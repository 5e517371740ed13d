package jobdesc

import (
	"regexp"
	"strings"
)

const (
	DefaultTitle         = "Untitled"
	DefaultLocation      = "Location Unknown"
	UnknownLocation      = "Unknown"
	defaultSummary       = ""
	metadataTitlePrefix  = "job title:"
	metadataPlacePrefix  = "job location:"
	metadataSummaryStart = "summary:"
)

// LocationStrategy 选择职位地点的提取方式。
type LocationStrategy string

const (
	// LocationExact 只识别 "Job Location: xxx" 行，缺省返回 "Location Unknown"。
	LocationExact LocationStrategy = "exact"
	// LocationLoose 兼容 "Location: xxx" / "Location xxx" 的宽松写法，缺省返回 "Unknown"。
	LocationLoose LocationStrategy = "loose"
)

// ParseLocationStrategy 将配置字符串解析为提取策略，未知值返回 false。
func ParseLocationStrategy(s string) (LocationStrategy, bool) {
	switch LocationStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", LocationExact:
		return LocationExact, true
	case LocationLoose:
		return LocationLoose, true
	default:
		return "", false
	}
}

var (
	titlePattern         = regexp.MustCompile(`(?i)job\s*title\s*:\s*(.+)`)
	locationPattern      = regexp.MustCompile(`(?i)job\s*location\s*:\s*(.+)`)
	looseLocationPattern = regexp.MustCompile(`(?i)(?:Job\s*)?Location\s*:\s*([A-Za-z ]+)`)
	inlineLocation       = regexp.MustCompile(`(?i)Location\s+([A-Za-z ]+)`)
	inlineStopWords      = regexp.MustCompile(`\b(?:Job\s*Type|About\s*Us|Summary)\b`)
	escapedOrRealNewline = regexp.MustCompile(`\\n|\n`)
	whitespaceRun        = regexp.MustCompile(`\s+`)
)

// ExtractTitle 从原始 JD 文本中提取职位名称。
func ExtractTitle(text string) string {
	if text == "" {
		return DefaultTitle
	}
	m := titlePattern.FindStringSubmatch(Normalize(text))
	if m == nil {
		return DefaultTitle
	}
	return strings.TrimSpace(m[1])
}

// ExtractLocation 使用精确策略提取职位地点。
func ExtractLocation(text string) string {
	return ExtractLocationWith(LocationExact, text)
}

// ExtractLocationWith 按指定策略提取职位地点。
func ExtractLocationWith(strategy LocationStrategy, text string) string {
	if strategy == LocationLoose {
		return extractLooseLocation(text)
	}
	if text == "" {
		return DefaultLocation
	}
	m := locationPattern.FindStringSubmatch(Normalize(text))
	if m == nil {
		return DefaultLocation
	}
	return strings.TrimSpace(m[1])
}

func extractLooseLocation(text string) string {
	if text == "" {
		return UnknownLocation
	}

	clean := escapedOrRealNewline.ReplaceAllString(text, " ")
	clean = strings.TrimSpace(whitespaceRun.ReplaceAllString(clean, " "))

	if m := looseLocationPattern.FindStringSubmatch(clean); m != nil {
		return strings.TrimSpace(m[1])
	}

	m := inlineLocation.FindStringSubmatch(clean)
	if m == nil {
		return UnknownLocation
	}
	location := strings.TrimSpace(m[1])
	if loc := inlineStopWords.FindStringIndex(location); loc != nil {
		location = location[:loc[0]]
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return UnknownLocation
	}
	return location
}

// Metadata 是列表页使用的 JD 摘要信息。
type Metadata struct {
	Title    string
	Location string
	Summary  string
}

// ExtractMetadata 逐行扫描规范文本，头部匹配不区分大小写；
// "Summary:" 行的下一行作为摘要。
func ExtractMetadata(text string) Metadata {
	meta := Metadata{
		Title:    DefaultTitle,
		Location: UnknownLocation,
		Summary:  defaultSummary,
	}
	lines := splitLines(Normalize(text))
	for i, line := range lines {
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, metadataTitlePrefix):
			meta.Title = headerValue(lines, i)
		case strings.HasPrefix(lower, metadataPlacePrefix):
			meta.Location = headerValue(lines, i)
		case strings.HasPrefix(lower, metadataSummaryStart):
			if i+1 < len(lines) {
				meta.Summary = strings.TrimSpace(lines[i+1])
			} else {
				meta.Summary = defaultSummary
			}
		}
	}
	return meta
}

// headerValue 返回 "Key: value" 行冒号后的值；规范文本中值位于下一行时取下一行。
func headerValue(lines []string, i int) string {
	_, rest, _ := strings.Cut(lines[i], ":")
	if v := strings.TrimSpace(rest); v != "" {
		return v
	}
	if i+1 < len(lines) {
		return strings.TrimSpace(lines[i+1])
	}
	return ""
}

// splitLines 按 \r\n、\r、\n 切分，末尾换行不产生空行。
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
