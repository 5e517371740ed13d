// Package jobdesc 负责职位描述（JD）在结构化输入、规范文本与展示 HTML 之间的转换。
// 包内函数均为纯函数，不持有任何状态。
package jobdesc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Sections 是按输入顺序保存的 “段落名 -> 内容” 映射，内容为字符串或字符串序列。
type Sections = orderedmap.OrderedMap[string, any]

// NewSections 返回空的有序段落映射。
func NewSections() *Sections {
	return orderedmap.New[string, any]()
}

var errNotObject = errors.New("job description payload must be a JSON object")

// DecodeSections 解析 JSON 对象并保留键的原始顺序。
func DecodeSections(data []byte) (*Sections, error) {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "{") {
		return nil, errNotObject
	}
	sections := NewSections()
	if err := json.Unmarshal([]byte(trimmed), sections); err != nil {
		return nil, fmt.Errorf("decode job description sections: %w", err)
	}
	return sections, nil
}

// Normalize 把上游重复转义的字面量 "\n" 还原为真实换行。
func Normalize(text string) string {
	return strings.ReplaceAll(text, `\n`, "\n")
}

// ToCanonicalText 将结构化段落序列化为存储用的规范文本：
//
//	Key:
//	value        (或每个元素一行 "- item")
//	<空行>
func ToCanonicalText(sections *Sections) string {
	if sections == nil {
		return ""
	}
	lines := make([]string, 0, sections.Len()*3)
	for pair := sections.Oldest(); pair != nil; pair = pair.Next() {
		lines = append(lines, pair.Key+":")
		if items, ok := pair.Value.([]any); ok {
			for _, item := range items {
				lines = append(lines, "- "+valueText(item))
			}
		} else if items, ok := pair.Value.([]string); ok {
			for _, item := range items {
				lines = append(lines, "- "+item)
			}
		} else {
			lines = append(lines, valueText(pair.Value))
		}
		lines = append(lines, "")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// SectionString 返回指定段落的去空白字符串值；非字符串或不存在时返回空串。
func SectionString(sections *Sections, key string) string {
	if sections == nil {
		return ""
	}
	v, ok := sections.Get(key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// valueText 以存量数据一致的文本形式输出标量值。
func valueText(v any) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case string:
		return val
	case bool:
		if val {
			return "True"
		}
		return "False"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
