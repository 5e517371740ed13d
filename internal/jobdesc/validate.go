package jobdesc

import "strings"

// MinWords 是可发布 JD 的最少单词数。
const MinWords = 10

var structuredMarkers = []string{"job title", "summary", "responsibilities", "required skills"}

// LooksLikeJobDescription 判断结构化输入的键是否像一份 JD（任一标记键即可，不区分大小写）。
func LooksLikeJobDescription(sections *Sections) bool {
	if sections == nil {
		return false
	}
	for pair := sections.Oldest(); pair != nil; pair = pair.Next() {
		key := strings.ToLower(strings.TrimSpace(pair.Key))
		for _, marker := range structuredMarkers {
			if key == marker {
				return true
			}
		}
	}
	return false
}

// WordCount 返回按空白切分后的单词数。
func WordCount(text string) int {
	return len(strings.Fields(text))
}
