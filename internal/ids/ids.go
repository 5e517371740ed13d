// Package ids 分配 JD001 / FM001 / SP001 形式的顺序业务编号。
package ids

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// 各类记录的编号前缀。
const (
	PrefixJob         = "JD"
	PrefixApplication = "FM"
	PrefixSalarySlip  = "SP"
)

const minDigits = 3

// ErrMalformedID 表示已存在的编号不符合 “前缀 + 至少三位数字” 的格式，属于数据完整性问题。
var ErrMalformedID = errors.New("malformed sequential id")

// Format 将序号格式化为至少三位零填充的编号，超过 999 时自动加宽。
func Format(prefix string, n int) string {
	return fmt.Sprintf("%s%0*d", prefix, minDigits, n)
}

// Parse 解析编号的数字后缀。
func Parse(id, prefix string) (int, error) {
	digits, ok := strings.CutPrefix(id, prefix)
	if !ok || len(digits) < minDigits {
		return 0, fmt.Errorf("%w: %q (prefix %s)", ErrMalformedID, id, prefix)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q (prefix %s)", ErrMalformedID, id, prefix)
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedID, id, err)
	}
	return n, nil
}

// Valid 判断编号格式是否合法。
func Valid(id, prefix string) bool {
	_, err := Parse(id, prefix)
	return err == nil
}

// Next 根据已签发的编号计算下一个编号。
// 取所有编号中的最大序号加一，因此不依赖存储返回的顺序；没有历史编号时从 001 开始。
func Next(existing []string, prefix string) (string, error) {
	highest := 0
	for _, id := range existing {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		n, err := Parse(id, prefix)
		if err != nil {
			return "", err
		}
		if n > highest {
			highest = n
		}
	}
	return Format(prefix, highest+1), nil
}
