package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"Office_Hub/internal/pkg"
)

// fieldErrors 收集一次请求中的全部字段错误，一并返回
type fieldErrors map[string][]string

func (f fieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

// text 去除首尾空白后按字符数校验长度；min 为 0 表示可为空，max 为 0 表示不限
func (f fieldErrors) text(field, raw string, min, max int) string {
	value := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(value)
	switch {
	case n == 0 && min > 0:
		f.add(field, fmt.Sprintf("%s is required", field))
	case n < min:
		f.add(field, fmt.Sprintf("%s must be at least %d characters", field, min))
	case max > 0 && n > max:
		f.add(field, fmt.Sprintf("%s must not exceed %d characters", field, max))
	}
	return value
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return pkg.Validation("invalid params", f)
}
