package util

import (
	"strconv"
	"strings"
	"time"
)

// isoLayouts are tried in order by ParseISOTime; layouts without a zone are read as UTC
// isoLayouts 按顺序尝试的 ISO-8601 格式，无时区的按 UTC 解析
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
}

// ParseISOTime parses an ISO-8601 datetime as sent by sync clients
// ParseISOTime 解析同步客户端发送的 ISO-8601 时间
// A '+' offset that was decoded to a space by the query string is restored first.
// 先还原查询字符串中被解码为空格的 '+' 时区符号
// return: UTC time, false when s is empty or not a datetime
// 返回值: UTC 时间；为空或无法解析时返回 false
func ParseISOTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	s = restoreOffsetSign(s)

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// restoreOffsetSign turns "2024-01-01T10:00:00 07:00" back into "2024-01-01T10:00:00+07:00"
func restoreOffsetSign(s string) string {
	i := strings.LastIndex(s, " ")
	if i <= 0 || !strings.Contains(s[:i], "T") {
		return s
	}
	tail := s[i+1:]
	if len(tail) == 5 && tail[2] == ':' || len(tail) == 4 {
		if _, err := strconv.Atoi(strings.ReplaceAll(tail, ":", "")); err == nil {
			return s[:i] + "+" + tail
		}
	}
	return s
}

// ParseDuration parses duration string, supports 'd' (day) suffix
// ParseDuration 解析时间字符串，支持 'd' (天) 后缀
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	// If it is pure numbers, default to seconds
	// 如果是纯数字，默认为秒
	if _, err := strconv.Atoi(s); err == nil {
		s += "s"
	}
	return time.ParseDuration(s)
}
