// Package timex provides the timestamp type shared by models and DTOs
// Package timex 提供模型与 DTO 共用的时间类型
package timex

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the wire format for every timestamp the service emits
// Layout 服务输出时间戳的统一格式
const Layout = time.RFC3339Nano

// Precision every stored timestamp is truncated to; postgres and mysql datetime(6) keep microseconds
// Precision 存储时间戳的截断精度
const Precision = time.Microsecond

// Time wraps time.Time with UTC JSON encoding
// Time 对 time.Time 的封装，JSON 统一使用 UTC
type Time time.Time

// Now returns the current UTC time truncated to the storage precision
// Now 返回截断到存储精度的当前 UTC 时间
func Now() Time {
	return Time(Normalize(time.Now()))
}

// Normalize converts t to UTC and truncates it to the storage precision
// Normalize 将时间转换为 UTC 并截断到存储精度
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(Precision)
}

// MarshalJSON implements json.Marshaler
func (t Time) MarshalJSON() ([]byte, error) {
	if time.Time(t).IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%q", time.Time(t).UTC().Format(Layout))), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = Time{}
		return nil
	}
	parsed, err := time.Parse(Layout, s)
	if err != nil {
		return err
	}
	*t = Time(parsed.UTC())
	return nil
}

// Time returns the underlying time.Time
func (t Time) Time() time.Time {
	return time.Time(t)
}

func (t Time) String() string {
	return time.Time(t).UTC().Format(Layout)
}

func (t Time) Unix() int64 {
	return time.Time(t).Unix()
}

func (t Time) UnixMilli() int64 {
	return time.Time(t).UnixMilli()
}

func (t Time) UnixMicro() int64 {
	return time.Time(t).UnixMicro()
}

func (t Time) UnixNano() int64 {
	return time.Time(t).UnixNano()
}
