// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import "encoding/json"

// NullableString distinguishes an absent JSON field from an explicit null
// NullableString 区分请求体中缺省的字段与显式的 null
type NullableString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler; only called when the key is present
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// Apply returns the new value when the field was sent, otherwise current
// Apply 字段出现时返回新值，否则保留 current
func (n NullableString) Apply(current *string) *string {
	if !n.Set {
		return current
	}
	return n.Value
}

// NewNullableString returns a present NullableString holding s
func NewNullableString(s *string) NullableString {
	return NullableString{Set: true, Value: s}
}
