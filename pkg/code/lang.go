package code

import (
	"errors"
	"reflect"
	"sync/atomic"
)

// lang stores the English and Chinese text of a code
// lang 存储错误码的英文和中文文本
type lang struct {
	en    string // English // 英文
	zh_cn string // Chinese // 中文
}

// FALLBACK_LNG is used whenever the requested language has no text
const FALLBACK_LNG = "en"

// lng must hold a value before the code vars below are built, so it is set by its initializer rather than init()
var lng = func() *atomic.Value {
	v := &atomic.Value{}
	v.Store(FALLBACK_LNG)
	return v
}()

// GetMessage returns the message in the global language, falling back to English
// GetMessage 按全局语言返回消息，缺失时回退英文
func (l lang) GetMessage() string {
	return l.In(GetGlobalDefaultLang())
}

// In returns the message for the given language, falling back to English
// In 返回指定语言的消息，缺失时回退英文
func (l lang) In(language string) string {
	val := reflect.ValueOf(l)
	if field := val.FieldByName(language); field.IsValid() && field.String() != "" {
		return field.String()
	}
	return val.FieldByName(FALLBACK_LNG).String()
}

// GetSupportedLanguages returns the field names of lang
// GetSupportedLanguages 返回 lang 支持的语言
func GetSupportedLanguages() []string {
	typ := reflect.TypeOf(lang{})
	languages := make([]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		languages = append(languages, typ.Field(i).Name)
	}
	return languages
}

// SetGlobalDefaultLang sets the global language; unsupported values reset it to English
// SetGlobalDefaultLang 设置全局语言，不支持的语言重置为英文
func SetGlobalDefaultLang(language string) error {
	for _, supported := range GetSupportedLanguages() {
		if language == supported {
			lng.Store(language)
			return nil
		}
	}
	lng.Store(FALLBACK_LNG)
	return errors.New("unsupported language type, set defaulting to " + FALLBACK_LNG)
}

// GetGlobalDefaultLang gets the global language
// GetGlobalDefaultLang 获取全局语言
func GetGlobalDefaultLang() string {
	if s, ok := lng.Load().(string); ok {
		return s
	}
	return FALLBACK_LNG
}
