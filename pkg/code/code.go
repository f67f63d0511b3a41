package code

import (
	"fmt"
	"net/http"
)

type Code struct {
	// 状态码
	code int
	// 状态
	status bool
	// HTTP 状态码
	httpStatus int
	// 错误消息
	Lang lang
	// 数据
	data interface{}
	// 是否含有Data
	haveData bool
	// 错误详细信息（渲染为 message / error_code）
	fault Fault
}

var codes = map[int]string{}
var sussCodes = map[int]string{}

// NewError registers an error code with its HTTP status
// NewError 注册错误码及其 HTTP 状态
func NewError(code int, httpStatus int, l lang) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	codes[code] = l.GetMessage()

	return &Code{code: code, status: false, httpStatus: httpStatus, Lang: l}
}

// NewSuss registers a success code with its HTTP status
// NewSuss 注册成功码及其 HTTP 状态
func NewSuss(code int, httpStatus int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("成功码 %d 已经存在，请更换一个", code))
	}
	sussCodes[code] = l.GetMessage()

	return &Code{code: code, status: true, httpStatus: httpStatus, Lang: l}
}

// Clone 创建一个新的 Code 副本
// With* 方法都在副本上操作，包级变量不会被请求修改
func (e *Code) Clone() *Code {
	return &Code{
		code:       e.code,
		status:     e.status,
		httpStatus: e.httpStatus,
		Lang:       e.Lang,
		data:       e.data,
		haveData:   e.haveData,
		fault:      e.fault,
	}
}

func (e *Code) Error() string {
	if e.fault != nil {
		return fmt.Sprintf("%d: %s", e.code, FaultMessage(e.fault))
	}
	return fmt.Sprintf("%d: %s", e.code, e.Msg())
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

// StatusCode returns the HTTP status the code renders with
func (e *Code) StatusCode() int {
	if e.httpStatus == 0 {
		return http.StatusOK
	}
	return e.httpStatus
}

func (e *Code) Msg() string {
	return e.Lang.GetMessage()
}

// MsgIn returns the message in the given language
// MsgIn 按指定语言返回消息
func (e *Code) MsgIn(language string) string {
	return e.Lang.In(language)
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) HaveData() bool {
	return e.haveData
}

// Fault returns the attached fault; error codes without one fall back to their message as a Detail
// Fault 返回错误详情；未设置时错误码以自身消息作为 Detail
func (e *Code) Fault() Fault {
	return e.FaultIn(GetGlobalDefaultLang())
}

// FaultIn is Fault rendered in the given language; field errors without messages take the code's message
// FaultIn 按指定语言返回错误详情，无消息的字段错误使用错误码消息
func (e *Code) FaultIn(language string) Fault {
	switch f := e.fault.(type) {
	case nil:
		if e.status {
			return nil
		}
		return Detail(e.MsgIn(language))
	case FieldErrors:
		out := make(FieldErrors, len(f))
		for i, fe := range f {
			if len(fe.Messages) == 0 {
				fe.Messages = []string{e.MsgIn(language)}
			}
			out[i] = fe
		}
		return out
	}
	return e.fault
}

func (e *Code) WithData(data interface{}) *Code {
	c := e.Clone()
	c.haveData = true
	c.data = data
	return c
}

// WithDetail attaches a flat detail message
// WithDetail 附加单条错误说明
func (e *Code) WithDetail(detail string) *Code {
	c := e.Clone()
	c.fault = Detail(detail)
	return c
}

// WithField attaches a single field error
// WithField 附加单个字段错误
func (e *Code) WithField(field string, messages ...string) *Code {
	return e.WithFieldErrors(FieldErrors{{Field: field, Messages: messages}})
}

// WithFieldErrors attaches ordered field errors
// WithFieldErrors 附加有序的字段错误
func (e *Code) WithFieldErrors(fe FieldErrors) *Code {
	c := e.Clone()
	c.fault = fe
	return c
}

// Is reports whether target is a Code with the same numeric code, so errors.Is works across clones
func (e *Code) Is(target error) bool {
	t, ok := target.(*Code)
	return ok && t.code == e.code
}
