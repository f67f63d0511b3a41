package app

import (
	"net/http"
	"strings"

	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"

	"github.com/gin-gonic/gin"
)

// DefaultErrorMessage is used when a failure carries no usable message
const DefaultErrorMessage = "An error occurred"

// DefaultErrorCode is used when no offending field can be identified
const DefaultErrorCode = "ERROR"

// ContextLangKey is the gin context key holding the request's message language
const ContextLangKey = "lang"

// VersionInfo version information // 版本信息
type VersionInfo struct {
	Version   string `json:"version"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
}

// Res is the envelope wrapping every response body
// Res 是所有响应体的统一信封
type Res struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Message   *string     `json:"message"`
	ErrorCode string      `json:"error_code,omitempty"`
}

// Render builds the envelope for an HTTP status, a success payload and an error fault
// Render 根据 HTTP 状态、数据和错误载荷构建响应信封
//
// Success (status < 400): data is the payload, message is null.
// Failure: data is null; a Detail becomes the message with error code "ERROR",
// FieldErrors use the upper-cased first field as error code and its first message.
func Render(status int, data interface{}, fault code.Fault) Res {
	if status < http.StatusBadRequest {
		return Res{Success: true, Data: data}
	}

	message := DefaultErrorMessage
	errorCode := DefaultErrorCode

	switch f := fault.(type) {
	case code.Detail:
		if f != "" {
			message = string(f)
		}
	case code.FieldErrors:
		if first, ok := f.First(); ok {
			if first.Field != "" {
				errorCode = strings.ToUpper(first.Field)
			}
			if len(first.Messages) > 0 && first.Messages[0] != "" {
				message = first.Messages[0]
			}
		}
	}

	return Res{Success: false, Data: nil, Message: &message, ErrorCode: errorCode}
}

type Response struct {
	Ctx *gin.Context
}

func NewResponse(ctx *gin.Context) *Response {
	return &Response{
		Ctx: ctx,
	}
}

// GetRequestIP gets the request IP
// GetRequestIP 获取ip
func GetRequestIP(c *gin.Context) string {
	reqIP := c.ClientIP()
	if reqIP == "::1" {
		reqIP = "127.0.0.1"
	}
	return reqIP
}

// ToResponse writes the code as an enveloped response; 204 codes write no body
// ToResponse 将 Code 输出为信封响应，204 不输出响应体
func (r *Response) ToResponse(codeObj *code.Code) {
	status := codeObj.StatusCode()
	r.Ctx.Set("status_code", status)

	if status == http.StatusNoContent {
		r.Ctx.Status(status)
		r.Ctx.Writer.WriteHeaderNow()
		return
	}

	var data interface{}
	if codeObj.HaveData() {
		data = codeObj.Data()
	}

	r.send(status, Render(status, data, codeObj.FaultIn(r.lang())))
}

// lang 请求语言，未设置时使用全局语言
func (r *Response) lang() string {
	if l := r.Ctx.GetString(ContextLangKey); l != "" {
		return l
	}
	return code.GetGlobalDefaultLang()
}

// ToErrorResponse aborts the request with an enveloped error
// ToErrorResponse 以信封格式返回错误并中止请求
func (r *Response) ToErrorResponse(codeObj *code.Code) {
	r.ToResponse(codeObj)
	r.Ctx.Abort()
}

func (r *Response) send(statusCode int, content interface{}) {
	r.Ctx.JSON(statusCode, content)
}
