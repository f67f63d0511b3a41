package errors

import (
	"errors"
	"fmt"
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/internal/middleware"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/app"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"

	"github.com/gin-gonic/gin"
)

// AppError 统一应用错误结构体
// 包含错误码、原始错误、追踪ID和时间戳
type AppError struct {
	// Code 响应码，决定 HTTP 状态与响应信封
	Code *code.Code
	// Cause 原始错误（不输出给客户端）
	Cause error
	// TraceID 请求追踪ID
	TraceID string
	// Timestamp 错误发生时间
	Timestamp time.Time
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Code.Error()
	}
	return fmt.Sprintf("%s: %v", e.Code.Error(), e.Cause)
}

// Unwrap exposes both the code and the cause to errors.Is / errors.As
func (e *AppError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Code}
	}
	return []error{e.Code, e.Cause}
}

// New wraps cause with the response code it should render as
// New 使用响应码包装原始错误
func New(c *code.Code, cause error) *AppError {
	return &AppError{
		Code:      c,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// WithTraceID 设置 TraceID 并返回自身（链式调用）
func (e *AppError) WithTraceID(traceID string) *AppError {
	e.TraceID = traceID
	return e
}

// ToCode resolves the response code carried by err; unknown errors become internal errors
// ToCode 解析错误携带的响应码，未知错误视为服务器内部错误
func ToCode(err error) *code.Code {
	if err == nil {
		return code.Success
	}
	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		return codeErr
	}
	return code.ErrorServerInternal
}

// ErrorResponse 统一错误响应处理
// 将错误记录到 gin.Context 供访问日志使用，并以信封格式输出
func ErrorResponse(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.TraceID == "" {
		appErr.TraceID = middleware.GetTraceIDFromGin(c)
	}

	_ = c.Error(err)
	app.NewResponse(c).ToErrorResponse(ToCode(err))
}

// IsAppError 检查错误是否为 AppError 类型
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 从错误链中获取 AppError
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
