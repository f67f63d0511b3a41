package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

// Tracing 为每个请求开启 opentracing span，并放入 request.Context
// SQL span（gormTracing）以此为父 span；tracer 为 nil 时不做任何事
func Tracing(tracer opentracing.Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tracer == nil {
			c.Next()
			return
		}

		var opts []opentracing.StartSpanOption
		carrier := opentracing.HTTPHeadersCarrier(c.Request.Header)
		if parent, err := tracer.Extract(opentracing.HTTPHeaders, carrier); err == nil {
			opts = append(opts, ext.RPCServerOption(parent))
		}

		span := tracer.StartSpan(c.Request.Method+" "+c.FullPath(), opts...)
		defer span.Finish()

		ext.HTTPMethod.Set(span, c.Request.Method)
		ext.HTTPUrl.Set(span, c.Request.URL.Path)
		if traceID := GetTraceIDFromGin(c); traceID != "" {
			span.SetTag(TraceIDKey, traceID)
		}

		c.Request = c.Request.WithContext(opentracing.ContextWithSpan(c.Request.Context(), span))
		c.Next()

		status := c.Writer.Status()
		ext.HTTPStatusCode.Set(span, uint16(status))
		if status >= 500 {
			ext.Error.Set(span, true)
		}
	}
}
