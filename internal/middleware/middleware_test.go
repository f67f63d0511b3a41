package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/pkg/app"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/limiter"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	return r
}

func ok(c *gin.Context) {
	app.NewResponse(c).ToResponse(code.Success.WithData(gin.H{"uid": app.GetUID(c)}))
}

func do(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, app.Res) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var res app.Res
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	return w, res
}

func TestTraceMiddleware(t *testing.T) {
	var seen string
	r := newEngine(TraceMiddlewareWithConfig(true, ""))
	r.GET("/x", func(c *gin.Context) {
		seen = GetTraceID(c.Request.Context())
		assert.Equal(t, seen, GetTraceIDFromGin(c))
		c.Status(http.StatusOK)
	})

	w, _ := do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, seen, 32)
	assert.Equal(t, seen, w.Header().Get(DefaultTraceIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(DefaultTraceIDHeader, "abc-123")
	w, _ = do(r, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get(DefaultTraceIDHeader))

	off := newEngine(TraceMiddlewareWithConfig(false, ""))
	off.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	w, _ = do(off, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Empty(t, w.Header().Get(DefaultTraceIDHeader))
}

func TestUserAuthToken(t *testing.T) {
	tm := app.NewTokenManager(app.TokenConfig{SecretKey: "k"})
	pair, err := tm.GeneratePair(42, "a@x.io")
	require.NoError(t, err)

	r := newEngine(UserAuthTokenWithManager(tm))
	r.GET("/me", ok)

	tests := []struct {
		name   string
		setup  func(*http.Request)
		status int
	}{
		{"missing", func(*http.Request) {}, http.StatusUnauthorized},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"refresh is not access", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.Refresh) }, http.StatusUnauthorized},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.Access) }, http.StatusOK},
		{"raw", func(r *http.Request) { r.Header.Set("Authorization", pair.Access) }, http.StatusOK},
		{"token header", func(r *http.Request) { r.Header.Set("Token", pair.Access) }, http.StatusOK},
		{"token query", func(r *http.Request) { r.URL.RawQuery = "token=" + pair.Access }, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			w, res := do(r, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.True(t, res.Success)
				assert.EqualValues(t, 42, res.Data.(map[string]interface{})["uid"])
			} else {
				assert.False(t, res.Success)
				assert.Equal(t, app.DefaultErrorCode, res.ErrorCode)
			}
		})
	}

	_, res := do(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NotNil(t, res.Message)
	assert.Equal(t, "Authentication credentials were not provided.", *res.Message)
}

func TestSimpleAuthToken(t *testing.T) {
	r := newEngine(SimpleAuthTokenWithConfig("secret"))
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	w, _ := do(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics?authorization=wrong", nil)
	w, _ = do(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w, _ = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)

	open := newEngine(SimpleAuthTokenWithConfig(""))
	open.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })
	w, _ = do(open, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter(t *testing.T) {
	l := limiter.NewMethodLimiter().AddBuckets(limiter.BucketRule{
		Key:          "/auth",
		FillInterval: time.Hour,
		Capacity:     2,
		Quantum:      1,
	})
	r := newEngine(RateLimiter(l))
	r.POST("/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/categories", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w, _ := do(r, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w, res := do(r, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, res.Success)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	for i := 0; i < 5; i++ {
		w, _ = do(r, httptest.NewRequest(http.MethodGet, "/categories", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRecovery(t *testing.T) {
	r := newEngine(TraceMiddlewareWithConfig(true, ""), RecoveryWithLogger(zap.NewNop()))
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w, res := do(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, res.Success)
	assert.Nil(t, res.Data)
	require.NotNil(t, res.Message)
	assert.Equal(t, "Internal Server Error", *res.Message)
	assert.NotContains(t, w.Body.String(), "kaboom")
}

func TestContextTimeout(t *testing.T) {
	r := newEngine(ContextTimeout(50 * time.Millisecond))
	r.GET("/x", func(c *gin.Context) {
		_, has := c.Request.Context().Deadline()
		assert.True(t, has)
		c.Status(http.StatusOK)
	})
	do(r, httptest.NewRequest(http.MethodGet, "/x", nil))

	none := newEngine(ContextTimeout(0))
	none.GET("/x", func(c *gin.Context) {
		_, has := c.Request.Context().Deadline()
		assert.False(t, has)
		c.Status(http.StatusOK)
	})
	do(none, httptest.NewRequest(http.MethodGet, "/x", nil))
}

func TestCors(t *testing.T) {
	r := newEngine(Cors())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w, _ := do(r, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	w, _ = do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNoFound(t *testing.T) {
	r := newEngine()
	r.NoRoute(NoFound())

	w, res := do(r, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, res.Success)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics("test", reg)

	r := newEngine(Metrics(m))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, httptest.NewRequest(http.MethodGet, "/items/a", nil))
	do(r, httptest.NewRequest(http.MethodGet, "/items/b", nil))
	do(r, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/items/:id", http.MethodGet, "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("unmatched", http.MethodGet, "404")))
}

func TestTracing(t *testing.T) {
	tracer := mocktracer.New()
	r := newEngine(Tracing(tracer))
	r.GET("/notes/:id", func(c *gin.Context) {
		assert.NotNil(t, opentracing.SpanFromContext(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	do(r, httptest.NewRequest(http.MethodGet, "/notes/1", nil))

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /notes/:id", spans[0].OperationName)
	assert.EqualValues(t, 200, spans[0].Tag("http.status_code"))
}

func TestAppInfo(t *testing.T) {
	r := newEngine(AppInfoWithConfig("sync-note", "1.2.3"))
	r.GET("/x", func(c *gin.Context) {
		assert.Equal(t, "sync-note", c.GetString(AppNameKey))
		c.Status(http.StatusOK)
	})
	w, _ := do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "1.2.3", w.Header().Get("X-App-Version"))
}

func TestAccessLog_DoesNotAlterResponse(t *testing.T) {
	r := newEngine(AccessLogWithLogger(zap.NewNop()))
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(context.DeadlineExceeded)
		app.NewResponse(c).ToErrorResponse(code.ErrorServerBusy)
	})
	w, res := do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, res.Success)
}

func TestLang_PerRequestMessages(t *testing.T) {
	uni := ut.New(en.New(), en.New(), zh.New())
	entered := make(chan struct{})
	release := make(chan struct{})

	r := newEngine(LangWithTranslator(uni))
	r.GET("/missing", func(c *gin.Context) {
		app.NewResponse(c).ToErrorResponse(code.ErrorNotFound)
	})
	r.GET("/dup", func(c *gin.Context) {
		app.NewResponse(c).ToErrorResponse(code.ErrorDuplicateID.WithField("id"))
	})
	r.GET("/slow", func(c *gin.Context) {
		close(entered)
		<-release
		app.NewResponse(c).ToErrorResponse(code.ErrorNotFound)
	})

	_, res := do(r, httptest.NewRequest(http.MethodGet, "/missing?lang=zh-CN", nil))
	require.NotNil(t, res.Message)
	assert.Equal(t, "未找到", *res.Message)

	req := httptest.NewRequest(http.MethodGet, "/dup", nil)
	req.Header.Set("lang", "zh_cn")
	_, res = do(r, req)
	require.NotNil(t, res.Message)
	assert.Equal(t, "ID", res.ErrorCode)
	assert.Equal(t, code.ErrorDuplicateID.MsgIn("zh_cn"), *res.Message)

	// 中文请求挂起期间，其他请求仍按各自语言渲染
	done := make(chan app.Res)
	go func() {
		_, slow := do(r, httptest.NewRequest(http.MethodGet, "/slow?lang=zh_cn", nil))
		done <- slow
	}()
	<-entered

	_, res = do(r, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NotNil(t, res.Message)
	assert.Equal(t, "Not found.", *res.Message)

	close(release)
	slow := <-done
	require.NotNil(t, slow.Message)
	assert.Equal(t, "未找到", *slow.Message)
	assert.Equal(t, code.FALLBACK_LNG, code.GetGlobalDefaultLang())
}
