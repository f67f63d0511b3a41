// Package limiter token bucket rate limiting keyed by route prefix and client
// Package limiter 基于令牌桶的限流，按路由前缀与客户端分桶
package limiter

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// Face 限流器接口
type Face interface {
	Key(c *gin.Context) string
	GetBucket(key string) (*ratelimit.Bucket, bool)
	AddBuckets(rules ...BucketRule) Face
}

// BucketRule 令牌桶规则
type BucketRule struct {
	Key          string        // 路由前缀
	FillInterval time.Duration // 放入令牌的间隔
	Capacity     int64         // 桶容量
	Quantum      int64         // 每次放入的令牌数
}

// Limiter 公共部分
type Limiter struct {
	mu      sync.Mutex
	rules   []BucketRule
	buckets map[string]*ratelimit.Bucket
}

func (l *Limiter) addRules(rules ...BucketRule) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rules = append(l.rules, rules...)
}

// bucketFor returns the bucket for key, creating it from the first rule whose prefix matches
func (l *Limiter) bucketFor(key string) (*ratelimit.Bucket, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if bucket, ok := l.buckets[key]; ok {
		return bucket, true
	}

	for _, rule := range l.rules {
		if strings.HasPrefix(key, rule.Key) {
			bucket := ratelimit.NewBucketWithQuantum(rule.FillInterval, rule.Capacity, rule.Quantum)
			l.buckets[key] = bucket
			return bucket, true
		}
	}
	return nil, false
}

// MethodLimiter 按 "路由前缀 + 客户端 IP" 分桶的限流器
type MethodLimiter struct {
	*Limiter
}

func NewMethodLimiter() Face {
	return MethodLimiter{
		Limiter: &Limiter{buckets: make(map[string]*ratelimit.Bucket)},
	}
}

// Key 路由路径与客户端 IP 组成的桶键
func (l MethodLimiter) Key(c *gin.Context) string {
	return c.Request.URL.Path + "|" + c.ClientIP()
}

func (l MethodLimiter) GetBucket(key string) (*ratelimit.Bucket, bool) {
	return l.bucketFor(key)
}

func (l MethodLimiter) AddBuckets(rules ...BucketRule) Face {
	l.addRules(rules...)
	return l
}
