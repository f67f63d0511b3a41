package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTime_UnixMethods(t *testing.T) {
	// Create a fixed time
	// 创建一个固定时间
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tt := Time(now)

	assert.Equal(t, now.Unix(), tt.Unix())
	assert.Equal(t, now.UnixMilli(), tt.UnixMilli())
	assert.Equal(t, now.UnixMicro(), tt.UnixMicro())
	assert.Equal(t, now.UnixNano(), tt.UnixNano())

	// Verify it's not returning time.Now() by waiting a bit
	// 通过等待一会确认它不是返回 time.Now()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, now.Unix(), tt.Unix())
}

func TestNormalize(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	in := time.Date(2024, 5, 1, 19, 30, 0, 123456789, loc)

	out := Normalize(in)

	assert.Equal(t, time.UTC, out.Location())
	assert.Equal(t, 12, out.Hour())
	assert.Equal(t, 123456000, out.Nanosecond())
	assert.True(t, in.Equal(out.Add(789*time.Nanosecond)))
}

func TestTime_JSONRoundTrip(t *testing.T) {
	src := Time(time.Date(2024, 5, 1, 12, 0, 0, 123456000, time.UTC))

	data, err := json.Marshal(src)
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-01T12:00:00.123456Z"`, string(data))

	var dst Time
	require.NoError(t, json.Unmarshal(data, &dst))
	assert.True(t, src.Time().Equal(dst.Time()))
}

func TestTime_ZeroIsNull(t *testing.T) {
	data, err := json.Marshal(Time{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	var dst Time
	require.NoError(t, json.Unmarshal([]byte("null"), &dst))
	assert.True(t, dst.Time().IsZero())
}
