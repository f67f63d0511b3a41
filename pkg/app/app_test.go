package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"

	"github.com/gin-gonic/gin"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRender_Success(t *testing.T) {
	res := Render(http.StatusCreated, map[string]string{"id": "x"}, nil)
	assert.True(t, res.Success)
	assert.Nil(t, res.Message)
	assert.Empty(t, res.ErrorCode)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"id":"x"},"message":null}`, string(b))
}

func TestRender_Failures(t *testing.T) {
	cases := []struct {
		name    string
		fault   code.Fault
		message string
		errCode string
	}{
		{"detail", code.Detail("Not found."), "Not found.", "ERROR"},
		{"field", code.FieldErrors{{Field: "title", Messages: []string{"This field is required."}}}, "This field is required.", "TITLE"},
		{"first field wins", code.FieldErrors{
			{Field: "category", Messages: []string{"Invalid pk."}},
			{Field: "title", Messages: []string{"This field is required."}},
		}, "Invalid pk.", "CATEGORY"},
		{"nil fault", nil, DefaultErrorMessage, DefaultErrorCode},
		{"empty field errors", code.FieldErrors{}, DefaultErrorMessage, DefaultErrorCode},
		{"field without messages", code.FieldErrors{{Field: "email"}}, DefaultErrorMessage, "EMAIL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Render(http.StatusBadRequest, "ignored", tc.fault)
			assert.False(t, res.Success)
			assert.Nil(t, res.Data)
			require.NotNil(t, res.Message)
			assert.Equal(t, tc.message, *res.Message)
			assert.Equal(t, tc.errCode, res.ErrorCode)
		})
	}
}

func TestRender_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	// 成功响应：message 为 null，data 原样返回
	properties.Property("success iff status < 400", prop.ForAll(
		func(status int, payload string) bool {
			res := Render(status, payload, code.Detail("boom"))
			if status < 400 {
				return res.Success && res.Message == nil && res.Data == payload && res.ErrorCode == ""
			}
			return !res.Success && res.Message != nil && res.Data == nil && res.ErrorCode != ""
		},
		gen.IntRange(100, 599),
		gen.AlphaString(),
	))

	// 字段错误：error_code 为第一个字段的大写形式
	properties.Property("error code is the upper-cased first field", prop.ForAll(
		func(field, msg string) bool {
			res := Render(http.StatusBadRequest, nil, code.FieldErrors{{Field: field, Messages: []string{msg}}, {Field: "zz", Messages: []string{"other"}}})
			return res.ErrorCode == strings.ToUpper(field) && *res.Message == msg
		},
		gen.Identifier(),
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	))

	properties.TestingRun(t)
}

func TestResponse_ToResponse(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	NewResponse(c).ToResponse(code.Created.WithData(map[string]int{"n": 1}))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"n":1},"message":null}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	NewResponse(c).ToResponse(code.Deleted)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	NewResponse(c).ToErrorResponse(code.ErrorNotFound)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, c.IsAborted())
	assert.JSONEq(t, `{"success":false,"data":null,"message":"Not found.","error_code":"ERROR"}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	NewResponse(c).ToResponse(code.ErrorInvalidParams.WithField("name", "This field is required."))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"data":null,"message":"This field is required.","error_code":"NAME"}`, w.Body.String())
}
