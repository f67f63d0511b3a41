package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// ValidError a single binding / validation failure
// ValidError 单条绑定或校验错误
type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	if v.Key == "" {
		return v.Message
	}
	return v.Key + ": " + v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// FieldErrors groups messages by key, keeping the order keys first appear in
// FieldErrors 按字段聚合错误，保持字段首次出现的顺序
func (v ValidErrors) FieldErrors() code.FieldErrors {
	var out code.FieldErrors
	index := map[string]int{}
	for _, e := range v {
		if i, ok := index[e.Key]; ok {
			out[i].Messages = append(out[i].Messages, e.Message)
			continue
		}
		index[e.Key] = len(out)
		out = append(out, code.FieldError{Field: e.Key, Messages: []string{e.Message}})
	}
	return out
}

// ToCode converts the errors to a response code: a keyless error is a body level detail
// ToCode 将错误转换为响应码：无字段的错误作为请求体级别的 detail
func (v ValidErrors) ToCode() *code.Code {
	if len(v) == 1 && v[0].Key == "" {
		return code.ErrorInvalidJSON.WithDetail(v[0].Message)
	}
	return code.ErrorInvalidParams.WithFieldErrors(v.FieldErrors())
}

// BindAndValid decodes the JSON body into obj and validates it with the gin binding validator
// BindAndValid 解析 JSON 请求体并使用 gin 绑定验证器校验
//
// An empty body decodes as {} so that missing required fields report per field.
func BindAndValid(c *gin.Context, obj interface{}) (bool, ValidErrors) {
	var body []byte
	if c.Request != nil && c.Request.Body != nil {
		b, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return false, ValidErrors{{Message: "Unable to read request body"}}
		}
		body = b
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	if err := binding.JSON.BindBody(body, obj); err != nil {
		return false, translateErrors(c, err)
	}
	return true, nil
}

// BindQuery binds and validates query parameters
// BindQuery 绑定并校验查询参数
func BindQuery(c *gin.Context, obj interface{}) (bool, ValidErrors) {
	if err := c.ShouldBindQuery(obj); err != nil {
		return false, translateErrors(c, err)
	}
	return true, nil
}

func translateErrors(c *gin.Context, err error) ValidErrors {
	var errs ValidErrors

	var verrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &verrs):
		trans := translator(c)
		for _, fe := range verrs {
			msg := fe.Error()
			if trans != nil {
				msg = fe.Translate(trans)
			}
			errs = append(errs, &ValidError{Key: fe.Field(), Message: msg})
		}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		errs = append(errs, &ValidError{
			Key:     typeErr.Field,
			Message: fmt.Sprintf("Incorrect type. Expected %s, but got %s.", typeErr.Type.String(), typeErr.Value),
		})
	case errors.As(err, &syntaxErr):
		errs = append(errs, &ValidError{Message: fmt.Sprintf("JSON parse error - %s", syntaxErr.Error())})
	default:
		errs = append(errs, &ValidError{Message: err.Error()})
	}
	return errs
}

func translator(c *gin.Context) ut.Translator {
	if c == nil {
		return nil
	}
	v, ok := c.Get("trans")
	if !ok {
		return nil
	}
	trans, _ := v.(ut.Translator)
	return trans
}
