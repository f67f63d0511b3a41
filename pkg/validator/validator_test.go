package validator

import (
	"testing"

	validatorV10 "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID    string  `json:"id" binding:"omitempty,uuid"`
	Title string  `json:"title" binding:"required,notblank,max=5"`
	Body  *string `json:"body" binding:"omitempty,notblank"`
	Page  int     `form:"page" binding:"gte=0"`
}

func translate(t *testing.T, v *CustomValidator, lang string, obj interface{}) map[string]string {
	t.Helper()
	uni, err := Install(v)
	require.NoError(t, err)
	trans, ok := uni.GetTranslator(lang)
	require.True(t, ok)

	err = v.ValidateStruct(obj)
	if err == nil {
		return nil
	}
	var errs validatorV10.ValidationErrors
	require.ErrorAs(t, err, &errs)
	out := map[string]string{}
	for _, e := range errs {
		out[e.Field()] = e.Translate(trans)
	}
	return out
}

func TestValidateStruct_Valid(t *testing.T) {
	v := NewCustomValidator()
	body := "x"
	assert.NoError(t, v.ValidateStruct(&sample{Title: "abc", Body: &body}))
	assert.NoError(t, v.ValidateStruct(sample{Title: "abc", ID: "6f1c1f8e-1d55-4a3c-9d1a-0c6c3b1a2b3c"}))
	assert.NoError(t, v.ValidateStruct(nil))
	assert.NoError(t, v.ValidateStruct("not a struct"))
	var nilPtr *sample
	assert.NoError(t, v.ValidateStruct(nilPtr))
}

func TestValidateStruct_Messages(t *testing.T) {
	v := NewCustomValidator()
	blank := "   "

	got := translate(t, v, "en", &sample{Title: "  ", Body: &blank, ID: "nope"})
	assert.Equal(t, "This field may not be blank.", got["title"])
	assert.Equal(t, "This field may not be blank.", got["body"])
	assert.Equal(t, "Must be a valid UUID.", got["id"])

	got = translate(t, v, "en", &sample{})
	assert.Equal(t, "This field is required.", got["title"])

	got = translate(t, v, "en", &sample{Title: "toolong"})
	assert.Equal(t, "Ensure this field has no more than 5 characters.", got["title"])

	got = translate(t, v, "en", &sample{Title: "ok", Page: -1})
	assert.Contains(t, got, "page")
}

func TestValidateStruct_Chinese(t *testing.T) {
	v := NewCustomValidator()
	got := translate(t, v, "zh", &sample{Title: " "})
	assert.Equal(t, "title不能为空白", got["title"])
}
