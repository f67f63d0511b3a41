// Package validator installs go-playground/validator as gin's binding validator
// Package validator 将 go-playground/validator 安装为 gin 的绑定验证器
package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	validatorV10 "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// CustomValidator implements binding.StructValidator
// CustomValidator 实现 gin 的 binding.StructValidator
type CustomValidator struct {
	once     sync.Once
	validate *validatorV10.Validate
}

var _ binding.StructValidator = (*CustomValidator)(nil)

// NewCustomValidator creates the validator
// NewCustomValidator 创建验证器
func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

// ValidateStruct validates structs and pointers to structs, other kinds pass through
// ValidateStruct 校验结构体或结构体指针，其他类型直接通过
func (v *CustomValidator) ValidateStruct(obj interface{}) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}
	v.lazyinit()
	return v.validate.Struct(obj)
}

// Engine returns the underlying *validator.Validate
func (v *CustomValidator) Engine() interface{} {
	v.lazyinit()
	return v.validate
}

func (v *CustomValidator) lazyinit() {
	v.once.Do(func() {
		v.validate = validatorV10.New()
		v.validate.SetTagName("binding")

		// 使用 json 标签作为字段名，错误信息与 error_code 与请求体一致
		v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})

		_ = v.validate.RegisterValidation("notblank", notBlank)
	})
}

// notBlank rejects strings that are empty after trimming; nil pointers are left to "required"
func notBlank(fl validatorV10.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.String {
		return strings.TrimSpace(field.String()) != ""
	}
	return true
}

// Install makes v gin's binding validator and returns a translator for en and zh
// Install 将验证器设为 gin 的绑定验证器，并返回 en / zh 翻译器
func Install(v *CustomValidator) (*ut.UniversalTranslator, error) {
	binding.Validator = v
	validate := v.Engine().(*validatorV10.Validate)

	uni := ut.New(en.New(), en.New(), zh.New())

	enTran, _ := uni.GetTranslator("en")
	zhTran, _ := uni.GetTranslator("zh")

	if err := en_translations.RegisterDefaultTranslations(validate, enTran); err != nil {
		return nil, err
	}
	if err := zh_translations.RegisterDefaultTranslations(validate, zhTran); err != nil {
		return nil, err
	}

	// en 文案与客户端既有的字段错误提示保持一致
	enTexts := map[string]string{
		"required": "This field is required.",
		"notblank": "This field may not be blank.",
		"uuid":     "Must be a valid UUID.",
		"email":    "Enter a valid email address.",
		"max":      "Ensure this field has no more than {0} characters.",
		"min":      "Ensure this field has at least {0} characters.",
	}
	for tag, text := range enTexts {
		if err := registerText(validate, enTran, tag, text); err != nil {
			return nil, err
		}
	}
	if err := registerText(validate, zhTran, "notblank", "{0}不能为空白"); err != nil {
		return nil, err
	}

	return uni, nil
}

func registerText(validate *validatorV10.Validate, trans ut.Translator, tag, text string) error {
	return validate.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe validatorV10.FieldError) string {
			arg := fe.Field()
			if tag == "max" || tag == "min" {
				arg = fe.Param()
			}
			t, err := ut.T(tag, arg)
			if err != nil {
				return fe.Error()
			}
			return t
		},
	)
}
