// Package validation 为 gin 绑定的 validator 注册英文翻译与自定义规则，
// 并将校验错误转换为可直接返回给客户端的消息。
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

const (
	strongPasswordTag  = "strong_password"
	strongPasswordText = "{0} must be 8-64 characters long and contain both letters and digits"
)

var (
	setupOnce  sync.Once
	setupErr   error
	translator ut.Translator
)

// Setup 初始化 gin 默认校验器，可重复调用
func Setup() error {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			setupErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}

		enLocale := en.New()
		translator, _ = ut.New(enLocale, enLocale).GetTranslator("en")

		// 错误信息使用 JSON 字段名
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})

		if setupErr = entranslations.RegisterDefaultTranslations(v, translator); setupErr != nil {
			return
		}

		if setupErr = v.RegisterValidation(strongPasswordTag, strongPassword); setupErr != nil {
			return
		}
		setupErr = v.RegisterTranslation(strongPasswordTag, translator,
			func(t ut.Translator) error { return t.Add(strongPasswordTag, strongPasswordText, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				s, _ := t.T(strongPasswordTag, fe.Field())
				return s
			},
		)
	})
	return setupErr
}

// strongPassword 8-64 位，同时包含字母与数字
func strongPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 8 || len(s) > 64 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// Message 将绑定错误转换为单行可读消息
func Message(err error) string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return "invalid request body"
	}

	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		if translator != nil {
			msgs = append(msgs, fe.Translate(translator))
		} else {
			msgs = append(msgs, fe.Error())
		}
	}
	return strings.Join(msgs, "; ")
}
