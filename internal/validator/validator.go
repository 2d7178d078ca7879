// Package validator はリクエストDTOの `validate` タグを検証する echo.Validator 実装。
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type RequestValidator struct {
	v *validator.Validate
}

func New() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	//エラーメッセージはjsonのキー名で出す
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{v: v}
}

// 最初に失敗したフィールドだけをメッセージにする
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: verrs[0].Field(), Tag: verrs[0].Tag(), Param: verrs[0].Param()}
	}
	return err
}

type ValidationError struct {
	Field string
	Tag   string
	Param string
}

func (e *ValidationError) Error() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", e.Field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", e.Field, e.Param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field, e.Param)
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", e.Field, e.Param)
	}
	return fmt.Sprintf("%s is invalid (%s)", e.Field, e.Tag)
}
