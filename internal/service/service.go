// Package service はリスティング検索・予約・認証・スキーマ構築のユースケースを提供します。
// 入力の検証は永続化層を呼び出す前に行います。
package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/uma-arai/sbcntr-stay/internal/common/utils"
	"github.com/uma-arai/sbcntr-stay/internal/model"
)

var validate = newValidator()

// newValidator はエラーメッセージにJSONのフィールド名を使うバリデーターを作成します
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput は構造体のvalidateタグを検証し、失敗した場合はValidationErrorを返します
func validateInput(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return model.NewValidationError("invalid input: %v", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return model.NewValidationError("%s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// runWithTimeout はタイムアウト付きで処理を実行します
// タイムアウトした場合はPersistenceErrorとして返します
func runWithTimeout(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}

	err := utils.RunWithTimeout(ctx, timeout, fn)
	if err != nil && !model.IsClassified(err) {
		return model.NewPersistenceError("request", err)
	}
	return err
}
