package model

import (
	"errors"
	"fmt"
)

// エラー種別。ハンドラーはerrors.Isでレスポンスステータスに変換します
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrPersistence  = errors.New("query failed")
)

// NewValidationError は入力値不正のエラーを作成します
func NewValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NewNotFoundError は対象が存在しない場合のエラーを作成します
func NewNotFoundError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// NewConflictError は日程の重複などの競合エラーを作成します
func NewConflictError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// NewUnauthorizedError は認証エラーを作成します
func NewUnauthorizedError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, fmt.Sprintf(format, args...))
}

// NewPersistenceError は永続化層のエラーをラップします
// 既に分類済みのエラーはそのまま返します
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsClassified(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// IsClassified はエラーが既知の種別のいずれかに属するかを返します
func IsClassified(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrPersistence)
}
