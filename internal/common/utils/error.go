package utils

import (
	"fmt"
	"runtime/debug"
)

// GetStackWithError は、エラーとスタックトレースを組み合わせて返します
func GetStackWithError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w\nStack trace:\n%s", err, debug.Stack())
}

// PanicToError はrecover()で得た値をスタックトレース付きのエラーに変換します
func PanicToError(r interface{}) error {
	if r == nil {
		return nil
	}
	if err, ok := r.(error); ok {
		return GetStackWithError(fmt.Errorf("panic: %w", err))
	}
	return GetStackWithError(fmt.Errorf("panic: %v", r))
}
