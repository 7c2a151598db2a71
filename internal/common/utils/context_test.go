package utils

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRunWithTimeout(t *testing.T) {
	errFailed := errors.New("failed")

	tests := []struct {
		name         string
		timeout      time.Duration
		fn           func(context.Context) error
		wantErr      error
		wantDeadline bool
		wantPanic    bool
	}{
		{
			name:    "正常終了",
			timeout: time.Second,
			fn:      func(ctx context.Context) error { return nil },
		},
		{
			name:    "処理のエラーをそのまま返す",
			timeout: time.Second,
			fn:      func(ctx context.Context) error { return errFailed },
			wantErr: errFailed,
		},
		{
			name:    "タイムアウト",
			timeout: 10 * time.Millisecond,
			fn: func(ctx context.Context) error {
				<-ctx.Done()
				time.Sleep(50 * time.Millisecond)
				return nil
			},
			wantDeadline: true,
		},
		{
			name:    "panicはエラーに変換される",
			timeout: time.Second,
			fn: func(ctx context.Context) error {
				panic("boom")
			},
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RunWithTimeout(context.Background(), tt.timeout, tt.fn)

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("RunWithTimeout() error = %v, want %v", err, tt.wantErr)
				}
			case tt.wantDeadline:
				if !errors.Is(err, context.DeadlineExceeded) {
					t.Errorf("RunWithTimeout() error = %v, want DeadlineExceeded", err)
				}
			case tt.wantPanic:
				if err == nil || !strings.Contains(err.Error(), "panic: boom") {
					t.Errorf("RunWithTimeout() error = %v, want panic error", err)
				}
			default:
				if err != nil {
					t.Errorf("RunWithTimeout() unexpected error = %v", err)
				}
			}
		})
	}
}

func TestGetStackWithError(t *testing.T) {
	if GetStackWithError(nil) != nil {
		t.Error("GetStackWithError(nil) should be nil")
	}

	base := errors.New("base")
	err := GetStackWithError(base)
	if !errors.Is(err, base) {
		t.Errorf("GetStackWithError() should wrap the original error")
	}
	if !strings.Contains(err.Error(), "Stack trace:") {
		t.Errorf("GetStackWithError() should contain a stack trace")
	}
}
