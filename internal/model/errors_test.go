package model

import (
	"errors"
	"testing"
)

func TestNewPersistenceError(t *testing.T) {
	driverErr := errors.New("connection refused")

	err := NewPersistenceError("search listings", driverErr)
	if !errors.Is(err, ErrPersistence) {
		t.Errorf("NewPersistenceError() should be ErrPersistence, got %v", err)
	}
	if !errors.Is(err, driverErr) {
		t.Errorf("NewPersistenceError() should keep the cause, got %v", err)
	}

	if NewPersistenceError("noop", nil) != nil {
		t.Error("NewPersistenceError(nil) should be nil")
	}

	conflict := NewConflictError("dates taken")
	if got := NewPersistenceError("create booking", conflict); got != conflict {
		t.Errorf("classified errors must pass through unchanged, got %v", got)
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"validation", NewValidationError("bad %s", "input"), ErrValidation},
		{"not found", NewNotFoundError("listing %d", 1), ErrNotFound},
		{"conflict", NewConflictError("taken"), ErrConflict},
		{"unauthorized", NewUnauthorizedError("no token"), ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("%v is not %v", tt.err, tt.kind)
			}
			if !IsClassified(tt.err) {
				t.Errorf("%v should be classified", tt.err)
			}
		})
	}

	if IsClassified(errors.New("raw")) {
		t.Error("raw errors should not be classified")
	}
}
