package service

import (
	"errors"
	"fmt"
	"testing"

	"archive-lens/internal/backend"
	"archive-lens/internal/locator"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *ValidationError
		want    string
	}{
		{
			name: "field and message",
			err: &ValidationError{
				Field:   "message",
				Message: "cannot be empty",
			},
			want: "validation error on field message: cannot be empty",
		},
		{
			name: "empty field",
			err: &ValidationError{
				Field:   "",
				Message: "invalid",
			},
			want: "validation error on field : invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ValidationError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		msg     string
		wantNil bool
		wantMsg string
	}{
		{
			name:    "nil error",
			err:     nil,
			msg:     "context",
			wantNil: true,
		},
		{
			name:    "wrapped error",
			err:     errors.New("original error"),
			msg:     "context",
			wantNil: false,
			wantMsg: "context: original error",
		},
		{
			name:    "empty message",
			err:     errors.New("original error"),
			msg:     "",
			wantNil: false,
			wantMsg: ": original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapError(tt.err, tt.msg)
			if tt.wantNil {
				if got != nil {
					t.Errorf("WrapError() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Errorf("WrapError() = nil, want error")
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("WrapError() = %v, want %v", got.Error(), tt.wantMsg)
			}
			// Verify error wrapping
			if !errors.Is(got, tt.err) {
				t.Errorf("WrapError() should wrap original error")
			}
		})
	}
}

func TestErrorConstants(t *testing.T) {
	if ErrInvalidInput == nil {
		t.Error("ErrInvalidInput should not be nil")
	}
	if ErrNotFound == nil {
		t.Error("ErrNotFound should not be nil")
	}
	if ErrExternalService == nil {
		t.Error("ErrExternalService should not be nil")
	}

	// Test error matching
	if !errors.Is(ErrInvalidInput, ErrInvalidInput) {
		t.Error("ErrInvalidInput should match itself")
	}
	if !errors.Is(ErrNotFound, ErrNotFound) {
		t.Error("ErrNotFound should match itself")
	}
	if !errors.Is(ErrExternalService, ErrExternalService) {
		t.Error("ErrExternalService should match itself")
	}
}


func TestFromBackend(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind error
		wantMsg  string
	}{
		{
			name:     "archive gone sentinel",
			err:      fmt.Errorf("load A1: %w", backend.ErrArchiveGone),
			wantKind: ErrArchiveGone,
			wantMsg:  "load A1: 找不到档案",
		},
		{
			name:     "archive gone by message",
			err:      errors.New("archive not found: A1"),
			wantKind: ErrArchiveGone,
			wantMsg:  "archive not found: A1",
		},
		{
			name:     "not found kind",
			err:      backend.NewError(backend.ErrNotFound, "附件尚未缓存"),
			wantKind: ErrNotFound,
			wantMsg:  "附件尚未缓存",
		},
		{
			name:     "invalid request kind",
			err:      backend.NewError(backend.ErrInvalidRequest, "无效的范围"),
			wantKind: ErrInvalidInput,
			wantMsg:  "无效的范围",
		},
		{
			name:     "invalid locator",
			err:      fmt.Errorf("%w: negative spreadsheet coordinate", locator.ErrInvalidLocator),
			wantKind: ErrInvalidInput,
		},
		{
			name:     "anything else",
			err:      errors.New("database is locked"),
			wantKind: ErrExternalService,
			wantMsg:  "database is locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fromBackend(tt.err, "op")
			if !errors.Is(got, tt.wantKind) {
				t.Errorf("fromBackend() = %v, want kind %v", got, tt.wantKind)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("fromBackend() lost the original error")
			}
			var be *BackendError
			if !errors.As(got, &be) {
				t.Fatalf("fromBackend() = %T, want *BackendError", got)
			}
			if tt.wantMsg != "" && be.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", be.Message, tt.wantMsg)
			}
		})
	}

	if fromBackend(nil, "op") != nil {
		t.Error("fromBackend(nil) should be nil")
	}
	wrapped := &BackendError{Op: "inner", Kind: ErrNotFound, Message: "x"}
	if got := fromBackend(fmt.Errorf("outer: %w", wrapped), "op"); !errors.Is(got, ErrNotFound) {
		t.Errorf("fromBackend() reclassified an already classified error: %v", got)
	}
}
