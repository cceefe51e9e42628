package errors

import (
	"fmt"
	"testing"
)

func TestJobdorkError_Error(t *testing.T) {
	err := &JobdorkError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "application not found",
	}

	expected := "NOT_FOUND: application not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("role is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "role is required" {
		t.Errorf("Message = %q, want %q", err.Message, "role is required")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("preset", "01HX")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["id"] != "01HX" {
		t.Errorf("Details[id] = %v, want %q", err.Details["id"], "01HX")
	}
	if err.Details["kind"] != "preset" {
		t.Errorf("Details[kind] = %v, want %q", err.Details["kind"], "preset")
	}
}

func TestNewDuplicate(t *testing.T) {
	err := NewDuplicate("Acme")

	if err.Code != ErrDuplicate {
		t.Errorf("Code = %q, want %q", err.Code, ErrDuplicate)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if err.Details["value"] != "Acme" {
		t.Errorf("Details[value] = %v, want %q", err.Details["value"], "Acme")
	}
}

func TestNewEmptyList(t *testing.T) {
	err := NewEmptyList("blocklist is empty")

	if err.Code != ErrEmptyList {
		t.Errorf("Code = %q, want %q", err.Code, ErrEmptyList)
	}
	if err.Status != 422 {
		t.Errorf("Status = %d, want 422", err.Status)
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("disk full"))
	if err.Message != "disk full" {
		t.Errorf("Message = %q, want %q", err.Message, "disk full")
	}

	err = NewInternal(nil)
	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"matching code", NewDuplicate("x"), ErrDuplicate, true},
		{"different code", NewDuplicate("x"), ErrNotFound, false},
		{"wrapped", fmt.Errorf("blocklist: %w", NewEmptyList("empty")), ErrEmptyList, true},
		{"plain error", fmt.Errorf("boom"), ErrInternal, false},
		{"nil", nil, ErrInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}
