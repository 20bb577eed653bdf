package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"New", New(ErrCodeMalformedGraph, "edge %d references node %d", 2, 9), "MALFORMED_GRAPH: edge 2 references node 9"},
		{"Wrap", Wrap(ErrCodeStorage, errors.New("connection refused"), "save %q", "loop"), `STORAGE_ERROR: save "loop": connection refused`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("redis down")
	err := Wrap(ErrCodeStorage, cause, "load course")

	if errors.Unwrap(err) != cause {
		t.Error("Unwrap did not return the cause")
	}
	if !errors.Is(fmt.Errorf("api: %w", err), cause) {
		t.Error("errors.Is lost the cause through fmt wrapping")
	}
}

func TestIs(t *testing.T) {
	inner := New(ErrCodeInvalidMode, "unknown mode %q", "paint")
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"Matching", New(ErrCodeInvalidInput, "bad"), ErrCodeInvalidInput, true},
		{"Other", New(ErrCodeInvalidInput, "bad"), ErrCodeStorage, false},
		{"Outer", Wrap(ErrCodeInvalidFormat, inner, "line 3"), ErrCodeInvalidFormat, true},
		{"Inner", Wrap(ErrCodeInvalidFormat, inner, "line 3"), ErrCodeInvalidMode, true},
		{"ThroughFmt", fmt.Errorf("session: %w", inner), ErrCodeInvalidMode, true},
		{"Plain", errors.New("plain"), ErrCodeInvalidInput, false},
		{"Nil", nil, ErrCodeInvalidInput, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"Coded", New(ErrCodeCourseNotFound, "course %q", "loop"), ErrCodeCourseNotFound},
		{"Outermost", Wrap(ErrCodeStorage, New(ErrCodeInvalidName, "x"), "save"), ErrCodeStorage},
		{"Plain", errors.New("plain"), ""},
		{"Nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidName, "course name cannot be empty")); got != "course name cannot be empty" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("disk full")); got != "disk full" {
		t.Errorf("UserMessage() = %q", got)
	}
}
