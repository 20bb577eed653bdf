package errors

import (
	"strings"
	"testing"
)

func TestValidateCourseName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "loop", false},
		{"valid with dash", "figure-eight", false},
		{"valid with underscore", "hair_pin", false},
		{"valid with dot", "course.v2", false},
		{"valid with space", "Hard Course 3", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"path traversal ..", "foo..bar", true},
		{"slash", "foo/bar", true},
		{"backslash", "foo\\bar", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"leading dot", ".hidden", true},
		{"leading space", " course", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCourseName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCourseName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateCourseName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	for _, c := range []string{"blue", "red", "yellow"} {
		if err := ValidateColor(c); err != nil {
			t.Errorf("ValidateColor(%q) = %v, want nil", c, err)
		}
	}
	for _, c := range []string{"", "Blue", "magenta"} {
		if err := ValidateColor(c); err == nil {
			t.Errorf("ValidateColor(%q) = nil, want error", c)
		}
	}
}
