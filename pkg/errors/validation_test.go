package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"block index", "12", false},
		{"label studio id", "kQp3-9xZ_a", false},
		{"image basename", "page_0001.jpeg", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"slash", "foo/bar", true},
		{"traversal", "foo..bar", true},
		{"backslash", "foo\\bar", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID("zone", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "issue-01/page_0001.jpeg", false},
		{"absolute", "/data/issue-01/page_0001.jpeg", false},
		{"empty", "", true},
		{"traversal", "../secret", true},
		{"backslash", "issue\\page.jpeg", true},
		{"control", "page\x01.jpeg", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRunID(t *testing.T) {
	if err := ValidateRunID("3f2b8c1e-8a4d-4c2e-9b1a-0f6e5d4c3b2a"); err != nil {
		t.Errorf("valid run id rejected: %v", err)
	}
	for _, bad := range []string{"", "abc", "3F2B8C1E-8A4D-4C2E-9B1A-0F6E5D4C3B2A", "3f2b8c1e8a4d4c2e9b1a0f6e5d4c3b2a"} {
		if err := ValidateRunID(bad); err == nil {
			t.Errorf("ValidateRunID(%q) should fail", bad)
		}
	}
}
