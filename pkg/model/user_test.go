package model

import (
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"valid simple", "alice", "alice", true},
		{"trims whitespace", "  bob  ", "bob", true},
		{"empty", "", "", false},
		{"only whitespace", "   ", "", false},
		{"max length 32", strings.Repeat("a", 32), strings.Repeat("a", 32), true},
		{"too long", strings.Repeat("a", 33), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ValidateUsername(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ValidateUsername(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
