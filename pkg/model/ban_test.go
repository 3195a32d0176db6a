package model

import (
	"testing"
	"time"
)

func TestBanActive(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name string
		ban  Ban
		want bool
	}{
		{"permanent", Ban{ExpiresAt: nil}, true},
		{"expired", Ban{ExpiresAt: &past}, false},
		{"not yet expired", Ban{ExpiresAt: &future}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ban.Active(now); got != tt.want {
				t.Errorf("Active() = %v, want %v", got, tt.want)
			}
		})
	}
}
