package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{"namespace only", nil, "studybuddy"},
		{"single part", []string{"session"}, "studybuddy:session"},
		{"several parts", []string{"documents", "42", "chat"}, "studybuddy:documents:42:chat"},
		{"empty parts skipped", []string{"session", "", "token"}, "studybuddy:session:token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.parts...))
		})
	}
}

func TestSessionTokenKey(t *testing.T) {
	assert.Equal(t, "studybuddy:session:token:authToken", SessionTokenKey("authToken"))
}
