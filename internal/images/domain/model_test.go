package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"empty", "", false},
		{"ascii", "Summer shoot", true},
		{"ascii at limit", strings.Repeat("a", MaxNameLen), true},
		{"ascii over limit", strings.Repeat("a", MaxNameLen+1), false},
		{"multibyte at limit", strings.Repeat("日", MaxNameLen), true},
		{"multibyte over limit", strings.Repeat("é", MaxNameLen+1), false},
		{"invalid utf-8", "photo\xff", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, ValidName(tt.input))
		})
	}
}
