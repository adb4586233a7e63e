package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"already international", "+919876543210", "+919876543210"},
		{"local with leading zero", "09876543210", "+919876543210"},
		{"local without leading zero", "9876543210", "+919876543210"},
		{"surrounding whitespace", " 9876543210 ", "+919876543210"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePhone(tt.raw, "+91"))
		})
	}
}
