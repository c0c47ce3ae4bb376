package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeString(t *testing.T) {
	assert.Equal(t, "Vera Visitor", NormalizeString("  Vera \t  Visitor "))
	assert.Equal(t, "line one\nline two", NormalizeString(" line one\nline two "))
	assert.Equal(t, "", NormalizeString("   "))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "vera@example.com", NormalizeEmail(" Vera@Example.COM "))
}

func TestPhone(t *testing.T) {
	tests := []struct {
		in    string
		norm  string
		valid bool
	}{
		{"+1 (555) 123-4567", "+15551234567", true},
		{"555.123.4567", "5551234567", true},
		{"12", "12", false},
		{"call me at 555 123 4567", "callmeat5551234567", false},
		{"+1234567890123456", "+1234567890123456", false},
		{"١٢٣٤٥٦٧", "١٢٣٤٥٦٧", false},
		{"555+1234567", "555+1234567", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.norm, NormalizePhone(tt.in))
			assert.Equal(t, tt.valid, IsValidPhone(tt.in))
		})
	}
}
