package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"national number", "98765 43210", "+919876543210"},
		{"already e164", "+919876543210", "+919876543210"},
		{"surrounding whitespace", "  +91 98765 43210 ", "+919876543210"},
		{"foreign e164", "+31612345678", "+31612345678"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeE164(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeE164Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"not a number", "call me maybe"},
		{"too short", "12345"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizeE164(tc.input)
			require.Error(t, err)
		})
	}
}
