package studio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAccessToken(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
		wantOK  bool
	}{
		{"standard message", "Booking activated. Access token: abc123", "abc123", true},
		{"extra whitespace", "Access token:   tok-55", "tok-55", true},
		{"token mid-sentence", "OK. Access token: x9 and more", "x9", true},
		{"no pattern", "Booking activated.", "", false},
		{"empty", "", "", false},
		{"pattern but no token", "Access token: ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractAccessToken(tt.message)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActivationMessageRoundTrip(t *testing.T) {
	tok, ok := ExtractAccessToken(ActivationMessage("sess-42"))
	assert.True(t, ok)
	assert.Equal(t, "sess-42", tok)
}
