package studio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDisplayMode(t *testing.T) {
	tests := []struct {
		in     string
		want   DisplayMode
		wantOK bool
	}{
		{"podcast", ModePodcast, true},
		{"teleprompter", ModeTeleprompter, true},
		{"webinar", ModeWebinar, true},
		{"course", ModeCourse, true},
		{"", ModeUnknown, false},
		{"karaoke", ModeUnknown, false},
		{"Podcast", ModeUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDisplayMode(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestClampScrollSpeed(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-10, 1},
		{0, 1},
		{1, 1},
		{50, 50},
		{100, 100},
		{101, 100},
		{100000, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampScrollSpeed(tt.in))
	}
}

func TestCustomerStatusMode(t *testing.T) {
	assert.Equal(t, ModeWebinar, CustomerStatus{DisplayMode: "webinar"}.Mode())
	assert.Equal(t, ModeUnknown, CustomerStatus{DisplayMode: "hologram"}.Mode())
	assert.Equal(t, ModeUnknown, CustomerStatus{}.Mode())
}
