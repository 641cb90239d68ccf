package studioclient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumen-studio/backend/pkg/studio"
	"github.com/lumen-studio/backend/pkg/studioclient"
)

func TestResolveVariantFromStatus(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want studioclient.Variant
	}{
		{"podcast", "podcast", studioclient.VariantPodcast},
		{"course reuses podcast layout", "course", studioclient.VariantPodcast},
		{"teleprompter", "teleprompter", studioclient.VariantTeleprompter},
		{"webinar", "webinar", studioclient.VariantWebinar},
		{"unset defaults to podcast", "", studioclient.VariantPodcast},
		{"unrecognized renders fallback", "hologram", studioclient.VariantFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &studio.CustomerStatus{DisplayMode: tt.mode}
			assert.Equal(t, tt.want, studioclient.ResolveVariant(st, false, ""))
		})
	}
}

func TestResolveVariantNilStatus(t *testing.T) {
	assert.Equal(t, studioclient.VariantPodcast, studioclient.ResolveVariant(nil, false, ""))
}

func TestResolveVariantDirectAccess(t *testing.T) {
	// The route hint wins regardless of any status.
	st := &studio.CustomerStatus{DisplayMode: "webinar"}
	tests := []struct {
		hint studio.DisplayMode
		want studioclient.Variant
	}{
		{studio.ModePodcast, studioclient.VariantPodcast},
		{studio.ModeCourse, studioclient.VariantPodcast},
		{studio.ModeTeleprompter, studioclient.VariantTeleprompter},
		{studio.ModeWebinar, studioclient.VariantWebinar},
		{"", studioclient.VariantPodcast},
		{"hologram", studioclient.VariantPodcast},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, studioclient.ResolveVariant(st, true, tt.hint))
	}
}

func TestVariantString(t *testing.T) {
	assert.Equal(t, "podcast", studioclient.VariantPodcast.String())
	assert.Equal(t, "fallback", studioclient.VariantFallback.String())
}
