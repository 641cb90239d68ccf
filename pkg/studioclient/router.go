package studioclient

import "github.com/lumen-studio/backend/pkg/studio"

// Variant is the layout a display surface renders. The router always selects
// exactly one.
type Variant int

const (
	// VariantPodcast is the default layout; course sessions reuse it.
	VariantPodcast Variant = iota
	VariantTeleprompter
	VariantWebinar
	// VariantFallback is the "unknown mode" notice shown for modes this
	// build does not recognize. It is a display state, not an error.
	VariantFallback
)

func (v Variant) String() string {
	switch v {
	case VariantPodcast:
		return "podcast"
	case VariantTeleprompter:
		return "teleprompter"
	case VariantWebinar:
		return "webinar"
	default:
		return "fallback"
	}
}

// ResolveVariant selects the layout for a surface. In direct-access mode the
// static route's hint wins and the status is ignored; otherwise the polled
// status decides. An unset mode defaults to podcast; an unrecognized mode
// from a live backend resolves to the fallback notice rather than failing.
func ResolveVariant(status *studio.CustomerStatus, directAccess bool, routeHint studio.DisplayMode) Variant {
	var mode studio.DisplayMode
	switch {
	case directAccess:
		mode = routeHint
		if !mode.Valid() {
			mode = studio.ModePodcast
		}
	case status == nil || status.DisplayMode == "":
		mode = studio.ModePodcast
	default:
		parsed, ok := studio.ParseDisplayMode(status.DisplayMode)
		if !ok {
			return VariantFallback
		}
		mode = parsed
	}

	switch mode {
	case studio.ModePodcast, studio.ModeCourse:
		return VariantPodcast
	case studio.ModeTeleprompter:
		return VariantTeleprompter
	case studio.ModeWebinar:
		return VariantWebinar
	default:
		return VariantFallback
	}
}
