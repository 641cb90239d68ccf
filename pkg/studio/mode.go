// Package studio defines the wire types shared by the booking backend and
// the surfaces that observe a live session (control panel, kiosk, studio
// display).
package studio

// DisplayMode selects which on-screen layout a studio display renders.
type DisplayMode string

const (
	ModePodcast      DisplayMode = "podcast"
	ModeTeleprompter DisplayMode = "teleprompter"
	ModeWebinar      DisplayMode = "webinar"
	ModeCourse       DisplayMode = "course"
	// ModeUnknown marks a mode string this build does not recognize. A live
	// backend may send modes a deployed display has never heard of; unknown
	// is a display state, not an error.
	ModeUnknown DisplayMode = ""
)

// Scroll speed bounds for the teleprompter, in percent.
const (
	MinScrollSpeed     = 1
	MaxScrollSpeed     = 100
	DefaultScrollSpeed = 50
)

// ParseDisplayMode maps a wire string to a DisplayMode. Unrecognized values
// return ModeUnknown and ok=false; callers must treat that as a renderable
// state, never reject the whole status payload over it.
func ParseDisplayMode(s string) (DisplayMode, bool) {
	switch DisplayMode(s) {
	case ModePodcast, ModeTeleprompter, ModeWebinar, ModeCourse:
		return DisplayMode(s), true
	}
	return ModeUnknown, false
}

// Valid reports whether m is one of the recognized display modes.
func (m DisplayMode) Valid() bool {
	_, ok := ParseDisplayMode(string(m))
	return ok
}

// ClampScrollSpeed forces a teleprompter scroll speed into [1,100].
// Zero and negatives clamp to the minimum so a display never stalls.
func ClampScrollSpeed(percent int) int {
	if percent < MinScrollSpeed {
		return MinScrollSpeed
	}
	if percent > MaxScrollSpeed {
		return MaxScrollSpeed
	}
	return percent
}
