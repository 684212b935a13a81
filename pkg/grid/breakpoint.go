package grid

// Breakpoint names a viewport-size regime with its own layout policy.
// Desktop layouts are user-customizable and persisted; mobile layouts are
// single-column, recomputed on every load, and never persisted.
type Breakpoint int

const (
	// Desktop is the wide-viewport regime with a persisted, multi-column layout.
	Desktop Breakpoint = iota
	// Mobile is the narrow-viewport regime with a derived single-column layout.
	Mobile
)

// MobileMaxWidth is the viewport width threshold, in pixels, at or below
// which the mobile breakpoint applies.
const MobileMaxWidth = 768

// BreakpointForWidth derives the breakpoint from a viewport width in pixels.
func BreakpointForWidth(px int) Breakpoint {
	if px <= MobileMaxWidth {
		return Mobile
	}
	return Desktop
}

// String returns the breakpoint name ("desktop" or "mobile").
func (b Breakpoint) String() string {
	switch b {
	case Desktop:
		return "desktop"
	case Mobile:
		return "mobile"
	}
	return "unknown"
}

// Source tags where an active layout snapshot came from. Exactly one source
// is active at a time per breakpoint; it is carried for diagnostics only.
type Source int

const (
	// SourceDefault marks a layout taken from the built-in defaults.
	SourceDefault Source = iota
	// SourceSavedDesktop marks a layout restored from desktop storage.
	SourceSavedDesktop
	// SourceSavedMobile exists for symmetry; mobile layouts are never saved,
	// so it is never produced by the store.
	SourceSavedMobile
	// SourceRuntime marks a layout produced by live interaction or import.
	SourceRuntime
)

// String returns a short tag for logging.
func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceSavedDesktop:
		return "saved-desktop"
	case SourceSavedMobile:
		return "saved-mobile"
	case SourceRuntime:
		return "runtime"
	}
	return "unknown"
}
