package bgtools

import (
	"fmt"
)

// ResolveWindow converts a window in base pairs to a number of bins. The
// result is always odd so that every window has a center bin.
func ResolveWindow(windowBp, resolution int) (int, error) {
	h := handle("ResolveWindow: %w")

	if resolution <= 0 {
		return 0, h(fmt.Errorf("%w: resolution %d", ErrWindowTooSmall, resolution))
	}
	if windowBp <= 0 {
		return 0, h(fmt.Errorf("%w: %d bp", ErrWindowTooSmall, windowBp))
	}
	// a window narrower than one bin rounds up to the single center bin
	bins := windowBp / resolution
	if bins%2 == 0 {
		bins++
	}
	return bins, nil
}

// HalfWidth returns the number of bins on each side of the center of an
// odd window.
func HalfWidth(w int) int {
	return (w - 1) / 2
}
