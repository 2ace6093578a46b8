// Package viewport selects the hero background for a viewport width.
//
// Browsers re-evaluate the selection on every resize through the
// stylesheet's min-width media query, which uses the same Breakpoint. The
// server only uses it to pick the initial background when the client sends
// a viewport width hint.
package viewport

import (
	"net/http"
	"strconv"
	"strings"
)

// Breakpoint is the smallest width, in CSS pixels, that gets the wide image.
const Breakpoint = 1280

// Background is one hero image variant.
type Background struct {
	Name string
	Path string
}

var (
	Wide   = Background{Name: "wide", Path: "/static/hero-large.png"}
	Narrow = Background{Name: "narrow", Path: "/static/hero.png"}
)

// Client hint headers that carry the layout viewport width, newest first.
const (
	HintViewportWidth       = "Sec-CH-Viewport-Width"
	HintLegacyViewportWidth = "Viewport-Width"
)

// Hints lists the client hints the page asks browsers to send.
var Hints = []string{HintViewportWidth, HintLegacyViewportWidth}

// IsWide reports whether width reaches the breakpoint.
func IsWide(width int) bool {
	return width >= Breakpoint
}

// Select returns the background for width.
func Select(width int) Background {
	if IsWide(width) {
		return Wide
	}
	return Narrow
}

// ResolveWidth reads the viewport width hint from the request.
func ResolveWidth(r *http.Request) (int, bool) {
	if r == nil {
		return 0, false
	}
	for _, header := range Hints {
		raw := strings.TrimSpace(r.Header.Get(header))
		if raw == "" {
			continue
		}
		width, err := strconv.Atoi(raw)
		if err != nil || width <= 0 {
			continue
		}
		return width, true
	}
	return 0, false
}
