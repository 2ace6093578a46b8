// Package templates renders the landing page as templ components.
package templates

import (
	"github.com/louisbranch/tutoring-landing/internal/services/landing/i18n"
	"github.com/louisbranch/tutoring-landing/internal/services/landing/viewport"
)

// Page is everything a landing render needs. It is built per request.
type Page struct {
	Lang        string
	Record      i18n.Record
	Languages   []i18n.LanguageOption
	Background  viewport.Background
	WidthKnown  bool
	BookingOpen bool
	OpenURL     string
	CloseURL    string
	CalendarURL string
	HomeURL     string
	Price       string
}
