package landing

import (
	"net/http"
	"net/url"

	"github.com/louisbranch/tutoring-landing/internal/services/landing/booking"
	"github.com/louisbranch/tutoring-landing/internal/services/landing/i18n"
	"github.com/louisbranch/tutoring-landing/internal/services/landing/routepath"
	"github.com/louisbranch/tutoring-landing/internal/services/landing/templates"
	"github.com/louisbranch/tutoring-landing/internal/services/landing/viewport"
	"golang.org/x/text/language"
)

// PageState is the resolved state of one page view.
type PageState struct {
	Lang       language.Tag
	PersistTag bool
	Record     i18n.Record
	Booking    booking.State
	Width      int
	WidthKnown bool
	Background viewport.Background
	Path       string
	Query      string
}

// resolvePageState derives page state from the request. Without a width
// hint the narrow background is assumed and the stylesheet takes over.
func (h handlers) resolvePageState(r *http.Request) PageState {
	tag, persist := h.resolver.ResolveTag(r)
	width, known := viewport.ResolveWidth(r)
	background := viewport.Narrow
	if known {
		background = viewport.Select(width)
	}
	return PageState{
		Lang:       tag,
		PersistTag: persist,
		Record:     h.table.Lookup(tag),
		Booking:    booking.ParseState(r.URL.Query().Get(booking.QueryParam)),
		Width:      width,
		WidthKnown: known,
		Background: background,
		Path:       r.URL.Path,
		Query:      r.URL.RawQuery,
	}
}

// View maps the state onto the template view model.
func (s PageState) View() templates.Page {
	lang := s.Lang.String()
	calendar := url.Values{}
	calendar.Set(i18n.LangParam, lang)
	return templates.Page{
		Lang:        lang,
		Record:      s.Record,
		Languages:   i18n.BuildLanguageOptions(s.Lang, s.Path, s.Query),
		Background:  s.Background,
		WidthKnown:  s.WidthKnown,
		BookingOpen: s.Booking == booking.Open,
		OpenURL:     booking.TargetURL(s.Path, s.Query, s.Booking, booking.ActivateCTA),
		CloseURL:    booking.TargetURL(s.Path, s.Query, s.Booking, booking.CloseControl),
		CalendarURL: routepath.Calendar + "?" + calendar.Encode(),
		HomeURL:     i18n.LanguageURL(routepath.Root, "", lang),
		Price:       booking.FormatPrice(booking.FixedPrice),
	}
}
