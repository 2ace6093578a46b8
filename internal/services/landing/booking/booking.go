// Package booking models the booking dialog: a two-state machine, the fixed
// lesson price, and the outbound calendar link. Booking itself happens on
// the third-party calendar page.
package booking

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// QueryParam carries the dialog state in page URLs.
	QueryParam = "booking"

	// FixedPrice is the lesson price shown in every locale.
	FixedPrice = 15

	// CalendarURL is the external calendar-booking page.
	CalendarURL = "https://calendar.app.google/3eKBCqfq3UKN8syL9"
)

// State is the visibility of the booking dialog.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// ParseState reads a query value. Anything but "open" is Closed.
func ParseState(value string) State {
	if strings.EqualFold(strings.TrimSpace(value), "open") {
		return Open
	}
	return Closed
}

// Event is a user action on the page.
type Event int

const (
	ActivateCTA Event = iota
	BackdropClick
	BodyClick
	CloseControl
	OpenCalendar
)

// Effect is a side effect requested by a transition.
type Effect int

const (
	EffectNone Effect = iota
	// EffectOpenCalendar opens CalendarURL in a new browsing context.
	EffectOpenCalendar
)

// Transition applies event to state. Clicks inside the dialog body never
// close it, and opening the calendar leaves the dialog open.
func Transition(state State, event Event) (State, Effect) {
	switch state {
	case Closed:
		if event == ActivateCTA {
			return Open, EffectNone
		}
	case Open:
		switch event {
		case BackdropClick, CloseControl:
			return Closed, EffectNone
		case OpenCalendar:
			return Open, EffectOpenCalendar
		}
	}
	return state, EffectNone
}

// FormatPrice renders a price with the currency-agnostic unit label. Digits
// are always ASCII regardless of locale.
func FormatPrice(amount int) string {
	return strconv.Itoa(amount) + "$"
}

// StateURL returns path with the current query rewritten for state. The
// Closed state drops the param entirely.
func StateURL(path string, rawQuery string, state State) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	if state == Open {
		query.Set(QueryParam, Open.String())
	} else {
		query.Del(QueryParam)
	}
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}

// TargetURL returns the URL reached after event fires in state.
func TargetURL(path string, rawQuery string, state State, event Event) string {
	next, _ := Transition(state, event)
	return StateURL(path, rawQuery, next)
}
