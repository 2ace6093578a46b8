// Package landing serves the tutoring landing page.
//
// Page state (locale, booking dialog visibility, initial background) is
// derived from each request and rendered server side, so the page works
// without client scripting. Booking itself is delegated to an external
// calendar page opened in a new tab.
package landing
