package landing

import (
	"bytes"
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/tutoring-landing/internal/platform/requestctx"
	"github.com/louisbranch/tutoring-landing/internal/services/landing/httpx"
	"github.com/louisbranch/tutoring-landing/internal/services/landing/i18n"
	"github.com/louisbranch/tutoring-landing/internal/services/landing/routepath"
	"github.com/louisbranch/tutoring-landing/internal/services/landing/static"
	"github.com/louisbranch/tutoring-landing/internal/services/landing/templates"
	"github.com/louisbranch/tutoring-landing/internal/services/landing/viewport"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var varyHeaders = strings.Join(append(append([]string{}, viewport.Hints...), "Accept-Language", "Cookie"), ", ")

type handlers struct {
	table       *i18n.Table
	resolver    i18n.Resolver
	calendarURL string
}

func registerRoutes(mux *http.ServeMux, h handlers) {
	mux.HandleFunc(routepath.RootExact, h.handleRoot)
	mux.HandleFunc(routepath.Calendar, h.handleCalendar)
	mux.HandleFunc(routepath.Health, h.handleHealth)
	mux.Handle(routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(static.FS))))
	mux.HandleFunc(routepath.Root, h.handleNotFound)
}

func (h handlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	state := h.resolvePageState(r)
	h.writePage(w, r, state, http.StatusOK, templates.LandingPage(state.View()))
}

// handleCalendar sends the visitor to the external booking page. The
// navigation is fire-and-forget: nothing about it is awaited or stored.
func (h handlers) handleCalendar(w http.ResponseWriter, r *http.Request) {
	tag, _ := h.resolver.ResolveTag(r)
	trace.SpanFromContext(r.Context()).AddEvent("booking.calendar_redirect",
		trace.WithAttributes(attribute.String("lang", tag.String())))
	log.Printf("calendar redirect lang=%s request_id=%s", tag, requestctx.RequestIDFromContext(r.Context()))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Referrer-Policy", "no-referrer")
	http.Redirect(w, r, h.calendarURL, http.StatusFound)
}

func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteHTML(w, http.StatusOK, "ok")
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	state := h.resolvePageState(r)
	h.writePage(w, r, state, http.StatusNotFound, templates.NotFoundPage(state.View()))
}

func (h handlers) writePage(w http.ResponseWriter, r *http.Request, state PageState, status int, page templ.Component) {
	var rendered bytes.Buffer
	if err := page.Render(r.Context(), &rendered); err != nil {
		log.Printf("render page path=%s lang=%s: %v", r.URL.Path, state.Lang, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if state.PersistTag {
		i18n.SetLanguageCookie(w, state.Lang)
	}
	header := w.Header()
	header.Set("Content-Type", "text/html; charset=utf-8")
	header.Set("Content-Language", state.Lang.String())
	header.Set("Accept-CH", strings.Join(viewport.Hints, ", "))
	header.Set("Vary", varyHeaders)
	w.WriteHeader(status)
	_, _ = w.Write(rendered.Bytes())
}
