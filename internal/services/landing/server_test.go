package landing

import (
	"context"
	"io"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/tutoring-landing/internal/services/landing/booking"
	"github.com/louisbranch/tutoring-landing/internal/services/landing/i18n"
	"github.com/louisbranch/tutoring-landing/internal/services/landing/routepath"
	"golang.org/x/net/html"
)

func newTestHandler(t *testing.T, cfg Config) http.Handler {
	t.Helper()

	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}
	h, err := NewHandler(cfg)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return h
}

func serve(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, *html.Node) {
	t.Helper()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/html") {
		return rr, nil
	}
	doc, err := html.Parse(strings.NewReader(rr.Body.String()))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return rr, doc
}

func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attrOf(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func byClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		for _, c := range strings.Fields(attrOf(n, "class")) {
			if c == class {
				return true
			}
		}
		return false
	}
}

func textContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func classText(t *testing.T, doc *html.Node, class string) string {
	t.Helper()
	n := findElement(doc, byClass(class))
	if n == nil {
		t.Fatalf("missing .%s", class)
	}
	return textContent(n)
}

func classAttr(t *testing.T, doc *html.Node, class string, key string) string {
	t.Helper()
	n := findElement(doc, byClass(class))
	if n == nil {
		t.Fatalf("missing .%s", class)
	}
	return attrOf(n, key)
}

func htmlAttr(doc *html.Node, key string) string {
	root := findElement(doc, func(n *html.Node) bool { return n.Data == "html" })
	if root == nil {
		return ""
	}
	return attrOf(root, key)
}

// follow resolves a relative page link into the next request.
func follow(t *testing.T, from *http.Request, href string) *http.Request {
	t.Helper()
	target, err := url.Parse(href)
	if err != nil {
		t.Fatalf("parse href %q: %v", href, err)
	}
	req := httptest.NewRequest(http.MethodGet, target.String(), nil)
	for key, values := range from.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	return req
}

func TestTurkishNarrowScenario(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/?lang=tr", nil)
	req.Header.Set("Sec-CH-Viewport-Width", "1024")
	rr, doc := serve(t, h, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := classAttr(t, doc, "hero", "data-background"); got != "narrow" {
		t.Fatalf("background = %q, want narrow", got)
	}
	if got := classText(t, doc, "hero-title"); got != "Esma ile Arapça Öğren" {
		t.Fatalf("title = %q", got)
	}
	if got := htmlAttr(doc, "dir"); got != "ltr" {
		t.Fatalf("dir = %q, want ltr", got)
	}
	if findElement(doc, byClass("modal")) != nil {
		t.Fatal("dialog must start closed")
	}

	cta := classAttr(t, doc, "cta", "href")
	rr, doc = serve(t, h, follow(t, req, cta))
	if rr.Code != http.StatusOK {
		t.Fatalf("open status = %d", rr.Code)
	}
	want := map[string]string{
		"modal-title":    "Ders Rezervasyonu",
		"modal-duration": "Ders süresi: 1 saat",
		"modal-price":    "Fiyat: 15$",
		"modal-caption":  "Güvenli rezervasyon • Taahhüt yok",
	}
	for class, text := range want {
		if got := classText(t, doc, class); got != text {
			t.Fatalf(".%s = %q, want %q", class, got, text)
		}
	}
	if got := classText(t, doc, "hero-title"); got != "Esma ile Arapça Öğren" {
		t.Fatalf("title after opening = %q", got)
	}
}

func TestEveryLocaleUpdatesTextAndDirection(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Config{})
	table, err := i18n.LoadTable()
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}

	for _, tag := range i18n.Supported() {
		record := table.Lookup(tag)
		req := httptest.NewRequest(http.MethodGet, "/?booking=open&lang="+tag.String(), nil)
		rr, doc := serve(t, h, req)

		if got := rr.Header().Get("Set-Cookie"); !strings.Contains(got, i18n.LangCookieName+"="+tag.String()) {
			t.Fatalf("%s: Set-Cookie = %q", tag, got)
		}
		if got := rr.Header().Get("Content-Language"); got != tag.String() {
			t.Fatalf("%s: Content-Language = %q", tag, got)
		}
		if got := htmlAttr(doc, "dir"); got != string(record.Dir) {
			t.Fatalf("%s: dir = %q, want %q", tag, got, record.Dir)
		}
		fields := map[string]string{
			"hero-title":      record.Title,
			"hero-subtitle":   record.Subtitle,
			"cta":             record.BookNow,
			"modal-title":     record.ModalTitle,
			"modal-duration":  record.Duration,
			"modal-price":     record.Price + ": 15$",
			"modal-caption":   record.Caption,
			"calendar-action": record.OpenCalendar,
			"close-control":   record.Close,
		}
		for class, want := range fields {
			if got := classText(t, doc, class); got != want {
				t.Fatalf("%s: .%s = %q, want %q", tag, class, got, want)
			}
		}
	}
}

func TestPriceIsFixedAcrossLocales(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Config{})
	for _, tag := range i18n.Supported() {
		_, doc := serve(t, h, httptest.NewRequest(http.MethodGet, "/?booking=open&lang="+tag.String(), nil))
		if got := classText(t, doc, "amount"); got != "15$" {
			t.Fatalf("%s: price = %q, want %q", tag, got, "15$")
		}
	}
}

func TestBackgroundBreakpoint(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Config{})
	tests := []struct {
		width string
		want  string
	}{
		{width: "1279", want: "narrow"},
		{width: "1280", want: "wide"},
		{width: "1281", want: "wide"},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Viewport-Width", tc.width)
		rr, doc := serve(t, h, req)
		if got := classAttr(t, doc, "hero", "data-background"); got != tc.want {
			t.Fatalf("width %s: background = %q, want %q", tc.width, got, tc.want)
		}
		if got := rr.Header().Get("Accept-CH"); !strings.Contains(got, "Sec-CH-Viewport-Width") {
			t.Fatalf("Accept-CH = %q", got)
		}
		if got := rr.Header().Get("Vary"); !strings.Contains(got, "Viewport-Width") {
			t.Fatalf("Vary = %q", got)
		}
	}
}

func TestBookingDialogTransitions(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Config{})
	openReq := httptest.NewRequest(http.MethodGet, "/?lang=en&booking=open", nil)
	_, doc := serve(t, h, openReq)
	if findElement(doc, byClass("modal")) == nil {
		t.Fatal("dialog should be open")
	}

	for _, control := range []string{"modal-backdrop", "close-control"} {
		href := classAttr(t, doc, control, "href")
		_, next := serve(t, h, follow(t, openReq, href))
		if findElement(next, byClass("modal")) != nil {
			t.Fatalf("%s did not close the dialog (href %q)", control, href)
		}
		if got := htmlAttr(next, "lang"); got != "en" {
			t.Fatalf("%s lost the locale: lang = %q", control, got)
		}
	}

	body := findElement(doc, byClass("modal-body"))
	for p := body.Parent; p != nil; p = p.Parent {
		if p.Data == "a" {
			t.Fatal("dialog body sits inside a link")
		}
	}
	if next, _ := booking.Transition(booking.Open, booking.BodyClick); next != booking.Open {
		t.Fatalf("body click state = %s, want open", next)
	}
}

func TestSwitchingLocaleKeepsDialogOpen(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Config{})
	req := httptest.NewRequest(http.MethodGet, "/?lang=ar&booking=open", nil)
	_, doc := serve(t, h, req)
	en := findElement(doc, func(n *html.Node) bool { return n.Data == "a" && attrOf(n, "data-lang") == "en" })
	if en == nil {
		t.Fatal("missing en switcher option")
	}
	_, next := serve(t, h, follow(t, req, attrOf(en, "href")))
	if got := classText(t, next, "modal-title"); got != "Lesson Booking" {
		t.Fatalf("modal title = %q, want %q", got, "Lesson Booking")
	}
	if got := htmlAttr(next, "dir"); got != "ltr" {
		t.Fatalf("dir = %q, want ltr", got)
	}
}

func TestLanguageCookieAndAcceptLanguage(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: i18n.LangCookieName, Value: "tr"})
	rr, doc := serve(t, h, req)
	if got := htmlAttr(doc, "lang"); got != "tr" {
		t.Fatalf("cookie lang = %q, want tr", got)
	}
	if got := rr.Header().Get("Set-Cookie"); got != "" {
		t.Fatalf("cookie-only request set cookie %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")
	_, doc = serve(t, h, req)
	if got := htmlAttr(doc, "lang"); got != "en" {
		t.Fatalf("accept-language lang = %q, want en", got)
	}

	_, doc = serve(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := htmlAttr(doc, "dir"); got != "rtl" {
		t.Fatalf("default dir = %q, want rtl", got)
	}
}

func TestConfiguredDefaultLanguage(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Config{DefaultLang: "en"})
	_, doc := serve(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := htmlAttr(doc, "lang"); got != "en" {
		t.Fatalf("lang = %q, want en", got)
	}
}

func TestCalendarRedirect(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Config{})
	rr, _ := serve(t, h, httptest.NewRequest(http.MethodGet, routepath.Calendar+"?lang=tr", nil))
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusFound)
	}
	if got := rr.Header().Get("Location"); got != booking.CalendarURL {
		t.Fatalf("Location = %q, want %q", got, booking.CalendarURL)
	}

	custom := newTestHandler(t, Config{CalendarURL: "https://example.com/calendar"})
	rr, _ = serve(t, custom, httptest.NewRequest(http.MethodGet, routepath.Calendar, nil))
	if got := rr.Header().Get("Location"); got != "https://example.com/calendar" {
		t.Fatalf("custom Location = %q", got)
	}
}

func TestHealthStaticAndNotFound(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Config{})

	rr, _ := serve(t, h, httptest.NewRequest(http.MethodGet, routepath.Health, nil))
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "ok" {
		t.Fatalf("health = %d %q", rr.Code, rr.Body.String())
	}

	for _, asset := range []string{"/static/landing.css", "/static/hero.png", "/static/hero-large.png"} {
		rr, _ = serve(t, h, httptest.NewRequest(http.MethodGet, asset, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want %d", asset, rr.Code, http.StatusOK)
		}
	}

	rr, doc := serve(t, h, httptest.NewRequest(http.MethodGet, "/nope?lang=tr", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if got := classText(t, doc, "not-found"); !strings.Contains(got, "Bu sayfa mevcut değil.") {
		t.Fatalf("not found text = %q", got)
	}
}

func TestMethodsOtherThanReadAreRejected(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Config{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodHead, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("HEAD status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestNewHandlerValidatesConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(Config{CalendarURL: "javascript:alert(1)"}); err == nil {
		t.Fatal("expected calendar url error")
	}
	if _, err := NewHandler(Config{CalendarURL: "/relative"}); err == nil {
		t.Fatal("expected relative calendar url error")
	}
	if _, err := NewHandler(Config{DefaultLang: "de"}); err == nil {
		t.Fatal("expected default language error")
	}
}

func TestNewServerRequiresAddress(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(Config{}); err == nil {
		t.Fatal("expected http address error")
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	server, err := NewServer(Config{
		HTTPAddr: "127.0.0.1:0",
		OpsAddr:  "127.0.0.1:0",
		Logger:   log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	defer server.Close()
	health := &recordingHealth{}
	server.health = health

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.ListenAndServe(ctx)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe() error = %v", err)
		}
		if got := health.transitions(); len(got) != 2 || !got[0] || got[1] {
			t.Fatalf("serving transitions = %v, want [true false]", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
}

func TestListenAndServeRequiresServer(t *testing.T) {
	t.Parallel()

	var server *Server
	if err := server.ListenAndServe(context.Background()); err == nil {
		t.Fatal("expected nil server error")
	}
}

func TestListenAndServeReportsHealthOnlyAfterBinding(t *testing.T) {
	t.Parallel()

	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer busy.Close()

	server, err := NewServer(Config{
		HTTPAddr: busy.Addr().String(),
		OpsAddr:  "127.0.0.1:0",
		Logger:   log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	defer server.Close()
	health := &recordingHealth{}
	server.health = health

	err = server.ListenAndServe(context.Background())
	if err == nil || !strings.Contains(err.Error(), "listen http") {
		t.Fatalf("ListenAndServe() error = %v, want listen http error", err)
	}
	if got := health.transitions(); len(got) != 0 {
		t.Fatalf("serving transitions = %v, want none", got)
	}
}

type recordingHealth struct {
	mu    sync.Mutex
	calls []bool
}

func (h *recordingHealth) SetServing(serving bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, serving)
}

func (h *recordingHealth) Serve(ctx context.Context, lis net.Listener, _ time.Duration) error {
	<-ctx.Done()
	return lis.Close()
}

func (h *recordingHealth) transitions() []bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]bool(nil), h.calls...)
}
