package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/louisbranch/tutoring-landing/internal/services/landing/i18n"
	"github.com/louisbranch/tutoring-landing/internal/services/landing/viewport"
	"golang.org/x/net/html"
	"golang.org/x/text/language"
)

func testPage(t *testing.T, tag language.Tag, open bool) Page {
	t.Helper()

	table, err := i18n.LoadTable()
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	return Page{
		Lang:        tag.String(),
		Record:      table.Lookup(tag),
		Languages:   i18n.BuildLanguageOptions(tag, "/", ""),
		Background:  viewport.Narrow,
		BookingOpen: open,
		OpenURL:     "/?booking=open",
		CloseURL:    "/",
		CalendarURL: "/book/calendar?lang=" + tag.String(),
		HomeURL:     "/",
		Price:       "15$",
	}
}

func render(t *testing.T, c templ.Component) *html.Node {
	t.Helper()

	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := html.Parse(&buf)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		for _, c := range strings.Fields(attr(n, "class")) {
			if c == class {
				return true
			}
		}
		return false
	}
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func mustFind(t *testing.T, doc *html.Node, class string) *html.Node {
	t.Helper()
	n := find(doc, hasClass(class))
	if n == nil {
		t.Fatalf("missing element .%s", class)
	}
	return n
}

func TestLandingPageSetsLanguageAndDirection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag     language.Tag
		wantDir string
	}{
		{tag: language.Arabic, wantDir: "rtl"},
		{tag: language.Turkish, wantDir: "ltr"},
		{tag: language.English, wantDir: "ltr"},
	}
	for _, tc := range tests {
		page := testPage(t, tc.tag, false)
		doc := render(t, LandingPage(page))
		root := find(doc, func(n *html.Node) bool { return n.Data == "html" })
		if root == nil {
			t.Fatalf("%s: missing html element", tc.tag)
		}
		if got := attr(root, "dir"); got != tc.wantDir {
			t.Fatalf("%s: dir = %q, want %q", tc.tag, got, tc.wantDir)
		}
		if got := attr(root, "lang"); got != tc.tag.String() {
			t.Fatalf("%s: lang = %q, want %q", tc.tag, got, tc.tag.String())
		}
		if got := textOf(mustFind(t, doc, "hero-title")); got != page.Record.Title {
			t.Fatalf("%s: title = %q, want %q", tc.tag, got, page.Record.Title)
		}
		if got := textOf(mustFind(t, doc, "hero-subtitle")); got != page.Record.Subtitle {
			t.Fatalf("%s: subtitle = %q, want %q", tc.tag, got, page.Record.Subtitle)
		}
		if got := textOf(mustFind(t, doc, "cta")); got != page.Record.BookNow {
			t.Fatalf("%s: cta = %q, want %q", tc.tag, got, page.Record.BookNow)
		}
	}
}

func TestLandingPageClosedOmitsDialog(t *testing.T) {
	t.Parallel()

	doc := render(t, LandingPage(testPage(t, language.English, false)))
	if find(doc, hasClass("modal")) != nil {
		t.Fatal("closed page rendered the booking dialog")
	}
	if got := attr(mustFind(t, doc, "cta"), "href"); got != "/?booking=open" {
		t.Fatalf("cta href = %q, want %q", got, "/?booking=open")
	}
}

func TestBookingModalContent(t *testing.T) {
	t.Parallel()

	page := testPage(t, language.Turkish, true)
	doc := render(t, LandingPage(page))

	checks := map[string]string{
		"modal-title":     "Ders Rezervasyonu",
		"modal-duration":  "Ders süresi: 1 saat",
		"modal-price":     "Fiyat: 15$",
		"modal-caption":   "Güvenli rezervasyon • Taahhüt yok",
		"calendar-action": "Takvimi aç ve saat seç",
		"close-control":   "Kapat",
	}
	for class, want := range checks {
		if got := textOf(mustFind(t, doc, class)); got != want {
			t.Fatalf(".%s text = %q, want %q", class, got, want)
		}
	}

	calendar := mustFind(t, doc, "calendar-action")
	if got := attr(calendar, "target"); got != "_blank" {
		t.Fatalf("calendar target = %q, want _blank", got)
	}
	if got := attr(calendar, "rel"); !strings.Contains(got, "noopener") {
		t.Fatalf("calendar rel = %q, want noopener", got)
	}
	if got := attr(calendar, "href"); got != "/book/calendar?lang=tr" {
		t.Fatalf("calendar href = %q", got)
	}
	if got := attr(mustFind(t, doc, "close-control"), "href"); got != "/" {
		t.Fatalf("close href = %q, want %q", got, "/")
	}
	if got := attr(mustFind(t, doc, "modal-backdrop"), "href"); got != "/" {
		t.Fatalf("backdrop href = %q, want %q", got, "/")
	}
}

func TestBookingModalBodyIsOutsideBackdrop(t *testing.T) {
	t.Parallel()

	doc := render(t, LandingPage(testPage(t, language.English, true)))
	backdrop := mustFind(t, doc, "modal-backdrop")
	if backdrop.FirstChild != nil {
		t.Fatal("backdrop link must not wrap dialog content")
	}
	body := mustFind(t, doc, "modal-body")
	for p := body.Parent; p != nil; p = p.Parent {
		if p == backdrop || p.Data == "a" {
			t.Fatal("dialog body is nested inside a link")
		}
	}
	if attr(body, "role") != "dialog" {
		t.Fatalf("dialog role = %q", attr(body, "role"))
	}
}

func TestLanguageSwitcherMarksActiveLocale(t *testing.T) {
	t.Parallel()

	doc := render(t, LandingPage(testPage(t, language.Arabic, false)))
	switcher := mustFind(t, doc, "switcher")
	var langs []string
	var active string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			langs = append(langs, attr(n, "data-lang"))
			if attr(n, "aria-current") == "true" {
				active = attr(n, "data-lang")
				if find(n, hasClass("lang-pill")) == nil {
					t.Fatalf("active option %q missing highlight", active)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(switcher)
	if strings.Join(langs, ",") != "ar,tr,en" {
		t.Fatalf("switcher order = %v, want ar,tr,en", langs)
	}
	if active != "ar" {
		t.Fatalf("active = %q, want ar", active)
	}
}

func TestLayoutPreloadsBackgroundOnlyWhenWidthKnown(t *testing.T) {
	t.Parallel()

	page := testPage(t, language.English, false)
	isPreload := func(n *html.Node) bool { return n.Data == "link" && attr(n, "rel") == "preload" }

	if find(render(t, LandingPage(page)), isPreload) != nil {
		t.Fatal("unexpected preload without width hint")
	}

	page.WidthKnown = true
	page.Background = viewport.Wide
	doc := render(t, LandingPage(page))
	preload := find(doc, isPreload)
	if preload == nil {
		t.Fatal("missing preload with width hint")
	}
	if got := attr(preload, "href"); got != viewport.Wide.Path {
		t.Fatalf("preload href = %q, want %q", got, viewport.Wide.Path)
	}
	if got := attr(mustFind(t, doc, "hero"), "data-background"); got != "wide" {
		t.Fatalf("data-background = %q, want wide", got)
	}
}

func TestTextIsEscaped(t *testing.T) {
	t.Parallel()

	page := testPage(t, language.English, true)
	page.Record.Title = `<script>alert("x")</script>`
	var buf bytes.Buffer
	if err := LandingPage(page).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Fatalf("title was not escaped: %s", buf.String())
	}
}

func TestNotFoundPage(t *testing.T) {
	t.Parallel()

	page := testPage(t, language.Turkish, false)
	doc := render(t, NotFoundPage(page))
	main := mustFind(t, doc, "not-found")
	if !strings.Contains(textOf(main), page.Record.NotFound) {
		t.Fatalf("not found text = %q", textOf(main))
	}
	if got := attr(mustFind(t, doc, "cta"), "href"); got != "/" {
		t.Fatalf("home href = %q", got)
	}
}

func TestUnsafeLinkTargetsAreSanitized(t *testing.T) {
	t.Parallel()

	page := testPage(t, language.English, true)
	page.OpenURL = "javascript:alert(1)"
	page.CloseURL = "javascript:alert(2)"
	doc := render(t, LandingPage(page))

	for _, class := range []string{"cta", "close-control", "modal-backdrop"} {
		if got := attr(mustFind(t, doc, class), "href"); got != string(templ.FailedSanitizationURL) {
			t.Fatalf(".%s href = %q, want %q", class, got, templ.FailedSanitizationURL)
		}
	}
	if got := attr(mustFind(t, doc, "calendar-action"), "href"); got != "/book/calendar?lang=en" {
		t.Fatalf("calendar href = %q", got)
	}
}
