package i18n

import (
	"fmt"

	"github.com/louisbranch/tutoring-landing/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Direction is the text direction declared by a locale.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// Record holds every localized string of the page for one locale.
type Record struct {
	Dir             Direction
	Title           string
	Subtitle        string
	BookNow         string
	ModalTitle      string
	Duration        string
	Price           string
	OpenCalendar    string
	Close           string
	Caption         string
	MetaDescription string
	SwitcherLabel   string
	NotFound        string
	BackHome        string
}

var recordKeys = []string{
	"landing.dir",
	"landing.title",
	"landing.subtitle",
	"landing.book_now",
	"landing.modal_title",
	"landing.duration",
	"landing.price",
	"landing.open_calendar",
	"landing.close",
	"landing.caption",
	"landing.meta_description",
	"landing.switcher_label",
	"landing.not_found",
	"landing.back_home",
}

// Table maps each supported locale to its translation record.
type Table struct {
	records map[language.Tag]Record
}

// LoadTable builds the translation table from the embedded catalogs.
func LoadTable() (*Table, error) {
	bundle, err := catalog.LoadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load catalogs: %w", err)
	}
	return NewTable(bundle)
}

// NewTable builds a table from bundle. Every supported locale must define
// every record key itself and declare a valid direction.
func NewTable(bundle *catalog.Bundle) (*Table, error) {
	builder, err := bundle.Builder()
	if err != nil {
		return nil, fmt.Errorf("build message catalog: %w", err)
	}

	base := bundle.LocaleMessages(catalog.BaseLocale)
	for _, key := range recordKeys {
		if _, ok := base[key]; !ok {
			return nil, fmt.Errorf("locale %s: missing message %q", catalog.BaseLocale, key)
		}
	}

	records := make(map[language.Tag]Record, len(supported))
	for _, tag := range supported {
		locale := tag.String()
		if missing := bundle.MissingKeys(locale); len(missing) > 0 {
			return nil, fmt.Errorf("locale %s: missing messages %v", locale, missing)
		}

		p := message.NewPrinter(tag, message.Catalog(builder))
		record := Record{
			Dir:             Direction(p.Sprintf("landing.dir")),
			Title:           p.Sprintf("landing.title"),
			Subtitle:        p.Sprintf("landing.subtitle"),
			BookNow:         p.Sprintf("landing.book_now"),
			ModalTitle:      p.Sprintf("landing.modal_title"),
			Duration:        p.Sprintf("landing.duration"),
			Price:           p.Sprintf("landing.price"),
			OpenCalendar:    p.Sprintf("landing.open_calendar"),
			Close:           p.Sprintf("landing.close"),
			Caption:         p.Sprintf("landing.caption"),
			MetaDescription: p.Sprintf("landing.meta_description"),
			SwitcherLabel:   p.Sprintf("landing.switcher_label"),
			NotFound:        p.Sprintf("landing.not_found"),
			BackHome:        p.Sprintf("landing.back_home"),
		}
		if record.Dir != LTR && record.Dir != RTL {
			return nil, fmt.Errorf("locale %s: invalid direction %q", locale, record.Dir)
		}
		records[tag] = record
	}
	return &Table{records: records}, nil
}

// Lookup returns the record for tag. Unsupported tags get the default
// locale's record, so callers always receive a complete record.
func (t *Table) Lookup(tag language.Tag) Record {
	if t == nil {
		return Record{}
	}
	if record, ok := t.records[tag]; ok {
		return record
	}
	if parsed, ok := ParseTag(tag.String()); ok {
		if record, ok := t.records[parsed]; ok {
			return record
		}
	}
	return t.records[Default()]
}
