// Package report renders users and items into PDF documents.
//
// Rendering runs in three stages: a Layout describing header, sections and rows is
// built from the input collections, bound into an HTML document styled by a fixed
// embedded stylesheet, and the document is rasterized into PDF pages.
package report

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"portal-backend/internal/domain"
)

// Kind names a report.
type Kind string

const (
	KindUsers         Kind = "users"
	KindItems         Kind = "items"
	KindComprehensive Kind = "comprehensive"
)

// ParseKind validates a report name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindUsers, KindItems, KindComprehensive:
		return k, nil
	}
	return "", fmt.Errorf("unknown report %q: %w", s, domain.ErrInvalid)
}

// Filename is the attachment name used when serving the report.
func (k Kind) Filename() string {
	return string(k) + "_report.pdf"
}

// ErrGeneration matches every error returned by Render and Markup.
var ErrGeneration = errors.New("report generation failed")

// Error reports which rendering stage failed and why.
type Error struct {
	Kind  Kind
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s report: %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrGeneration }

// Data carries the collections a report is rendered from. Rows keep the order given here.
type Data struct {
	Users []domain.User
	Items []domain.Item
}

// Options configures a Renderer.
type Options struct {
	// Brand is printed in the footer of every report.
	Brand string
	// Locale controls number formatting of summary counters, e.g. "en" or "de".
	Locale string
	// Compress enables stream compression in the PDF output.
	Compress bool
	// Fonts replaces the embedded Go fonts, e.g. with a CJK capable face.
	// Either style left empty falls back to the Go font of that weight.
	Fonts Fonts
	// Now supplies the generation timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Renderer turns report data into markup and PDF. It holds no per-request state and
// is safe for concurrent use.
type Renderer struct {
	brand    string
	printer  *message.Printer
	compress bool
	fonts    Fonts
	now      func() time.Time
	tmpl     *template.Template
}

func NewRenderer(opts Options) (*Renderer, error) {
	tag := language.English
	if opts.Locale != "" {
		parsed, err := language.Parse(opts.Locale)
		if err != nil {
			return nil, fmt.Errorf("parse report locale: %w", err)
		}
		tag = parsed
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Brand == "" {
		opts.Brand = "Portal"
	}
	if len(opts.Fonts.Regular) == 0 {
		opts.Fonts.Regular = goregular.TTF
	}
	if len(opts.Fonts.Bold) == 0 {
		opts.Fonts.Bold = gobold.TTF
	}

	tmpl, err := parseMarkupTemplate()
	if err != nil {
		return nil, err
	}
	if _, err := parseStylesheet(stylesheetSource); err != nil {
		return nil, err
	}

	return &Renderer{
		brand:    opts.Brand,
		printer:  message.NewPrinter(tag),
		compress: opts.Compress,
		fonts:    opts.Fonts,
		now:      opts.Now,
		tmpl:     tmpl,
	}, nil
}

// Layout builds the structured description of a report. Empty collections produce
// a header with empty tables.
func (r *Renderer) Layout(kind Kind, data Data) (*Layout, error) {
	switch kind {
	case KindUsers:
		return r.usersLayout(data.Users), nil
	case KindItems:
		return r.itemsLayout(data.Items), nil
	case KindComprehensive:
		return r.comprehensiveLayout(data.Users, data.Items), nil
	}
	return nil, &Error{Kind: kind, Stage: "layout", Err: fmt.Errorf("unknown report kind %q", kind)}
}

// Markup renders the intermediate HTML document.
func (r *Renderer) Markup(kind Kind, data Data) ([]byte, error) {
	layout, err := r.Layout(kind, data)
	if err != nil {
		return nil, err
	}
	markup, err := r.bind(layout)
	if err != nil {
		return nil, &Error{Kind: kind, Stage: "bind", Err: err}
	}
	return markup, nil
}

// Render produces the PDF document for kind.
func (r *Renderer) Render(kind Kind, data Data) ([]byte, error) {
	layout, err := r.Layout(kind, data)
	if err != nil {
		return nil, err
	}
	return r.renderLayout(layout)
}

func (r *Renderer) renderLayout(layout *Layout) ([]byte, error) {
	markup, err := r.bind(layout)
	if err != nil {
		return nil, &Error{Kind: layout.Kind, Stage: "bind", Err: err}
	}
	doc, err := rasterize(markup, layout.GeneratedAt, r.fonts, r.compress)
	if err != nil {
		return nil, &Error{Kind: layout.Kind, Stage: "rasterize", Err: err}
	}
	return doc, nil
}
