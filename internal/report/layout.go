package report

import (
	"strconv"
	"time"

	"portal-backend/internal/domain"
)

// TimestampLayout is the fixed pattern used for every timestamp printed in a report.
const TimestampLayout = "2006-01-02 15:04:05"

// Layout describes a report independently of its output format: a header, ordered
// sections and a footer.
type Layout struct {
	Kind        Kind
	Title       string
	GeneratedAt time.Time
	Subtitles   []string
	Summary     []Stat
	Sections    []Section
	Footer      string
}

// Section is a titled table preceded by its own summary counters.
type Section struct {
	Title           string
	Summary         []Stat
	Columns         []Column
	Rows            [][]Cell
	PageBreakBefore bool
}

// Column is a table header with a relative width.
type Column struct {
	Header string
	Width  float64
}

// Cell is a rendered table value. Class selects a stylesheet rule.
type Cell struct {
	Text  string
	Class string
}

// Stat is a labelled counter.
type Stat struct {
	Label string
	Count int
	Text  string
}

// Stats returns every counter in the layout, header first.
func (l *Layout) Stats() []Stat {
	stats := append([]Stat(nil), l.Summary...)
	for _, section := range l.Sections {
		stats = append(stats, section.Summary...)
	}
	return stats
}

// Field maps one value of T to a table cell.
type Field[T any] struct {
	Header string
	Width  float64
	Value  func(T) Cell
}

// buildSection derives one row per element of rows, keeping the supplied order.
func buildSection[T any](title string, fields []Field[T], rows []T) Section {
	section := Section{
		Title:   title,
		Columns: make([]Column, len(fields)),
		Rows:    make([][]Cell, 0, len(rows)),
	}
	for i, field := range fields {
		section.Columns[i] = Column{Header: field.Header, Width: field.Width}
	}
	for _, row := range rows {
		cells := make([]Cell, len(fields))
		for i, field := range fields {
			cells[i] = field.Value(row)
		}
		section.Rows = append(section.Rows, cells)
	}
	return section
}

var userFields = []Field[domain.User]{
	{Header: "ID", Width: 0.6, Value: func(u domain.User) Cell { return text(strconv.FormatInt(u.ID, 10)) }},
	{Header: "Username", Width: 1.5, Value: func(u domain.User) Cell { return text(u.Username) }},
	{Header: "Email", Width: 2.3, Value: func(u domain.User) Cell { return text(u.Email) }},
	{Header: "Status", Width: 1, Value: func(u domain.User) Cell { return activeLabel(u.IsActive) }},
	{Header: "Created At", Width: 1.6, Value: func(u domain.User) Cell { return timestamp(u.CreatedAt) }},
}

var itemFields = []Field[domain.Item]{
	{Header: "ID", Width: 0.5, Value: func(i domain.Item) Cell { return text(strconv.FormatInt(i.ID, 10)) }},
	{Header: "Title", Width: 1.4, Value: func(i domain.Item) Cell { return text(i.Title) }},
	{Header: "Description", Width: 2.2, Value: func(i domain.Item) Cell { return description(i.Description) }},
	{Header: "Status", Width: 1, Value: func(i domain.Item) Cell { return completedLabel(i.Completed) }},
	{Header: "Owner ID", Width: 0.8, Value: func(i domain.Item) Cell { return text(strconv.FormatInt(i.OwnerID, 10)) }},
	{Header: "Created At", Width: 1.6, Value: func(i domain.Item) Cell { return timestamp(i.CreatedAt) }},
}

func text(s string) Cell {
	return Cell{Text: s}
}

func timestamp(t time.Time) Cell {
	return Cell{Text: t.Format(TimestampLayout)}
}

func description(d *string) Cell {
	if d == nil || *d == "" {
		return Cell{Text: "No description", Class: "description"}
	}
	return Cell{Text: *d, Class: "description"}
}

func activeLabel(active bool) Cell {
	if active {
		return Cell{Text: "Active", Class: "status-active"}
	}
	return Cell{Text: "Inactive", Class: "status-inactive"}
}

func completedLabel(completed bool) Cell {
	if completed {
		return Cell{Text: "Completed", Class: "status-completed"}
	}
	return Cell{Text: "Pending", Class: "status-pending"}
}

func countActive(users []domain.User) int {
	n := 0
	for _, u := range users {
		if u.IsActive {
			n++
		}
	}
	return n
}

func countCompleted(items []domain.Item) int {
	n := 0
	for _, i := range items {
		if i.Completed {
			n++
		}
	}
	return n
}

func (r *Renderer) stat(label string, n int) Stat {
	return Stat{Label: label, Count: n, Text: r.printer.Sprintf("%d", n)}
}

func (r *Renderer) userSummary(users []domain.User) []Stat {
	return []Stat{
		r.stat("Total Users", len(users)),
		r.stat("Active Users", countActive(users)),
	}
}

func (r *Renderer) itemSummary(items []domain.Item) []Stat {
	completed := countCompleted(items)
	return []Stat{
		r.stat("Total Items", len(items)),
		r.stat("Completed Items", completed),
		r.stat("Pending Items", len(items)-completed),
	}
}

func (r *Renderer) header(kind Kind, title string) *Layout {
	generatedAt := r.now()
	return &Layout{
		Kind:        kind,
		Title:       title,
		GeneratedAt: generatedAt,
		Subtitles:   []string{"Generated on " + generatedAt.Format(TimestampLayout)},
		Footer:      r.brand + " - " + title,
	}
}

func (r *Renderer) usersLayout(users []domain.User) *Layout {
	layout := r.header(KindUsers, "Users Report")
	layout.Subtitles = append(layout.Subtitles, "Total Users: "+r.printer.Sprintf("%d", len(users)))
	layout.Summary = r.userSummary(users)
	layout.Sections = []Section{buildSection("", userFields, users)}
	return layout
}

func (r *Renderer) itemsLayout(items []domain.Item) *Layout {
	layout := r.header(KindItems, "Items Report")
	layout.Summary = r.itemSummary(items)
	layout.Sections = []Section{buildSection("", itemFields, items)}
	return layout
}

func (r *Renderer) comprehensiveLayout(users []domain.User, items []domain.Item) *Layout {
	layout := r.header(KindComprehensive, "Comprehensive System Report")

	usersSection := buildSection("Users Overview", userFields, users)
	usersSection.Summary = r.userSummary(users)

	itemsSection := buildSection("Items Overview", itemFields, items)
	itemsSection.Summary = r.itemSummary(items)
	itemsSection.PageBreakBefore = true

	layout.Sections = []Section{usersSection, itemsSection}
	return layout
}
