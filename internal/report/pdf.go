package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	pageMargin   = 15.0 // mm
	footerHeight = 12.0 // mm reserved for page numbers
	cellPadding  = 2.0  // mm
	blockSpacing = 4.0  // mm
	fontFamily   = "report"
	ptToMM       = 0.3528
)

// rasterizer draws a parsed report document onto PDF pages.
type rasterizer struct {
	pdf    *fpdf.Fpdf
	styles *stylesheet
	width  float64
	height float64
}

// Fonts holds the TrueType data embedded into every report. Text is written as
// UTF-8, so any script the fonts carry glyphs for is rendered.
type Fonts struct {
	Regular []byte
	Bold    []byte
}

// rasterize converts a bound markup document into a paginated PDF. The document's
// own <style> element drives colours, weights, sizes and page breaks.
func rasterize(markup []byte, generatedAt time.Time, fonts Fonts, compress bool) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	body := findElement(doc, atom.Body)
	if body == nil {
		return nil, fmt.Errorf("markup has no body")
	}

	var css string
	if style := findElement(doc, atom.Style); style != nil {
		css = textContent(style)
	}
	styles, err := parseStylesheet(css)
	if err != nil {
		return nil, err
	}

	title := ""
	if t := findElement(doc, atom.Title); t != nil {
		title = collapse(textContent(t))
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", fonts.Regular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", fonts.Bold)
	if pdf.Err() {
		return nil, fmt.Errorf("load fonts: %w", pdf.Error())
	}
	pdf.SetCompression(compress)
	pdf.SetCreationDate(generatedAt)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(title, true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin+footerHeight)
	pdf.AliasNbPages("")

	r := &rasterizer{
		pdf:    pdf,
		styles: styles,
	}
	pageWidth, pageHeight := pdf.GetPageSize()
	r.width = pageWidth - 2*pageMargin
	r.height = pageHeight

	pdf.SetFooterFunc(r.pageFooter)
	pdf.AddPage()

	if err := r.walk(body); err != nil {
		return nil, err
	}
	if pdf.Err() {
		return nil, fmt.Errorf("draw pdf: %w", pdf.Error())
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), nil
}

func (r *rasterizer) walk(n *html.Node) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		class := attr(c, "class")
		switch {
		case c.DataAtom == atom.Table:
			if err := r.table(c); err != nil {
				return err
			}
		case class != "" && r.styles.has("."+class, "page-break-before", "always"):
			r.pdf.AddPage()
		case class == "stats":
			r.stats(c)
		case class == "title", class == "subtitle", class == "section-title", class == "footer":
			r.textBlock(c, class)
		default:
			if err := r.walk(c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *rasterizer) apply(style textStyle) {
	fontStyle := ""
	if style.Bold {
		fontStyle = "B"
	}
	r.pdf.SetFont(fontFamily, fontStyle, style.FontSize)
	r.pdf.SetTextColor(style.Color.R, style.Color.G, style.Color.B)
}

func lineHeight(style textStyle) float64 {
	return style.FontSize * ptToMM * 1.4
}

func (r *rasterizer) textBlock(n *html.Node, class string) {
	style := r.styles.resolve("body", "."+class)
	r.apply(style)
	lh := lineHeight(style)

	if class == "footer" {
		r.pdf.Ln(blockSpacing * 2)
	}
	r.pdf.MultiCell(0, lh, collapse(textContent(n)), "", style.Align, false)

	if style.BorderColor != nil {
		y := r.pdf.GetY() + 0.5
		r.pdf.SetDrawColor(style.BorderColor.R, style.BorderColor.G, style.BorderColor.B)
		r.pdf.SetLineWidth(0.5)
		r.pdf.Line(pageMargin, y, pageMargin+r.width, y)
		r.pdf.SetLineWidth(0.2)
		r.pdf.Ln(blockSpacing)
	}
	if class == "title" || class == "section-title" {
		r.pdf.Ln(blockSpacing / 2)
	}
}

type statBox struct {
	number string
	label  string
}

func (r *rasterizer) stats(n *html.Node) {
	var boxes []statBox
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || attr(c, "class") != "stat-box" {
			continue
		}
		var box statBox
		if num := findByClass(c, "stat-number"); num != nil {
			box.number = collapse(textContent(num))
		}
		if label := findByClass(c, "stat-label"); label != nil {
			box.label = collapse(textContent(label))
		}
		boxes = append(boxes, box)
	}
	if len(boxes) == 0 {
		return
	}

	boxStyle := r.styles.resolve("body", ".stat-box")
	numberStyle := r.styles.resolve("body", ".stat-number")
	labelStyle := r.styles.resolve("body", ".stat-label")
	numberHeight := lineHeight(numberStyle)
	labelHeight := lineHeight(labelStyle)
	boxHeight := numberHeight + labelHeight + 2*cellPadding

	r.ensureSpace(boxHeight + blockSpacing)
	r.pdf.Ln(blockSpacing)

	gap := 4.0
	boxWidth := (r.width - gap*float64(len(boxes)-1)) / float64(len(boxes))
	y := r.pdf.GetY()
	for i, box := range boxes {
		x := pageMargin + float64(i)*(boxWidth+gap)
		if bg := boxStyle.Background; bg != nil {
			r.pdf.SetFillColor(bg.R, bg.G, bg.B)
			r.pdf.Rect(x, y, boxWidth, boxHeight, "F")
		}
		r.apply(numberStyle)
		r.pdf.SetXY(x, y+cellPadding)
		r.pdf.CellFormat(boxWidth, numberHeight, box.number, "", 0, numberStyle.Align, false, 0, "")
		r.apply(labelStyle)
		r.pdf.SetXY(x, y+cellPadding+numberHeight)
		r.pdf.CellFormat(boxWidth, labelHeight, box.label, "", 0, labelStyle.Align, false, 0, "")
	}
	r.pdf.SetXY(pageMargin, y+boxHeight)
	r.pdf.Ln(blockSpacing)
}

type tableCell struct {
	text  string
	class string
}

func (r *rasterizer) table(n *html.Node) error {
	var (
		headers []tableCell
		weights []float64
		rows    [][]tableCell
	)
	for _, tr := range findAll(n, atom.Tr) {
		var cells []tableCell
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			cell := tableCell{text: collapse(textContent(c)), class: attr(c, "class")}
			if c.DataAtom == atom.Th {
				weight := 1.0
				if w := attr(c, "data-width"); w != "" {
					parsed, err := strconv.ParseFloat(w, 64)
					if err != nil || parsed <= 0 {
						return fmt.Errorf("column %q has invalid width %q", cell.text, w)
					}
					weight = parsed
				}
				weights = append(weights, weight)
			}
			cells = append(cells, cell)
		}
		if tr.Parent != nil && tr.Parent.DataAtom == atom.Thead {
			headers = cells
			continue
		}
		rows = append(rows, cells)
	}

	widths := columnWidths(weights, r.width)
	r.pdf.Ln(blockSpacing)
	r.tableHeader(headers, widths)
	for i, row := range rows {
		selectors := []string{"body", "td"}
		if i%2 == 1 {
			selectors = append(selectors, "tr:nth-child(even)")
		}
		r.tableRow(row, widths, selectors, func() { r.tableHeader(headers, widths) })
	}
	r.pdf.Ln(blockSpacing)
	return nil
}

func columnWidths(weights []float64, total float64) []float64 {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	widths := make([]float64, len(weights))
	for i, w := range weights {
		widths[i] = total * w / sum
	}
	return widths
}

func (r *rasterizer) tableHeader(headers []tableCell, widths []float64) {
	if len(headers) == 0 {
		return
	}
	r.tableRow(headers, widths, []string{"body", "th"}, nil)
}

// tableRow draws one row, starting a new page (and repeating the header via
// onBreak) when the row does not fit.
func (r *rasterizer) tableRow(cells []tableCell, widths []float64, selectors []string, onBreak func()) {
	base := r.styles.resolve(selectors...)

	styles := make([]textStyle, len(cells))
	lines := make([][]string, len(cells))
	rowHeight := 0.0
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		style := base
		if cell.class != "" {
			style = r.styles.resolve(append(selectors, "."+cell.class)...)
			if style.Background == nil {
				style.Background = base.Background
			}
		}
		styles[i] = style
		r.apply(style)
		lines[i] = r.splitLines(cell.text, widths[i]-2*cellPadding)
		if h := float64(len(lines[i]))*lineHeight(style) + 2*cellPadding; h > rowHeight {
			rowHeight = h
		}
	}

	if r.pdf.GetY()+rowHeight > r.height-pageMargin-footerHeight {
		r.pdf.AddPage()
		if onBreak != nil {
			onBreak()
		}
	}

	y := r.pdf.GetY()
	x := pageMargin
	for i := range cells {
		if i >= len(widths) {
			break
		}
		style := styles[i]
		border := rgb{R: 0xdd, G: 0xdd, B: 0xdd}
		if style.BorderColor != nil {
			border = *style.BorderColor
		}
		r.pdf.SetDrawColor(border.R, border.G, border.B)
		rectStyle := "D"
		if bg := style.Background; bg != nil {
			r.pdf.SetFillColor(bg.R, bg.G, bg.B)
			rectStyle = "FD"
		}
		r.pdf.Rect(x, y, widths[i], rowHeight, rectStyle)

		r.apply(style)
		lh := lineHeight(style)
		for j, line := range lines[i] {
			r.pdf.SetXY(x+cellPadding, y+cellPadding+float64(j)*lh)
			r.pdf.CellFormat(widths[i]-2*cellPadding, lh, line, "", 0, style.Align, false, 0, "")
		}
		x += widths[i]
	}
	r.pdf.SetXY(pageMargin, y+rowHeight)
}

// splitLines wraps text to width using the current font.
func (r *rasterizer) splitLines(text string, width float64) []string {
	if text == "" {
		return []string{""}
	}
	lines := r.pdf.SplitText(text, width)
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}

func (r *rasterizer) ensureSpace(h float64) {
	if r.pdf.GetY()+h > r.height-pageMargin-footerHeight {
		r.pdf.AddPage()
	}
}

func (r *rasterizer) pageFooter() {
	style := r.styles.resolve("body", ".footer")
	r.pdf.SetY(-pageMargin)
	r.apply(style)
	r.pdf.CellFormat(0, lineHeight(style), fmt.Sprintf("Page %d of {nb}", r.pdf.PageNo()), "", 0, "C", false, 0, "")
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == a {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return out
}

func findByClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode && attr(n, "class") == class {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByClass(c, class); found != nil {
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

func textContent(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

// collapse folds whitespace runs into single spaces. Runes outside the Basic
// Multilingual Plane have no slot in the PDF font width table and become U+FFFD.
func collapse(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return utf8.RuneError
		}
		return r
	}, s)
}
