package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/parser"
)

// pxToPt converts CSS pixels to PDF points.
const pxToPt = 0.75

type rgb struct {
	R, G, B int
}

// textStyle is the subset of CSS the rasterizer understands.
type textStyle struct {
	FontSize    float64 // points
	Bold        bool
	Color       rgb
	Background  *rgb
	BorderColor *rgb
	Align       string // fpdf alignment: L, C, R
}

type declaration struct {
	prop  string
	value string
}

// stylesheet maps a selector (as written) to its declarations, in source order.
type stylesheet struct {
	rules map[string][]declaration
}

func parseStylesheet(source string) (*stylesheet, error) {
	parsed, err := parser.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse stylesheet: %w", err)
	}

	sheet := &stylesheet{rules: make(map[string][]declaration)}
	for _, rule := range parsed.Rules {
		for _, selector := range rule.Selectors {
			selector = strings.TrimSpace(selector)
			for _, decl := range rule.Declarations {
				sheet.rules[selector] = append(sheet.rules[selector], declaration{
					prop:  strings.ToLower(decl.Property),
					value: strings.TrimSpace(decl.Value),
				})
			}
		}
	}
	return sheet, nil
}

// resolve cascades the given selectors left to right; later selectors win.
func (s *stylesheet) resolve(selectors ...string) textStyle {
	style := textStyle{FontSize: 10, Align: "L"}
	for _, selector := range selectors {
		for _, decl := range s.rules[selector] {
			value := decl.value
			switch decl.prop {
			case "font-size":
				if size, ok := parsePixels(value); ok {
					style.FontSize = size * pxToPt
				}
			case "font-weight":
				style.Bold = value == "bold" || value == "700"
			case "color":
				if c, ok := parseColor(value); ok {
					style.Color = c
				}
			case "background-color":
				if c, ok := parseColor(value); ok {
					style.Background = &c
				}
			case "border", "border-bottom":
				for _, part := range strings.Fields(value) {
					if c, ok := parseColor(part); ok {
						style.BorderColor = &c
					}
				}
			case "text-align":
				switch value {
				case "center":
					style.Align = "C"
				case "right":
					style.Align = "R"
				default:
					style.Align = "L"
				}
			}
		}
	}
	return style
}

// has reports whether selector declares prop with the given value.
func (s *stylesheet) has(selector, prop, value string) bool {
	for _, decl := range s.rules[selector] {
		if decl.prop == prop && decl.value == value {
			return true
		}
	}
	return false
}

func parsePixels(value string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSuffix(value, "px"), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseColor(value string) (rgb, bool) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(value), "#")
	if !ok {
		return rgb{}, false
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return rgb{}, false
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, true
}
