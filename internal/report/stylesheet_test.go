package report

import "testing"

func TestStylesheetCascade(t *testing.T) {
	sheet, err := parseStylesheet(stylesheetSource)
	if err != nil {
		t.Fatalf("parseStylesheet() = %v", err)
	}

	th := sheet.resolve("body", "th")
	if !th.Bold {
		t.Fatal("expected header cells to be bold")
	}
	if th.Background == nil || *th.Background != (rgb{R: 0xf8, G: 0xf9, B: 0xfa}) {
		t.Fatalf("th background = %v", th.Background)
	}
	if th.BorderColor == nil || *th.BorderColor != (rgb{R: 0xdd, G: 0xdd, B: 0xdd}) {
		t.Fatalf("th border = %v", th.BorderColor)
	}

	active := sheet.resolve("body", "td", ".status-active")
	if active.Color != (rgb{R: 0x28, G: 0xa7, B: 0x45}) || !active.Bold {
		t.Fatalf("status-active = %+v", active)
	}

	title := sheet.resolve("body", ".title")
	if title.FontSize != 18 || title.Align != "C" {
		t.Fatalf("title = %+v, want 18pt centred", title)
	}

	if !sheet.has(".page-break", "page-break-before", "always") {
		t.Fatal("expected page-break rule")
	}
	if zebra := sheet.resolve("tr:nth-child(even)"); zebra.Background == nil {
		t.Fatal("expected zebra background")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want rgb
		ok   bool
	}{
		{in: "#ddd", want: rgb{R: 0xdd, G: 0xdd, B: 0xdd}, ok: true},
		{in: "#42b983", want: rgb{R: 0x42, G: 0xb9, B: 0x83}, ok: true},
		{in: "red", ok: false},
		{in: "#12345", ok: false},
	}
	for _, tt := range tests {
		got, ok := parseColor(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("parseColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
