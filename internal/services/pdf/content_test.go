package pdf

import (
	"reflect"
	"testing"
)

// TestTextItems feeds hand-written content streams through the page renderer's
// scanner.
func TestTextItems(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "simple Tj",
			content: "BT /F1 12 Tf 72 712 Td (Hello World) Tj ET",
			want:    []string{"Hello World"},
		},
		{
			name:    "TJ array with kerning",
			content: "BT [(Inv) -20 (oice) 5 (#42)] TJ ET",
			want:    []string{"Invoice#42"},
		},
		{
			name:    "several operators on separate lines",
			content: "BT\n(Line one) Tj\nT*\n(Line two) '\n1 2 (Line three) \"\nET",
			want:    []string{"Line one", "Line two", "Line three"},
		},
		{
			name:    "escapes and nested parentheses",
			content: `((a\) b) \(c\)) Tj (tab\there) Tj (\101\102C) Tj`,
			want:    []string{"(a) b) (c)", "tab here", "ABC"},
		},
		{
			name:    "hex string",
			content: "<48656C6C6F> Tj <576F726C64> Tj",
			want:    []string{"Hello", "World"},
		},
		{
			name:    "utf16 hex string",
			content: "<FEFF00480069> Tj",
			want:    []string{"Hi"},
		},
		{
			name:    "strings not shown are ignored",
			content: "/Span << /ActualText (hidden) >> BDC (shown) Tj EMC",
			want:    []string{"shown"},
		},
		{
			name:    "comments skipped",
			content: "% (not text) Tj\n(text) Tj",
			want:    []string{"text"},
		},
		{
			name:    "inline image payload skipped",
			content: "BI /W 1 /H 1 ID \x00(junk) Tj\x01 EI (after) Tj",
			want:    []string{"after"},
		},
		{
			name:    "control characters dropped",
			content: "(\x01\x02) Tj (ok) Tj",
			want:    []string{"ok"},
		},
		{
			name:    "no text",
			content: "q 1 0 0 1 0 0 cm /Im0 Do Q",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := textItems([]byte(tt.content))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("textItems(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestStrategiesOrder(t *testing.T) {
	var names []string
	for _, s := range Strategies() {
		names = append(names, s.Name)
	}
	want := []string{StrategyDefault, StrategyMaxPages0, StrategyPageRender}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Strategies() order = %v, want %v", names, want)
	}
}
