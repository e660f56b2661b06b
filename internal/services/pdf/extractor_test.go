package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shimizu-Technology/ocr-api/internal/services/extract"
	"github.com/Shimizu-Technology/ocr-api/internal/services/pdf/pdftest"
)

func TestStrategies_TextLayer(t *testing.T) {
	data := pdftest.Document("Invoice 42", "Total due")

	for _, s := range Strategies() {
		t.Run(s.Name, func(t *testing.T) {
			text, err := s.Parse(context.Background(), data)
			require.NoError(t, err)
			assert.Contains(t, text, "Invoice 42")
			assert.Contains(t, text, "Total due")
		})
	}
}

func TestStrategies_Garbage(t *testing.T) {
	data := []byte("this is not a pdf at all")

	for _, s := range Strategies() {
		t.Run(s.Name, func(t *testing.T) {
			_, err := s.Parse(context.Background(), data)
			assert.Error(t, err)
		})
	}
}

func TestFallback_EndToEnd(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "invoice.pdf")
	require.NoError(t, os.WriteFile(good, pdftest.Document("Invoice 42"), 0o644))

	text, strategy, err := NewFallback().Extract(context.Background(), good)
	require.NoError(t, err)
	assert.Equal(t, StrategyDefault, strategy)
	assert.Contains(t, text, "Invoice 42")

	// A document without any text layer behaves like a scan.
	blank := filepath.Join(dir, "scan.pdf")
	require.NoError(t, os.WriteFile(blank, pdftest.Document(""), 0o644))

	_, _, err = NewFallback().Extract(context.Background(), blank)
	require.Error(t, err)
	assert.ErrorIs(t, err, extract.ErrExhaustedFallback)
	assert.Contains(t, err.Error(), "scanned")
}

func TestInspect(t *testing.T) {
	info, err := Inspect(pdftest.Document("Page one", "Page two", ""))
	require.NoError(t, err)

	assert.True(t, info.ValidHeader)
	assert.True(t, info.HasXref)
	assert.True(t, info.HasStartxref)
	assert.Equal(t, "%PDF-1.4", info.Header)
	assert.Equal(t, "1.4", info.Version)
	assert.Equal(t, 3, info.PageCount)
	assert.Equal(t, 2, info.TextPages)
	assert.False(t, info.Encrypted)
	assert.Empty(t, info.ImagePages)
	assert.False(t, info.LikelyScanned())
}

func TestInspect_NotAPDF(t *testing.T) {
	info, err := Inspect([]byte("PK\x03\x04 zip data"))
	assert.Error(t, err)
	require.NotNil(t, info)
	assert.False(t, info.ValidHeader)
	assert.Equal(t, 0, info.PageCount)
}

func TestLikelyScanned(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want bool
	}{
		{"all image pages", Info{PageCount: 2, ImagePages: []int{1, 2}}, true},
		{"some text", Info{PageCount: 2, ImagePages: []int{1, 2}, TextPages: 1}, false},
		{"no images", Info{PageCount: 2}, false},
		{"no pages", Info{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.LikelyScanned())
		})
	}
}
