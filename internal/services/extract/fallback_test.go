package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStrategy returns a strategy that records how often it was called.
func countingStrategy(name, text string, err error, calls *int) Strategy {
	return Strategy{
		Name: name,
		Parse: func(_ context.Context, _ []byte) (string, error) {
			*calls++
			return text, err
		},
	}
}

func writePDF(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFallback_FirstSuccessShortCircuits(t *testing.T) {
	var first, second, third int
	fb := NewFallback(
		countingStrategy("default", "Invoice #42", nil, &first),
		countingStrategy("max0", "other", nil, &second),
		countingStrategy("pagerender", "other", nil, &third),
	)

	text, strategy, err := fb.Extract(context.Background(), writePDF(t, "%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "Invoice #42", text)
	assert.Equal(t, "default", strategy)
	assert.Equal(t, 1, first)
	assert.Equal(t, 0, second, "later strategies must not run after a success")
	assert.Equal(t, 0, third, "later strategies must not run after a success")
}

func TestFallback_SkipsEmptyAndFailingStrategies(t *testing.T) {
	var first, second, third int
	fb := NewFallback(
		countingStrategy("default", "  \n\t ", nil, &first),
		countingStrategy("max0", "", errors.New("xref table truncated"), &second),
		countingStrategy("pagerender", "Recovered text", nil, &third),
	)

	text, strategy, err := fb.Extract(context.Background(), writePDF(t, "%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "Recovered text", text)
	assert.Equal(t, "pagerender", strategy)
	assert.Equal(t, []int{1, 1, 1}, []int{first, second, third})
}

func TestFallback_ExhaustedReturnsSingleActionableError(t *testing.T) {
	var calls int
	fb := NewFallback(
		countingStrategy("default", "", errors.New("malformed PDF: invalid header"), &calls),
		countingStrategy("max0", "", nil, &calls),
		countingStrategy("pagerender", "", errors.New("stream decode failed"), &calls),
	)

	_, _, err := fb.Extract(context.Background(), writePDF(t, "not a pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExhaustedFallback))
	assert.Contains(t, err.Error(), "scanned")
	assert.Contains(t, err.Error(), "Unable to extract text from this PDF")
	assert.NotContains(t, err.Error(), "invalid header", "per-strategy causes are not enumerated")
	assert.Equal(t, 3, calls)
}

func TestFallback_RecoversFromParserPanic(t *testing.T) {
	var calls int
	fb := NewFallback(
		Strategy{Name: "default", Parse: func(context.Context, []byte) (string, error) {
			panic("index out of range")
		}},
		countingStrategy("max0", "still works", nil, &calls),
	)

	text, strategy, err := fb.Extract(context.Background(), writePDF(t, "%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "still works", text)
	assert.Equal(t, "max0", strategy)
}

func TestFallback_ReadsFileOnce(t *testing.T) {
	var reads int
	var seen [][]byte
	parse := func(_ context.Context, data []byte) (string, error) {
		seen = append(seen, data)
		return "", nil
	}
	fb := NewFallback(
		Strategy{Name: "default", Parse: parse},
		Strategy{Name: "max0", Parse: parse},
		Strategy{Name: "pagerender", Parse: parse},
	)
	fb.readFile = func(string) ([]byte, error) {
		reads++
		return []byte("%PDF-1.7 body"), nil
	}

	_, _, err := fb.Extract(context.Background(), "ignored.pdf")
	require.Error(t, err)
	assert.Equal(t, 1, reads)
	require.Len(t, seen, 3)
	for _, data := range seen {
		assert.Equal(t, "%PDF-1.7 body", string(data))
	}
}

func TestFallback_MissingFile(t *testing.T) {
	var calls int
	fb := NewFallback(countingStrategy("default", "text", nil, &calls))

	_, _, err := fb.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExtractorFailure))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, 0, calls)
}

func TestFallback_Strategies(t *testing.T) {
	fb := NewFallback(
		Strategy{Name: "default"},
		Strategy{Name: "max0"},
		Strategy{Name: "pagerender"},
	)
	assert.Equal(t, []string{"default", "max0", "pagerender"}, fb.Strategies())
}
