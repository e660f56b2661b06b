package extract

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

// Strategy is one named way of turning PDF bytes into text.
type Strategy struct {
	Name  string
	Parse func(ctx context.Context, data []byte) (string, error)
}

// Fallback tries an ordered list of PDF strategies until one yields text.
//
// The order is fixed: cheap, common-case strategies go first, more tolerant
// ones later. The first strategy whose output is non-empty after trimming
// wins and the rest are never invoked.
type Fallback struct {
	strategies []Strategy
	readFile   func(string) ([]byte, error)
}

// NewFallback creates a fallback chain over the given strategies.
func NewFallback(strategies ...Strategy) *Fallback {
	return &Fallback{
		strategies: strategies,
		readFile:   os.ReadFile,
	}
}

// Strategies returns the configured strategy names in order.
func (f *Fallback) Strategies() []string {
	names := make([]string, len(f.strategies))
	for i, s := range f.strategies {
		names[i] = s.Name
	}
	return names
}

// Extract reads the file once and runs the strategies in order.
// It returns the text and the name of the strategy that produced it.
func (f *Fallback) Extract(ctx context.Context, path string) (string, string, error) {
	data, err := f.readFile(path)
	if err != nil {
		return "", "", newError(ErrExtractorFailure, "Failed to read PDF file: "+err.Error(), err)
	}

	for _, s := range f.strategies {
		text, err := runStrategy(ctx, s, data)
		if err != nil {
			log.Printf("⚠️  PDF parsing failed with %s: %v", s.Name, err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			log.Printf("⚠️  PDF parsing with %s returned no text", s.Name)
			continue
		}
		return text, s.Name, nil
	}

	return "", "", newError(ErrExhaustedFallback, MsgPDFUnextractable, nil)
}

// runStrategy calls a single strategy, turning a parser panic into an error.
// Several PDF parsers panic on truncated or malformed cross-reference tables.
func runStrategy(ctx context.Context, s Strategy, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()
	return s.Parse(ctx, data)
}
