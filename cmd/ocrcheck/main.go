// Command ocrcheck extracts text from local files and reports what happened.
// It is a diagnostic for documents that fail in the API.
//
//	ocrcheck [-inspect] [-strategies] [-lang eng] file...
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Shimizu-Technology/ocr-api/internal/config"
	"github.com/Shimizu-Technology/ocr-api/internal/services/extract"
	"github.com/Shimizu-Technology/ocr-api/internal/services/ocr"
	"github.com/Shimizu-Technology/ocr-api/internal/services/pdf"
	"github.com/Shimizu-Technology/ocr-api/internal/services/pipeline"
)

const previewLen = 200

func main() {
	log.SetFlags(0)
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout))
}

// checker holds what every file check needs.
type checker struct {
	out        io.Writer
	dispatcher *extract.Dispatcher
	inspect    bool
	strategies bool
}

func run(ctx context.Context, args []string, out io.Writer) int {
	fs := flag.NewFlagSet("ocrcheck", flag.ContinueOnError)
	fs.SetOutput(out)
	inspect := fs.Bool("inspect", false, "print PDF structure before extracting")
	strategies := fs.Bool("strategies", false, "run every PDF strategy and report each outcome")
	lang := fs.String("lang", "", "OCR language (default from OCR_LANGUAGE, else eng)")
	fs.Usage = func() {
		fmt.Fprintln(out, "usage: ocrcheck [-inspect] [-strategies] [-lang eng] file...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "❌ Failed to load config: %v\n", err)
		return 1
	}
	if *lang != "" {
		cfg.OCRLanguage = *lang
	}

	dispatcher, _ := pipeline.New(cfg, progressPrinter(out))
	c := &checker{out: out, dispatcher: dispatcher, inspect: *inspect, strategies: *strategies}

	rule := strings.Repeat("=", 60)
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "🧪 OCR CHECK")
	fmt.Fprintln(out, rule)

	var passed, failed int
	for _, path := range fs.Args() {
		if c.check(ctx, path) {
			passed++
		} else {
			failed++
		}
	}

	fmt.Fprintln(out, "\n"+rule)
	fmt.Fprintf(out, "✅ Passed: %d\n❌ Failed: %d\n📈 Total:  %d\n", passed, failed, passed+failed)
	fmt.Fprintln(out, rule)

	if failed > 0 {
		return 1
	}
	return 0
}

// check extracts one file and prints the outcome.
func (c *checker) check(ctx context.Context, path string) bool {
	kind := extract.Classify(path)
	fmt.Fprintf(c.out, "\n%s Checking %s: %s\n", icon(kind), kind, filepath.Base(path))

	if err := extract.CheckFile(path); err != nil {
		fmt.Fprintf(c.out, "❌ ERROR: %s\n", extract.Message(err))
		return false
	}
	if kind == extract.KindUnknown {
		fmt.Fprintf(c.out, "❌ ERROR: %s\n", extract.MsgUnsupportedType)
		return false
	}

	if kind == extract.KindPDF && (c.inspect || c.strategies) {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(c.out, "❌ ERROR: %v\n", err)
			return false
		}
		if c.inspect {
			printInspect(c.out, data)
		}
		if c.strategies {
			printStrategies(ctx, c.out, data)
		}
	}

	start := time.Now()
	result, err := c.dispatcher.Extract(ctx, kind, path)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		fmt.Fprintf(c.out, "❌ ERROR: %s\n", extract.Message(err))
		return false
	}

	via := ""
	if result.Strategy != "" {
		via = " via " + result.Strategy
	}
	fmt.Fprintf(c.out, "✅ SUCCESS - Extracted %d characters in %.1fs%s\n", utf8.RuneCountInString(result.Text), elapsed, via)
	fmt.Fprintf(c.out, "First %d chars: %s\n", previewLen, preview(result.Text, previewLen))
	return true
}

func printInspect(out io.Writer, data []byte) {
	info, err := pdf.Inspect(data)
	fmt.Fprintln(out, "🔍 PDF structure:")
	fmt.Fprintf(out, "  Header: %q (valid: %v)\n", info.Header, info.ValidHeader)
	fmt.Fprintf(out, "  Size: %d bytes, xref: %v, startxref: %v\n", info.SizeBytes, info.HasXref, info.HasStartxref)
	if err != nil {
		fmt.Fprintf(out, "  ⚠️  Could not parse document: %v\n", err)
		return
	}
	fmt.Fprintf(out, "  Version: %s, pages: %d, encrypted: %v\n", info.Version, info.PageCount, info.Encrypted)
	fmt.Fprintf(out, "  Pages with text: %d, pages with images: %v\n", info.TextPages, info.ImagePages)
	if info.LikelyScanned() {
		fmt.Fprintln(out, "  ⚠️  Looks like a scanned document; convert pages to images and OCR them")
	}
}

func printStrategies(ctx context.Context, out io.Writer, data []byte) {
	fmt.Fprintln(out, "🧭 PDF strategies:")
	for _, s := range pdf.Strategies() {
		text, err := s.Parse(ctx, data)
		switch {
		case err != nil:
			fmt.Fprintf(out, "  ❌ %-10s %v\n", s.Name, err)
		case strings.TrimSpace(text) == "":
			fmt.Fprintf(out, "  ⚠️  %-10s no text\n", s.Name)
		default:
			fmt.Fprintf(out, "  ✅ %-10s %d characters\n", s.Name, utf8.RuneCountInString(text))
		}
	}
}

// progressPrinter rewrites a single console line with the OCR percentage.
func progressPrinter(out io.Writer) ocr.ProgressFunc {
	return func(status string, progress float64) {
		if status != ocr.StatusRecognizing {
			return
		}
		fmt.Fprintf(out, "\rProgress: %d%%", int(progress*100+0.5))
		if progress >= 1 {
			fmt.Fprintln(out)
		}
	}
}

// preview returns the first n runes of text on a single line.
func preview(text string, n int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n])
}

func icon(kind extract.Kind) string {
	switch kind {
	case extract.KindPDF:
		return "📄"
	case extract.KindDOCX:
		return "📝"
	case extract.KindImage:
		return "🖼️ "
	default:
		return "❓"
	}
}
