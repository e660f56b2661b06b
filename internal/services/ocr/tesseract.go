// Package ocr runs optical character recognition on raster images.
//
// Recognition is delegated to the Tesseract command-line tool. Shelling out
// keeps the server CGO-free (the Go bindings for libtesseract need CGO) and
// lets operators upgrade Tesseract or add language packs without a rebuild.
package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrNotInstalled is returned when no tesseract binary can be found.
var ErrNotInstalled = errors.New("Tesseract OCR is not installed. Please install Tesseract-OCR from https://github.com/tesseract-ocr/tesseract")

// StatusRecognizing is the progress status reported while recognition runs.
const StatusRecognizing = "recognizing text"

// ProgressFunc receives recognition progress between 0 and 1.
type ProgressFunc func(status string, progress float64)

// NoProgress discards progress updates. Servers use it.
func NoProgress(string, float64) {}

// Tesseract recognizes text by running the tesseract binary.
type Tesseract struct {
	path     string
	language string
	timeout  time.Duration
	progress ProgressFunc

	lookPath func(string) (string, error)
}

// Option configures a Tesseract.
type Option func(*Tesseract)

// WithLanguage sets the recognition language (tesseract -l), default "eng".
func WithLanguage(lang string) Option {
	return func(t *Tesseract) {
		if lang != "" {
			t.language = lang
		}
	}
}

// WithTimeout bounds a single recognition. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(t *Tesseract) { t.timeout = d }
}

// WithProgress installs a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(t *Tesseract) {
		if fn != nil {
			t.progress = fn
		}
	}
}

// New creates a Tesseract runner. path may be empty, in which case the
// binary is looked up on PATH at recognition time.
func New(path string, opts ...Option) *Tesseract {
	t := &Tesseract{
		path:     path,
		language: "eng",
		progress: NoProgress,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Available reports whether a tesseract binary can be found.
func (t *Tesseract) Available() bool {
	_, err := t.binary()
	return err == nil
}

// Extract runs OCR on the image at path and returns the recognized text.
func (t *Tesseract) Extract(ctx context.Context, path string) (string, error) {
	bin, err := t.binary()
	if err != nil {
		return "", err
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	t.progress(StatusRecognizing, 0)

	// "stdout" as the output base makes tesseract print instead of writing a file.
	cmd := exec.CommandContext(ctx, bin, path, "stdout", "-l", t.language)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("OCR timed out after %s", t.timeout)
		}
		if msg := lastLine(stderr.String()); msg != "" {
			return "", fmt.Errorf("tesseract: %s: %w", msg, err)
		}
		return "", fmt.Errorf("tesseract: %w", err)
	}

	t.progress(StatusRecognizing, 1)

	// Tesseract ends each page with a form feed.
	return strings.TrimSpace(strings.ReplaceAll(stdout.String(), "\f", "")), nil
}

// binary resolves the tesseract executable.
func (t *Tesseract) binary() (string, error) {
	if t.path != "" {
		if _, err := os.Stat(t.path); err != nil {
			return "", ErrNotInstalled
		}
		return t.path, nil
	}
	p, err := t.lookPath("tesseract")
	if err != nil {
		return "", ErrNotInstalled
	}
	return p, nil
}

// lastLine returns the last non-empty line of s; tesseract prints its
// actual error after several informational lines.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}

// FindTesseract checks common install locations for the tesseract binary.
func FindTesseract() string {
	if p, err := exec.LookPath("tesseract"); err == nil {
		return p
	}
	paths := []string{
		"/usr/bin/tesseract",
		"/usr/local/bin/tesseract",
		"/opt/homebrew/bin/tesseract",
		`C:\Program Files\Tesseract-OCR\tesseract.exe`,
		`C:\Program Files (x86)\Tesseract-OCR\tesseract.exe`,
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
