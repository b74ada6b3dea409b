// Package output formats cjkfts CLI output: status lines, search results and
// key/value reports, as colored text on terminals and plain text or JSON
// elsewhere.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/Aman-CERP/cjkfts/internal/query"
)

// Format selects how results are printed.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text or json)", s)
}

// SnippetRunes is how much of a body the text format shows.
const SnippetRunes = 120

// Writer provides formatted output for the CLI.
type Writer struct {
	out    io.Writer
	styles Styles
}

// Option configures a Writer.
type Option func(*Writer)

// WithColor forces colors on or off.
func WithColor(on bool) Option {
	return func(w *Writer) {
		w.styles = GetStyles(!on)
	}
}

// New creates a Writer for out. Colors are used only on an interactive
// terminal without NO_COLOR.
func New(out io.Writer, opts ...Option) *Writer {
	w := &Writer{out: out, styles: GetStyles(!UseColor(out))}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Status prints a message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Success prints a success message.
func (w *Writer) Success(msg string) {
	w.Status(w.styles.Success.Render("✓"), msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status(w.styles.Warning.Render("!"), msg)
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status(w.styles.Error.Render("✗"), msg)
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

// JSON prints v as indented JSON.
func (w *Writer) JSON(v any) error {
	enc := json.NewEncoder(w.out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Results prints search results in format f.
func (w *Writer) Results(f Format, q string, results []query.Result) error {
	if f == FormatJSON {
		if results == nil {
			results = []query.Result{}
		}
		return w.JSON(results)
	}

	if len(results) == 0 {
		w.Status(w.styles.Dim.Render("·"), fmt.Sprintf("no results for %q", q))
		return nil
	}

	_, _ = fmt.Fprintln(w.out, w.styles.Header.Render(fmt.Sprintf("%d results for %q", len(results), q)))
	for i, r := range results {
		_, _ = fmt.Fprintf(w.out, "\n%2d. %s  %s\n", i+1,
			w.styles.Title.Render(r.Title),
			w.styles.Score.Render(fmt.Sprintf("%.4f", r.Score)))
		_, _ = fmt.Fprintf(w.out, "    %s %s\n", w.styles.Label.Render("id:"), r.ID)
		if r.Body != "" {
			_, _ = fmt.Fprintf(w.out, "    %s\n", Snippet(r.Body, SnippetRunes))
		}
		if r.Metadata != "" && r.Metadata != "{}" {
			_, _ = fmt.Fprintf(w.out, "    %s %s\n", w.styles.Label.Render("metadata:"), r.Metadata)
		}
	}
	return nil
}

// KV is one row of a key/value report.
type KV struct {
	Key   string
	Value string
}

// Table prints rows as aligned key/value pairs under a title, framed on
// terminals.
func (w *Writer) Table(title string, rows []KV) {
	width := 0
	for _, r := range rows {
		if n := utf8.RuneCountInString(r.Key); n > width {
			width = n
		}
	}

	var b strings.Builder
	b.WriteString(w.styles.Header.Render(title))
	for _, r := range rows {
		pad := strings.Repeat(" ", width-utf8.RuneCountInString(r.Key))
		fmt.Fprintf(&b, "\n%s%s  %s", w.styles.Label.Render(r.Key), pad, r.Value)
	}
	_, _ = fmt.Fprintln(w.out, w.styles.Panel.Render(b.String()))
}

// Snippet shortens s to at most n runes, collapsing whitespace.
func Snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}
