package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// colorEnabled controls whether ANSI colors are used.
var colorEnabled = true

// DisableColors disables ANSI color output.
func DisableColors() {
	colorEnabled = false
}

// EnableColors enables ANSI color output.
func EnableColors() {
	colorEnabled = true
}

// color wraps text in ANSI color codes if colors are enabled.
func color(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + colorReset
}

func red(text string) string  { return color(colorRed, text) }
func cyan(text string) string { return color(colorCyan, text) }
func gray(text string) string { return color(colorGray, text) }
func bold(text string) string { return color(colorBold, text) }

// Format returns the error for terminal display:
//
//	error[RE101]: Fragments are not supported
//	  --> view.roko.go:4:24
//	   3 | func view() {
//	   4 |     return vdom.HTML[Msg](`<a/><b/>`)
//	     |                        ^
//	  = found 2 top-level nodes
//	  = hint: Wrap the nodes in a single element.
//	  = cause: ...
func (e *RokoError) Format() string {
	var b strings.Builder
	head := "error"
	if e.Code != "" {
		head += "[" + e.Code + "]"
	}
	fmt.Fprintf(&b, "\n%s: %s\n", red(bold(head)), bold(e.Message))

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s %s\n", gray("-->"), cyan(e.Location.String()))
		first := max(e.Location.Line-contextSize/2, 1)
		for i, line := range e.Context {
			n := first + i
			fmt.Fprintf(&b, "  %4d %s %s\n", n, gray("|"), line)
			if n == e.Location.Line && e.Location.Column > 0 {
				fmt.Fprintf(&b, "       %s %s%s\n", gray("|"), strings.Repeat(" ", e.Location.Column-1), red("^"))
			}
		}
	}

	note := func(label, text string) {
		if text != "" {
			fmt.Fprintf(&b, "  %s %s%s\n", gray("="), label, text)
		}
	}
	note("", e.Detail)
	note(cyan("hint: "), e.Suggestion)
	if e.Wrapped != nil {
		note(gray("cause: "), e.Wrapped.Error())
	}
	b.WriteString("\n")
	return b.String()
}

// FormatCompact returns a compact single-line error format.
func (e *RokoError) FormatCompact() string {
	var b strings.Builder

	if e.Location != nil {
		b.WriteString(e.Location.String())
		b.WriteString(": ")
	}

	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}

	b.WriteString(e.Message)
	if e.Wrapped != nil {
		b.WriteString(": ")
		b.WriteString(e.Wrapped.Error())
	}

	return b.String()
}

// FormatPlain returns the error as uncolored text: the compact line
// followed by the detail and suggestion.
func (e *RokoError) FormatPlain() string {
	var b strings.Builder
	b.WriteString(e.FormatCompact())
	if e.Detail != "" {
		b.WriteString("\n  ")
		b.WriteString(e.Detail)
	}
	if len(e.Context) > 0 {
		b.WriteString("\n")
		for _, line := range e.Context {
			b.WriteString("\n  ")
			b.WriteString(line)
		}
	}
	if e.Suggestion != "" {
		b.WriteString("\n\n  Hint: ")
		b.WriteString(e.Suggestion)
	}
	return b.String()
}

// Flatten returns the leaf errors of a tree built with errors.Join.
// A RokoError is a leaf even when it wraps something.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*RokoError); ok {
		return []error{err}
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, Flatten(e)...)
		}
		return out
	}
	return []error{err}
}

// FormatJSON returns the error as a JSON object.
func (e *RokoError) FormatJSON() string {
	var b strings.Builder
	b.WriteString("{")

	if e.Code != "" {
		b.WriteString(fmt.Sprintf(`"code":%q,`, e.Code))
	}
	b.WriteString(fmt.Sprintf(`"category":%q,`, e.Category))
	b.WriteString(fmt.Sprintf(`"message":%q`, e.Message))

	if e.Detail != "" {
		b.WriteString(fmt.Sprintf(`,"detail":%q`, e.Detail))
	}
	if e.Location != nil {
		b.WriteString(fmt.Sprintf(`,"location":{"file":%q,"line":%d,"column":%d}`,
			e.Location.File, e.Location.Line, e.Location.Column))
	}
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf(`,"suggestion":%q`, e.Suggestion))
	}
	if e.Wrapped != nil {
		b.WriteString(fmt.Sprintf(`,"cause":%q`, e.Wrapped.Error()))
	}

	b.WriteString("}")
	return b.String()
}

// PrintError prints a formatted error to stderr. Joined errors are
// printed one after another.
func PrintError(err error) {
	for _, leaf := range Flatten(err) {
		var re *RokoError
		if stderrors.As(leaf, &re) {
			fmt.Fprint(os.Stderr, re.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\n%s: %s\n\n", red(bold("error")), leaf.Error())
		}
	}
}

