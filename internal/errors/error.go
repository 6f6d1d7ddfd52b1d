package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryCompile Category = "compile"
	CategoryRender  Category = "render"
	CategoryConfig  Category = "config"
	CategoryCLI     Category = "cli"
)

// contextSize is the number of source lines kept around a location.
const contextSize = 5

// Location represents a source code location.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// RokoError is a structured error with a code, source location and fix
// suggestions.
type RokoError struct {
	// Code is a unique error identifier (e.g., "RE001").
	Code string

	// Category is the error type (compile, render, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail describes this occurrence of the error.
	Detail string

	// Location is the source code location where the error occurred.
	Location *Location

	// Context contains surrounding source code lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RokoError) Error() string {
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
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Wrapped != nil {
		b.WriteString(": ")
		b.WriteString(e.Wrapped.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RokoError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a RokoError with the same code, so
// registered templates can be used as sentinels with errors.Is.
func (e *RokoError) Is(target error) bool {
	t, ok := target.(*RokoError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithLocation adds source location to the error and reads the
// surrounding lines from file.
func (e *RokoError) WithLocation(file string, line, column int) *RokoError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, contextSize)
	return e
}

// WithSourceLocation adds source location using in-memory source instead
// of reading the file.
func (e *RokoError) WithSourceLocation(file string, src []byte, line, column int) *RokoError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = contextLines(strings.Split(string(src), "\n"), line, contextSize)
	return e
}

// WithLocationFromError extracts location from a Go compiler error.
func (e *RokoError) WithLocationFromError(err error) *RokoError {
	// Parse Go compiler error format: "file.go:line:column: message"
	if err == nil {
		return e
	}
	msg := err.Error()
	parts := strings.SplitN(msg, ":", 4)
	if len(parts) >= 3 {
		var line, col int
		fmt.Sscanf(parts[1], "%d", &line)
		fmt.Sscanf(parts[2], "%d", &col)
		if line > 0 {
			e.Location = &Location{File: parts[0], Line: line, Column: col}
			e.Context = readContextLines(parts[0], line, contextSize)
		}
	}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RokoError) WithSuggestion(s string) *RokoError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *RokoError) WithDetail(d string) *RokoError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detailed explanation to the error.
func (e *RokoError) WithDetailf(format string, args ...any) *RokoError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithContext sets the context lines. The first line is numbered two
// lines above the location, as for lines read from source.
func (e *RokoError) WithContext(lines []string) *RokoError {
	e.Context = lines
	return e
}

// Wrap wraps another error.
func (e *RokoError) Wrap(err error) *RokoError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

func contextLines(all []string, targetLine, contextSize int) []string {
	start := targetLine - contextSize/2
	end := targetLine + contextSize/2
	if start < 1 {
		start = 1
	}
	if end > len(all) {
		end = len(all)
	}
	if start > end {
		return nil
	}
	return all[start-1 : end]
}

// New creates a RokoError from a registered error code.
func New(code string) *RokoError {
	template, ok := GetTemplate(code)
	if !ok {
		return &RokoError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RokoError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new RokoError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *RokoError {
	return &RokoError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a RokoError. An error that already
// is a RokoError is returned unchanged.
func FromError(err error, code string) *RokoError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RokoError); ok {
		return re
	}
	return New(code).Wrap(err)
}

// Code returns the code of the first RokoError in err's tree, or "".
func Code(err error) string {
	var re *RokoError
	if stderrors.As(err, &re) {
		return re.Code
	}
	return ""
}
