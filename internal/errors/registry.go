package errors

import (
	"sort"
	"sync"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

var registryMu sync.RWMutex

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Render Errors (RE001-RE099)
	// ============================================

	"RE001": {
		Category:   CategoryRender,
		Message:    "Document mutation failed",
		Suggestion: "The pass was aborted and the document left as-is. Re-render from a fresh diff against the current document.",
	},
	"RE002": {
		Category:   CategoryRender,
		Message:    "Message dispatch failed",
		Suggestion: "Check that the update loop is still receiving messages and that the context passed to Apply is not cancelled.",
	},
	"RE003": {
		Category:   CategoryRender,
		Message:    "Patch targets a missing child",
		Suggestion: "The patch tree was computed against a different document. Diff against the tree that is currently mounted.",
	},
	"RE004": {
		Category:   CategoryRender,
		Message:    "Unsupported node or target",
		Suggestion: "Add and Update patches need an element target; nodes must be elements or text.",
	},

	// ============================================
	// Compile Errors (RE100-RE119)
	// ============================================

	"RE100": {
		Category:   CategoryCompile,
		Message:    "Malformed markup",
		Suggestion: "Check that every tag is closed and every { has a matching }.",
	},
	"RE101": {
		Category:   CategoryCompile,
		Message:    "Fragments are not supported",
		Suggestion: "Wrap the top-level nodes in a single element.",
	},
	"RE102": {
		Category:   CategoryCompile,
		Message:    "Invalid expression",
		Suggestion: "The text between { and } must be a single Go expression.",
	},
	"RE103": {
		Category:   CategoryCompile,
		Message:    "Template argument is not a string literal",
		Suggestion: "Pass the markup as a raw string literal: vdom.HTML[Msg](`<div>...</div>`).",
	},
	"RE104": {
		Category:   CategoryCompile,
		Message:    "Empty template",
		Suggestion: "A template must contain exactly one root element.",
	},
	"RE105": {
		Category:   CategoryCompile,
		Message:    "Invalid tag name",
		Suggestion: "Use an HTML tag name, a capitalized component name or a qualified name like ui.Card.",
	},
	"RE106": {
		Category:   CategoryCompile,
		Message:    "Source file does not parse",
		Suggestion: "Fix the Go syntax error before running roko gen.",
	},
	"RE110": {
		Category:   CategoryCompile,
		Message:    "Command is not cancellable",
		Suggestion: "Take a context.Context as the first parameter of a //roko:cmd function.",
	},
	"RE111": {
		Category:   CategoryCompile,
		Message:    "Unsupported parameter pattern",
		Suggestion: "Give every parameter of a //roko:cmd function a name other than _.",
	},
	"RE112": {
		Category:   CategoryCompile,
		Message:    "Invalid command result",
		Suggestion: "A //roko:cmd function must return (Msg, bool).",
	},
	"RE113": {
		Category:   CategoryCompile,
		Message:    "Generated source is invalid",
		Suggestion: "This is a bug in roko gen, or a template expression broke the surrounding syntax.",
	},

	// ============================================
	// Config Errors (RE120-RE139)
	// ============================================

	"RE120": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Suggestion: "Check roko.json for JSON syntax errors.",
	},
	"RE121": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Create a roko.json in the project root or run from a directory inside the project.",
	},
	"RE122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},

	// ============================================
	// CLI Errors (RE140-RE159)
	// ============================================

	"RE140": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
	},
	"RE141": {
		Category:   CategoryCLI,
		Message:    "Generation failed",
		Suggestion: "Fix the reported template errors and run roko gen again.",
	},
	"RE142": {
		Category:   CategoryCLI,
		Message:    "Port already in use",
		Suggestion: "Stop the other process or pass --port.",
	},
	"RE143": {
		Category:   CategoryCLI,
		Message:    "WebAssembly build failed",
		Suggestion: "Run GOOS=js GOARCH=wasm go build on the dev.build package to see the full output.",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[code] = template
}
