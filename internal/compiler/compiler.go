package compiler

import (
	"bytes"
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rokoui/roko/internal/config"
	"github.com/rokoui/roko/internal/errors"
)

// Options configures the compiler.
type Options struct {
	// InputSuffix identifies template source files.
	InputSuffix string

	// OutputSuffix replaces InputSuffix to name the generated file.
	OutputSuffix string

	// BuildTag is removed from the build constraint of generated files.
	BuildTag string

	// CommandPackage is the import path used by command wrappers.
	CommandPackage string

	// Ignore lists directory names skipped during discovery.
	Ignore []string

	// Logger receives per-file progress. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the options roko gen uses without a roko.json.
func DefaultOptions() Options {
	return OptionsFromConfig(config.New())
}

// OptionsFromConfig builds compiler options from project configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		InputSuffix:    cfg.Gen.InputSuffix,
		OutputSuffix:   cfg.Gen.OutputSuffix,
		BuildTag:       cfg.Gen.BuildTag,
		CommandPackage: cfg.Gen.CommandPackage,
		Ignore:         cfg.Gen.Ignore,
	}
}

func (o Options) withDefaults() Options {
	if o.InputSuffix == "" {
		o.InputSuffix = config.DefaultInputSuffix
	}
	if o.OutputSuffix == "" {
		o.OutputSuffix = config.DefaultOutputSuffix
	}
	if o.BuildTag == "" {
		o.BuildTag = config.DefaultBuildTag
	}
	if o.CommandPackage == "" {
		o.CommandPackage = config.DefaultCommandPackage
	}
	if o.Logger == nil {
		o.Logger = slog.Default().With("component", "compiler")
	}
	return o
}

// OutputPath returns the generated file path for an input file.
func (o Options) OutputPath(input string) string {
	o = o.withDefaults()
	return strings.TrimSuffix(input, o.InputSuffix) + o.OutputSuffix
}

// IsInput reports whether path names a template source file.
func (o Options) IsInput(path string) bool {
	o = o.withDefaults()
	return strings.HasSuffix(path, o.InputSuffix)
}

// FileResult is the outcome of compiling one file.
type FileResult struct {
	// Input is the source file.
	Input string

	// Output is the generated file.
	Output string

	// Changed is false when the generated file was already up to date.
	Changed bool

	// Error is the compile error, if any. Nothing is written on error.
	Error error
}

// Result contains the result of a compile run.
type Result struct {
	// Files lists every input file found, in walk order.
	Files []FileResult

	// Duration is how long the run took.
	Duration time.Duration
}

// Err joins the errors of every failed file.
func (r *Result) Err() error {
	var errs []error
	for _, f := range r.Files {
		if f.Error != nil {
			errs = append(errs, f.Error)
		}
	}
	return stderrors.Join(errs...)
}

// Changed returns the outputs that were written.
func (r *Result) Changed() []string {
	var out []string
	for _, f := range r.Files {
		if f.Changed {
			out = append(out, f.Output)
		}
	}
	return out
}

// Compile generates code for every input file under root. A failing file
// does not stop the walk; its error is reported in the result and joined
// into the returned error.
func Compile(ctx context.Context, root string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	start := time.Now()
	result := &Result{}

	inputs, err := Discover(root, opts)
	if err != nil {
		return result, err
	}
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Files = append(result.Files, CompileFile(input, opts))
	}

	result.Duration = time.Since(start)
	opts.Logger.Info("generation finished",
		"root", root,
		"files", len(result.Files),
		"changed", len(result.Changed()),
		"duration", result.Duration,
	)
	return result, result.Err()
}

// Discover returns the input files under root, skipping ignored, hidden
// and underscore-prefixed directories.
func Discover(root string, opts Options) ([]string, error) {
	opts = opts.withDefaults()
	ignore := make(map[string]bool, len(opts.Ignore))
	for _, name := range opts.Ignore {
		ignore[name] = true
	}

	var inputs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (ignore[name] || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if opts.IsInput(path) {
			inputs = append(inputs, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.New("RE141").Wrap(err)
	}
	return inputs, nil
}

// CompileFile compiles one input file and writes its output when the
// content changed.
func CompileFile(input string, opts Options) FileResult {
	opts = opts.withDefaults()
	res := FileResult{Input: input, Output: opts.OutputPath(input)}

	src, err := os.ReadFile(input)
	if err != nil {
		res.Error = errors.New("RE141").WithDetail(input).Wrap(err)
		return res
	}
	out, err := CompileSource(input, src, opts)
	if err != nil {
		res.Error = err
		opts.Logger.Debug("generation failed", "file", input, "error", err)
		return res
	}

	if prev, err := os.ReadFile(res.Output); err == nil && bytes.Equal(prev, out) {
		opts.Logger.Debug("generated file up to date", "file", res.Output)
		return res
	}
	if err := os.WriteFile(res.Output, out, 0644); err != nil {
		res.Error = errors.New("RE141").WithDetail(res.Output).Wrap(err)
		return res
	}
	res.Changed = true
	opts.Logger.Debug("generated", "file", res.Output)
	return res
}
