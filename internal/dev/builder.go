package dev

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rokoui/roko/internal/errors"
)

// BuilderConfig configures the WebAssembly build.
type BuilderConfig struct {
	// ProjectPath is the directory go build runs in.
	ProjectPath string

	// Package is the package to build (e.g., "./cmd/web").
	Package string

	// Output is where to write the .wasm binary.
	Output string

	// Tags are build tags to pass to go build.
	Tags []string

	// GoBinary is the go command. Defaults to "go".
	GoBinary string

	// Env are additional environment variables.
	Env []string
}

// BuildResult contains the result of a build.
type BuildResult struct {
	// Success indicates if the build succeeded.
	Success bool

	// Duration is how long the build took.
	Duration time.Duration

	// Output is the compiler output.
	Output string

	// Error is the build error, if any.
	Error error
}

// Builder compiles the application to WebAssembly with the go command.
type Builder struct {
	config BuilderConfig
}

// NewBuilder creates a new builder.
func NewBuilder(config BuilderConfig) *Builder {
	if config.GoBinary == "" {
		config.GoBinary = "go"
	}
	if config.Output == "" {
		config.Output = filepath.Join(config.ProjectPath, "web", "app.wasm")
	}
	return &Builder{config: config}
}

// Output returns the path of the built binary.
func (b *Builder) Output() string {
	return b.config.Output
}

// Args returns the go command arguments for a build.
func (b *Builder) Args() []string {
	args := []string{"build", "-o", b.config.Output}
	if len(b.config.Tags) > 0 {
		args = append(args, "-tags", strings.Join(b.config.Tags, ","))
	}
	return append(args, b.config.Package)
}

// Build runs GOOS=js GOARCH=wasm go build.
func (b *Builder) Build(ctx context.Context) BuildResult {
	start := time.Now()

	if err := os.MkdirAll(filepath.Dir(b.config.Output), 0755); err != nil {
		return BuildResult{
			Duration: time.Since(start),
			Error:    errors.New("RE143").Wrap(err),
		}
	}

	cmd := exec.CommandContext(ctx, b.config.GoBinary, b.Args()...)
	cmd.Dir = b.config.ProjectPath
	cmd.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")
	cmd.Env = append(cmd.Env, b.config.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	duration := time.Since(start)

	output := stderr.String()
	if output == "" {
		output = stdout.String()
	}

	if err != nil {
		return BuildResult{
			Duration: duration,
			Output:   output,
			Error:    errors.New("RE143").WithDetail(output).Wrap(err),
		}
	}

	return BuildResult{
		Success:  true,
		Duration: duration,
		Output:   output,
	}
}
