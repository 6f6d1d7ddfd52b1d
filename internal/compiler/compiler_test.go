package compiler

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rokoui/roko/internal/config"
	"github.com/rokoui/roko/internal/errors"
)

const goodView = "//go:build roko\n\npackage app\n\nimport \"github.com/rokoui/roko/pkg/vdom\"\n\n" +
	"func view() *vdom.Node[int] { return vdom.HTML[int](`<p>ok</p>`) }\n"

const badView = "//go:build roko\n\npackage app\n\nimport \"github.com/rokoui/roko/pkg/vdom\"\n\n" +
	"func broken() *vdom.Node[int] { return vdom.HTML[int](`<a></a><b></b>`) }\n"

func testOptions() Options {
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return opts
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"view.roko.go",
		"ui/card.roko.go",
		"ui/card.go",
		"vendor/dep/x.roko.go",
		"testdata/y.roko.go",
		".cache/z.roko.go",
		"_old/w.roko.go",
	} {
		writeFile(t, filepath.Join(root, rel), "package x\n")
	}

	got, err := Discover(root, testOptions())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	want := []string{
		filepath.Join(root, "ui", "card.roko.go"),
		filepath.Join(root, "view.roko.go"),
	}
	sort.Strings(got)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Discover() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app", "view.roko.go"), goodView)
	writeFile(t, filepath.Join(root, "app", "broken.roko.go"), badView)

	result, err := Compile(context.Background(), root, testOptions())
	if errors.Code(err) != "RE101" {
		t.Fatalf("Compile() error = %v, want RE101 from broken.roko.go", err)
	}
	if len(result.Files) != 2 {
		t.Fatalf("Files = %d, want 2", len(result.Files))
	}

	out := filepath.Join(root, "app", "view_gen.go")
	if diff := cmp.Diff([]string{out}, result.Changed()); diff != "" {
		t.Errorf("Changed() mismatch (-want +got):\n%s", diff)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("generated file missing: %v", err)
	}
	if !strings.Contains(squash(string(data)), squash(`vdom.P[int](nil, nil, []*vdom.Node[int]{vdom.Text[int]("ok"),})`)) {
		t.Errorf("unexpected output:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(root, "app", "broken_gen.go")); !os.IsNotExist(err) {
		t.Errorf("a failing file must not produce output, stat error = %v", err)
	}

	// Nothing changes on a second run.
	if err := os.Remove(filepath.Join(root, "app", "broken.roko.go")); err != nil {
		t.Fatal(err)
	}
	again, err := Compile(context.Background(), root, testOptions())
	if err != nil {
		t.Fatalf("second Compile() error = %v", err)
	}
	if len(again.Changed()) != 0 {
		t.Errorf("second run changed %v", again.Changed())
	}
}

func TestCompileCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "view.roko.go"), goodView)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Compile(ctx, root, testOptions()); err != context.Canceled {
		t.Errorf("Compile() error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(filepath.Join(root, "view_gen.go")); !os.IsNotExist(err) {
		t.Error("a cancelled run must not write output")
	}
}

func TestCompileFileMissing(t *testing.T) {
	res := CompileFile(filepath.Join(t.TempDir(), "missing.roko.go"), testOptions())
	if errors.Code(res.Error) != "RE141" {
		t.Errorf("Error = %v, want RE141", res.Error)
	}
}

func TestOptions(t *testing.T) {
	cfg := config.New()
	cfg.Gen.InputSuffix = ".view.go"
	cfg.Gen.OutputSuffix = ".gen.go"
	opts := OptionsFromConfig(cfg)

	if got := opts.OutputPath("ui/card.view.go"); got != "ui/card.gen.go" {
		t.Errorf("OutputPath() = %q", got)
	}
	if !opts.IsInput("ui/card.view.go") || opts.IsInput("ui/card.go") {
		t.Error("IsInput() does not follow the configured suffix")
	}
	if got := (Options{}).OutputPath("a/b.roko.go"); got != "a/b_gen.go" {
		t.Errorf("zero Options OutputPath() = %q, want a/b_gen.go", got)
	}
}
