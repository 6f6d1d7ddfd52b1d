package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rokoui/roko/internal/errors"
)

const view = "//go:build roko\n\npackage app\n\nimport \"github.com/rokoui/roko/pkg/vdom\"\n\n" +
	"func view() *vdom.Node[int] { return vdom.HTML[int](`<p>ok</p>`) }\n"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
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

func TestGenCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "ui", "view.roko.go"), view)

	out, err := run(t, "gen")
	if err != nil {
		t.Fatalf("roko gen error = %v", err)
	}
	if !strings.Contains(out, "Generated 1 of 1 files") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "ui", "view_gen.go")); err != nil {
		t.Errorf("view_gen.go not written: %v", err)
	}

	out, err = run(t, "gen")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Generated 0 of 1 files") {
		t.Errorf("second run output = %q, want nothing regenerated", out)
	}
}

func TestGenCommandErrors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "a.roko.go"), strings.Replace(view, "<p>ok</p>", "<p></p><p></p>", 1))
	writeFile(t, filepath.Join(dir, "b.roko.go"), strings.Replace(view, "<p>ok</p>", "{1 +}", 1))

	_, err := run(t, "gen")
	var codes []string
	for _, leaf := range errors.Flatten(err) {
		codes = append(codes, errors.Code(leaf))
	}
	if strings.Join(codes, ",") != "RE101,RE102" {
		t.Errorf("roko gen error codes = %v, want [RE101 RE102] (%v)", codes, err)
	}
}

func TestGenCommandExplicitDirs(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "ui", "view.roko.go"), view)
	writeFile(t, filepath.Join(dir, "pages", "home.roko.go"), view)

	if _, err := run(t, "gen", "ui"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "ui", "view_gen.go")); err != nil {
		t.Errorf("ui/view_gen.go not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "pages", "home_gen.go")); !os.IsNotExist(err) {
		t.Errorf("pages/home_gen.go written outside the requested directory")
	}
}

func TestGenCommandInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "roko.json"), `{"gen": {"inputSuffix": ".tmpl"}}`)

	_, err := run(t, "gen")
	if got := errors.Code(err); got != "RE122" {
		t.Errorf("roko gen error = %v, want RE122", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if out != version+"\n" {
		t.Errorf("version --short = %q, want %q", out, version+"\n")
	}
}
