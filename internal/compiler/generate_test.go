package compiler

import (
	"bytes"
	stderrors "errors"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rokoui/roko/internal/errors"
)

const viewSource = "//go:build roko\n" + `
package app

import (
	"context"

	"github.com/rokoui/roko/pkg/vdom"
)

type Msg interface{}

type Clicked struct{}

func view(label string) *vdom.Node[Msg] {
	return vdom.HTML[Msg](` + "`" + `
		<div class="row" onclick={Clicked{}}>
			{label}
		</div>` + "`" + `)
}

// load fetches a record.
//
//roko:cmd
func load(ctx context.Context, id string) (Msg, bool) {
	return Clicked{}, true
}
`

func compile(t *testing.T, src string) string {
	t.Helper()
	out, err := CompileSource("view.roko.go", []byte(src), Options{})
	if err != nil {
		t.Fatalf("CompileSource() error = %v", err)
	}
	return string(out)
}

func funcNames(t *testing.T, src string) []string {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "out.go", src, 0)
	if err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, src)
	}
	var names []string
	for _, d := range file.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok {
			names = append(names, fn.Name.Name)
		}
	}
	return names
}

func TestCompileSource(t *testing.T) {
	out := compile(t, viewSource)

	if !strings.HasPrefix(out, "// Code generated by roko gen from view.roko.go. DO NOT EDIT.\n") {
		t.Errorf("missing generated header:\n%s", out)
	}
	for _, unwanted := range []string{"//go:build", "vdom.HTML", "//roko:cmd"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("output still contains %q:\n%s", unwanted, out)
		}
	}
	for _, want := range []string{
		`"github.com/rokoui/roko/pkg/command"`,
		`vdom.Div[Msg](nil, []vdom.Attribute[Msg]{`,
		`vdom.Custom[Msg]("class", "row"),`,
		`vdom.OnClick(vdom.Share[Msg](Clicked{})),`,
		`vdom.Into[Msg](label),`,
		"// load fetches a record.\n",
		"func load(ctx context.Context, id string) *command.Future[Msg] {",
		"return command.Start(ctx, func(ctx context.Context) (Msg, bool) {",
		"return loadFuture(ctx, id)",
		"// loadFuture is the work started by load.\n",
		"func loadFuture(ctx context.Context, id string) (Msg, bool) {",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if diff := cmp.Diff([]string{"view", "load", "loadFuture"}, funcNames(t, out)); diff != "" {
		t.Errorf("functions mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileSourceDeterministic(t *testing.T) {
	first := compile(t, viewSource)
	second := compile(t, viewSource)
	if first != second {
		t.Error("two runs over the same input produced different output")
	}
}

func TestCompileSourceImportAlias(t *testing.T) {
	src := `package app

import v "github.com/rokoui/roko/pkg/vdom"

func view() *v.Node[int] {
	return v.HTML[int](` + "`<p>hi</p>`" + `)
}
`
	out := compile(t, src)
	if !strings.Contains(out, `v.P[int](nil, nil, []*v.Node[int]{`) {
		t.Errorf("aliased import not used:\n%s", out)
	}
}

func TestCompileSourceMultipleTemplates(t *testing.T) {
	src := `package app

import "github.com/rokoui/roko/pkg/vdom"

func item(s string) *vdom.Node[int] {
	return vdom.HTML[int](` + "`<li>{s}</li>`" + `)
}

func list() *vdom.Node[int] {
	return vdom.HTML[int](` + "`<ul>{item(\"a\")}{item(\"b\")}</ul>`" + `)
}
`
	out := compile(t, src)
	if strings.Contains(out, "vdom.HTML") {
		t.Errorf("template left behind:\n%s", out)
	}
	if got := strings.Count(out, "vdom.Into[int]("); got != 3 {
		t.Errorf("vdom.Into count = %d, want 3:\n%s", got, out)
	}
}

func TestCompileSourceBuildConstraints(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       string
	}{
		{"only the tag", "//go:build roko", ""},
		{"tag and platform", "//go:build roko && linux", "//go:build linux"},
		{"platform and tag", "//go:build js && wasm && roko", "//go:build js && wasm"},
		{"unrelated", "//go:build linux", "//go:build linux"},
		{"negated tag is kept", "//go:build !roko", "//go:build !roko"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := compile(t, tt.constraint+"\n\npackage app\n")
			var got string
			for _, line := range strings.Split(out, "\n") {
				if strings.HasPrefix(line, "//go:build") {
					got = line
				}
			}
			if got != tt.want {
				t.Errorf("constraint = %q, want %q\n%s", got, tt.want, out)
			}
		})
	}
}

func TestCommandTransform(t *testing.T) {
	tests := []struct {
		name  string
		decl  string
		wants []string
	}{
		{
			name: "method",
			decl: `//roko:cmd
func (s *Store) save(ctx context.Context, rec Record) (Msg, bool) { return nil, false }`,
			wants: []string{
				"func (s *Store) save(ctx context.Context, rec Record) *command.Future[Msg] {",
				"return s.saveFuture(ctx, rec)",
				"func (s *Store) saveFuture(ctx context.Context, rec Record) (Msg, bool) {",
			},
		},
		{
			name: "type parameters",
			decl: `//roko:cmd
func get[T any, K comparable](ctx context.Context, key K) (T, bool) { var zero T; return zero, false }`,
			wants: []string{
				"func get[T any, K comparable](ctx context.Context, key K) *command.Future[T] {",
				"return command.Start(ctx, func(ctx context.Context) (T, bool) {",
				"return getFuture[T, K](ctx, key)",
			},
		},
		{
			name: "variadic and grouped parameters",
			decl: `//roko:cmd
func batch(c context.Context, a, b int, rest ...string) (Msg, bool) { return nil, false }`,
			wants: []string{
				"func batch(c context.Context, a, b int, rest ...string) *command.Future[Msg] {",
				"return command.Start(c, func(c context.Context) (Msg, bool) {",
				"return batchFuture(c, a, b, rest...)",
			},
		},
		{
			name: "named results",
			decl: `//roko:cmd
func tick(ctx context.Context) (msg Msg, ok bool) { return }`,
			wants: []string{
				"func tick(ctx context.Context) *command.Future[Msg] {",
				"func tickFuture(ctx context.Context) (msg Msg, ok bool) {",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := compile(t, commandFile(tt.decl))
			for _, want := range tt.wants {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func commandFile(decl string) string {
	return `package app

import "context"

type Msg interface{}

type Store struct{}

type Record struct{}

` + decl + "\n"
}

func TestCommandTransformErrors(t *testing.T) {
	tests := []struct {
		name string
		decl string
		code string
	}{
		{"no context", "func f(id string) (Msg, bool) { return nil, false }", "RE110"},
		{"context not first", "func f(id string, ctx context.Context) (Msg, bool) { return nil, false }", "RE110"},
		{"no parameters", "func f() (Msg, bool) { return nil, false }", "RE110"},
		{"single result", "func f(ctx context.Context) Msg { return nil }", "RE112"},
		{"error result", "func f(ctx context.Context) (Msg, error) { return nil, nil }", "RE112"},
		{"no result", "func f(ctx context.Context) {}", "RE112"},
		{"unnamed parameters", "func f(context.Context, string) (Msg, bool) { return nil, false }", "RE111"},
		{"blank parameter", "func f(ctx context.Context, _ string) (Msg, bool) { return nil, false }", "RE111"},
		{"unnamed receiver", "func (*Store) f(ctx context.Context) (Msg, bool) { return nil, false }", "RE111"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileSource("cmd.roko.go", []byte(commandFile("//roko:cmd\n"+tt.decl)), Options{})
			if got := errors.Code(err); got != tt.code {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCommandRequiresDirective(t *testing.T) {
	src := commandFile("// plain mentions roko:cmd in prose.\nfunc plain(ctx context.Context) (Msg, bool) { return nil, false }")
	out := compile(t, src)
	if strings.Contains(out, "plainFuture") {
		t.Errorf("function without the directive was transformed:\n%s", out)
	}
}

func TestCompileSourceErrors(t *testing.T) {
	const header = "package app\n\nimport \"github.com/rokoui/roko/pkg/vdom\"\n\n"

	tests := []struct {
		name string
		body string
		code string
		line int
	}{
		{
			name: "go syntax error",
			body: "func view( {}\n",
			code: "RE106",
			line: 5,
		},
		{
			name: "non-literal template",
			body: "var tmpl = \"<p></p>\"\n\nfunc view() *vdom.Node[int] { return vdom.HTML[int](tmpl) }\n",
			code: "RE103",
			line: 7,
		},
		{
			name: "missing message type",
			body: "func view() any { return vdom.HTML(`<p></p>`) }\n",
			code: "RE103",
			line: 5,
		},
		{
			name: "expression error on a later line",
			body: "func view() *vdom.Node[int] {\n\treturn vdom.HTML[int](`<div>\n\t\t<p>{1 +}</p>\n\t</div>`)\n}\n",
			code: "RE102",
			line: 7,
		},
		{
			name: "fragment",
			body: "func view() *vdom.Node[int] { return vdom.HTML[int](`<a></a><b></b>`) }\n",
			code: "RE101",
			line: 5,
		},
		{
			name: "unclosed tag",
			body: "func view() *vdom.Node[int] {\n\treturn vdom.HTML[int](`\n<div>\n<span>\n</div>`)\n}\n",
			code: "RE100",
			line: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileSource("view.roko.go", []byte(header+tt.body), Options{})
			if got := errors.Code(err); got != tt.code {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}
			var re *errors.RokoError
			if !stderrors.As(err, &re) || re.Location == nil {
				t.Fatalf("error %v has no location", err)
			}
			if re.Location.Line != tt.line {
				t.Errorf("line = %d, want %d", re.Location.Line, tt.line)
			}
			if re.Location.File != "view.roko.go" {
				t.Errorf("file = %q, want view.roko.go", re.Location.File)
			}
		})
	}
}

func TestCompileSourceWithoutTemplates(t *testing.T) {
	src := []byte("package app\n\nfunc answer() int { return 42 }\n")
	out, err := CompileSource("plain.roko.go", src, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out, []byte("func answer() int { return 42 }")) {
		t.Errorf("source not preserved:\n%s", out)
	}
}
