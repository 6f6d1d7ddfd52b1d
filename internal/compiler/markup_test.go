package compiler

import (
	"errors"
	"go/ast"
	"go/parser"
	"strings"
	"testing"
)

// squash removes all whitespace so expected code can be laid out freely.
func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func TestCompileTemplate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		vdom string
		msg  string
		want string
	}{
		{
			name: "key onclick and text",
			src:  `<div key={k} onclick={Clicked{}}>text</div>`,
			want: `vdom.Div[Msg](vdom.Some(k), []vdom.Attribute[Msg]{
				vdom.OnClick(vdom.Share[Msg](Clicked{})),
			}, []*vdom.Node[Msg]{
				vdom.Text[Msg]("text"),
			})`,
		},
		{
			name: "literal key",
			src:  `<li key="first">a</li>`,
			want: `vdom.Li[Msg](vdom.Some("first"), nil, []*vdom.Node[Msg]{
				vdom.Text[Msg]("a"),
			})`,
		},
		{
			name: "component with model",
			src:  `<Card model={m} key="c1">hi</Card>`,
			want: `Card(m, vdom.Some("c1"), []vdom.Attribute[Msg]{}, []*vdom.Node[Msg]{
				vdom.Text[Msg]("hi"),
			})`,
		},
		{
			name: "qualified component",
			src:  `<ui.Badge class="x"/>`,
			want: `ui.Badge(nil, []vdom.Attribute[Msg]{
				vdom.Custom[Msg]("class", "x"),
			}, []*vdom.Node[Msg]{})`,
		},
		{
			name: "element with model",
			src:  `<div model={m}></div>`,
			want: `vdom.Component[Msg]("div", m, nil, nil, nil)`,
		},
		{
			name: "children replace the child list",
			src:  `<ul children={items}><li>ignored</li></ul>`,
			want: `vdom.Ul[Msg](nil, nil, items)`,
		},
		{
			name: "custom attributes",
			src:  `<input type="checkbox" checked="" value={n}/>`,
			want: `vdom.Input[Msg](nil, []vdom.Attribute[Msg]{
				vdom.Custom[Msg]("type", "checkbox"),
				vdom.Custom[Msg]("checked", ""),
				vdom.Custom[Msg]("value", vdom.Str(n)),
			}, nil)`,
		},
		{
			name: "textarea keeps its text",
			src:  `<textarea rows="2">a < b</textarea>`,
			want: `vdom.Textarea[Msg](nil, []vdom.Attribute[Msg]{
				vdom.Custom[Msg]("rows", "2"),
			}, []*vdom.Node[Msg]{
				vdom.Text[Msg]("a < b"),
			})`,
		},
		{
			name: "style keeps its braces",
			src:  `<style>p { color: red }</style>`,
			want: `vdom.El[Msg]("style", nil, nil, []*vdom.Node[Msg]{
				vdom.Text[Msg]("p { color: red }"),
			})`,
		},
		{
			name: "lifecycle events",
			src:  `<div onmount={Mounted{}} onunmount={Gone{}}></div>`,
			want: `vdom.Div[Msg](nil, []vdom.Attribute[Msg]{
				vdom.OnMount(vdom.Share[Msg](Mounted{})),
				vdom.OnUnmount(vdom.Share[Msg](Gone{})),
			}, nil)`,
		},
		{
			name: "unknown element",
			src:  `<my-widget></my-widget>`,
			want: `vdom.El[Msg]("my-widget", nil, nil, nil)`,
		},
		{
			name: "block child",
			src:  `<p>Hello {name}</p>`,
			want: `vdom.P[Msg](nil, nil, []*vdom.Node[Msg]{
				vdom.Text[Msg]("Hello "),
				vdom.Into[Msg](name),
			})`,
		},
		{
			name: "entities are decoded",
			src:  `<p>a &amp; b</p>`,
			want: `vdom.P[Msg](nil, nil, []*vdom.Node[Msg]{
				vdom.Text[Msg]("a & b"),
			})`,
		},
		{
			name: "whitespace between elements is dropped",
			src: `
				<ul>
					<li>a</li>
					<li>b</li>
				</ul>
			`,
			want: `vdom.Ul[Msg](nil, nil, []*vdom.Node[Msg]{
				vdom.Li[Msg](nil, nil, []*vdom.Node[Msg]{vdom.Text[Msg]("a"),}),
				vdom.Li[Msg](nil, nil, []*vdom.Node[Msg]{vdom.Text[Msg]("b"),}),
			})`,
		},
		{
			name: "table parts at the root",
			src:  `<tr><td>1</td></tr>`,
			want: `vdom.Tr[Msg](nil, nil, []*vdom.Node[Msg]{
				vdom.Td[Msg](nil, nil, []*vdom.Node[Msg]{vdom.Text[Msg]("1"),}),
			})`,
		},
		{
			name: "explicit table body",
			src:  `<table><tbody><tr><td>{n}</td></tr></tbody></table>`,
			want: `vdom.Table[Msg](nil, nil, []*vdom.Node[Msg]{
				vdom.Tbody[Msg](nil, nil, []*vdom.Node[Msg]{
					vdom.Tr[Msg](nil, nil, []*vdom.Node[Msg]{
						vdom.Td[Msg](nil, nil, []*vdom.Node[Msg]{vdom.Into[Msg](n),}),
					}),
				}),
			})`,
		},
		{
			name: "rows passed as children",
			src:  `<table><tbody children={rows}></tbody></table>`,
			want: `vdom.Table[Msg](nil, nil, []*vdom.Node[Msg]{
				vdom.Tbody[Msg](nil, nil, rows),
			})`,
		},
		{
			name: "non-breaking space is kept",
			src:  `<p>&nbsp;</p>`,
			want: `vdom.P[Msg](nil, nil, []*vdom.Node[Msg]{vdom.Text[Msg]("\u00a0"),})`,
		},
		{
			name: "text root",
			src:  `hello`,
			want: `vdom.Text[Msg]("hello")`,
		},
		{
			name: "block root",
			src:  `{child}`,
			want: `vdom.Into[Msg](child)`,
		},
		{
			name: "import alias and qualified message type",
			src:  `<span>x</span>`,
			vdom: "v",
			msg:  "app.Msg",
			want: `v.Span[app.Msg](nil, nil, []*v.Node[app.Msg]{v.Text[app.Msg]("x"),})`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vdomName, msg := tt.vdom, tt.msg
			if vdomName == "" {
				vdomName, msg = "vdom", "Msg"
			}
			got, err := compileTemplate(tt.src, vdomName, msg)
			if err != nil {
				t.Fatalf("compileTemplate() error = %v", err)
			}
			if squash(got) != squash(tt.want) {
				t.Errorf("compileTemplate() =\n%s\nwant\n%s", got, tt.want)
			}
			if _, err := parser.ParseExpr(got); err != nil {
				t.Errorf("output is not a Go expression: %v\n%s", err, got)
			}
		})
	}
}

// args returns the argument count of the outermost call in code.
func args(t *testing.T, code string) int {
	t.Helper()
	e, err := parser.ParseExpr(code)
	if err != nil {
		t.Fatalf("ParseExpr(%q) error = %v", code, err)
	}
	call, ok := e.(*ast.CallExpr)
	if !ok {
		t.Fatalf("%q is not a call", code)
	}
	return len(call.Args)
}

func TestModelShiftsArity(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{`<Card>x</Card>`, 3},
		{`<Card model={m}>x</Card>`, 4},
		{`<div>x</div>`, 3},
		// vdom.Component also takes the tag name.
		{`<div model={m}>x</div>`, 5},
	}
	for _, tt := range tests {
		code, err := compileTemplate(tt.src, "vdom", "Msg")
		if err != nil {
			t.Fatal(err)
		}
		if got := args(t, code); got != tt.want {
			t.Errorf("%s: %d args, want %d\n%s", tt.src, got, tt.want, code)
		}
		if strings.Contains(code, `"model"`) {
			t.Errorf("%s: model leaked into the attribute list:\n%s", tt.src, code)
		}
	}
}

func TestReservedAttributesNeverEmitted(t *testing.T) {
	got, err := compileTemplate(`<Row key={id} model={m} children={kids} class="r"><b>lost</b></Row>`, "vdom", "Msg")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{`"key"`, `"model"`, `"children"`, "lost"} {
		if strings.Contains(got, name) {
			t.Errorf("output contains %s:\n%s", name, got)
		}
	}
	want := `Row(m, vdom.Some(id), []vdom.Attribute[Msg]{vdom.Custom[Msg]("class", "r"),}, kids)`
	if squash(got) != squash(want) {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestReplacedChildrenMayHoldExpressions(t *testing.T) {
	got, err := compileTemplate(`<ul children={items}><li class={c}>{x}</li><Item/></ul>`, "vdom", "Msg")
	if err != nil {
		t.Fatalf("compileTemplate() error = %v", err)
	}
	if want := `vdom.Ul[Msg](nil, nil, items)`; squash(got) != squash(want) {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestRestructuredMarkupMessages(t *testing.T) {
	tests := []struct {
		src    string
		offset int
		want   string
	}{
		{`<div><p><div>x</div></p></div>`, 8, "<div> was moved by the HTML parser"},
		{`<div><body>x</body></div>`, 0, "text in <div> was moved"},
		{`<div><table><tbody>{rows}</tbody></table></div>`, 19, "{rows} cannot appear inside <tbody>; pass the nodes with children={...}"},
		{`<div><form><form></form></form></div>`, 11, "<form> was dropped by the HTML parser"},
	}
	for _, tt := range tests {
		_, err := compileTemplate(tt.src, "vdom", "Msg")
		var se *syntaxError
		if !errors.As(err, &se) {
			t.Fatalf("compileTemplate(%q) error = %v, want a syntax error", tt.src, err)
		}
		if se.code != "RE100" || se.offset != tt.offset || !strings.Contains(se.msg, tt.want) {
			t.Errorf("compileTemplate(%q) = %s at %d %q, want RE100 at %d containing %q", tt.src, se.code, se.offset, se.msg, tt.offset, tt.want)
		}
	}
}

func TestCompileTemplateErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"fragment", `<a></a><b></b>`, "RE101"},
		{"text beside an element", `<a></a> tail`, "RE101"},
		{"empty", " \n\t ", "RE104"},
		{"only a comment", `<!-- nothing -->`, "RE104"},
		{"key without value", `<div key></div>`, "RE102"},
		{"literal children", `<div children="x"></div>`, "RE102"},
		{"onclick without message", `<button onclick>x</button>`, "RE102"},
		{"malformed markup", `<div>`, "RE100"},
		{"bad expression", `<div>{1 +}</div>`, "RE102"},
		{"value-less attribute", `<input disabled>`, "RE102"},
		{"block in textarea", `<textarea>{v}</textarea>`, "RE100"},
		{"block in title", `<title>{t}</title>`, "RE100"},
		{"block dropped in select", `<select>{opts}</select>`, "RE100"},
		{"component dropped in select", `<select><Opt></Opt></select>`, "RE100"},
		{"div inside p", `<p><div>x</div></p>`, "RE100"},
		{"block fostered out of table", `<table>{rows}</table>`, "RE100"},
		{"nested div inside p", `<div><p><div>x</div></p></div>`, "RE100"},
		{"nested list inside p", `<section><p><ul><li>a</li></ul></p></section>`, "RE100"},
		{"nested foster parenting", `<div><table><span>a</span></table></div>`, "RE100"},
		{"nested foster-parented text", `<div><table>a</table></div>`, "RE100"},
		{"block in tbody", `<div><table><tbody>{rows}</tbody></table></div>`, "RE100"},
		{"implied tbody", `<div><table><tr><td>1</td></tr></table></div>`, "RE100"},
		{"dropped body", `<div><body>x</body></div>`, "RE100"},
		{"dropped html", `<div><html><span>x</span></html></div>`, "RE100"},
		{"nested anchors", `<div><a><a>x</a></a></div>`, "RE100"},
		{"nested form", `<div><form><form></form></form></div>`, "RE100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileTemplate(tt.src, "vdom", "Msg")
			var se *syntaxError
			if !errors.As(err, &se) {
				t.Fatalf("compileTemplate() error = %v, want a syntax error", err)
			}
			if se.code != tt.code {
				t.Errorf("code = %s, want %s (%v)", se.code, tt.code, se)
			}
		})
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"  \n\t ", ""},
		{"\n    Hello, world\n  ", "Hello, world"},
		{"a ", "a "},
		{" b", " b"},
		{"one\ntwo", "one\ntwo"},
		{"\n  x ", "x "},
		{"\u00a0", "\u00a0"},
	}
	for _, tt := range tests {
		if got := normalizeText(tt.in); got != tt.want {
			t.Errorf("normalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
