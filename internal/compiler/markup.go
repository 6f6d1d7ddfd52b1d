package compiler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/rokoui/roko/pkg/vdom"
)

// fragmentContext lets table parts (<tr>, <td>) appear at the root.
var fragmentContext = &html.Node{Type: html.ElementNode, Data: "template", DataAtom: atom.Template}

// template turns one preprocessed template into a Go expression.
type template struct {
	vdom string // local name of the vdom import
	msg  string // message type argument, as written in the source
	m    *markup

	used []bool // exprs consumed
	seen []int  // tag occurrences consumed
}

// compileTemplate compiles template text into a node constructor
// expression. vdomName and msg are spliced into the output verbatim.
func compileTemplate(src, vdomName, msg string) (string, error) {
	m, err := preprocess(src)
	if err != nil {
		return "", err
	}
	nodes, err := html.ParseFragment(strings.NewReader(m.html), fragmentContext)
	if err != nil {
		return "", errorf("RE100", -1, "%v", err)
	}
	t := &template{vdom: vdomName, msg: msg, m: m, used: make([]bool, len(m.exprs)), seen: make([]int, len(m.tags))}
	if err := t.verify(nodes); err != nil {
		return "", err
	}
	code, err := t.root(nodes)
	if err != nil {
		return "", err
	}
	if err := t.consumed(); err != nil {
		return "", err
	}
	return code, nil
}

// verify checks the parsed tree against the nesting the template was
// written with. The HTML parser repairs markup it considers invalid by
// moving, inserting, dropping and duplicating elements and text (a <div>
// closes an open <p>, content in a <table> is moved in front of it, <body>
// is dropped); any such repair is an error.
func (t *template) verify(nodes []*html.Node) error {
	next := 0
	var walk func(n *html.Node, parent int) error
	walk = func(n *html.Node, parent int) error {
		if n.Type != html.ElementNode {
			return nil
		}
		if next >= len(t.m.elems) {
			return errorf("RE100", -1, "the HTML parser inserted <%s>; check element nesting", t.source(n.Data))
		}
		id, w := next, t.m.elems[next]
		next++
		if j, ok := t.writtenBlock(n); ok && (j != id || parent != w.parent) {
			b := t.m.elems[j]
			if b.parent >= 0 {
				return errorf("RE100", b.offset, "%s cannot appear inside <%s>; pass the nodes with children={...}", b.name, t.m.elems[b.parent].name)
			}
			return errorf("RE100", b.offset, "%s was moved by the HTML parser; check element nesting", b.name)
		}
		switch {
		case !strings.EqualFold(w.tag, n.Data):
			return errorf("RE100", w.offset, "%s was dropped or moved by the HTML parser (found <%s> in its place); check element nesting", t.describe(w), t.source(n.Data))
		case parent != w.parent:
			return errorf("RE100", w.offset, "%s was moved by the HTML parser; check element nesting", t.describe(w))
		case w.text >= 0 && w.text != textRuns(n):
			return errorf("RE100", w.offset, "text in <%s> was moved by the HTML parser; check element nesting", w.name)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := walk(c, id); err != nil {
				return err
			}
		}
		return nil
	}

	rootText := 0
	for _, n := range nodes {
		if n.Type == html.TextNode && hasText(n.Data) {
			rootText++
		}
		if err := walk(n, -1); err != nil {
			return err
		}
	}
	if next < len(t.m.elems) {
		w := t.m.elems[next]
		return errorf("RE100", w.offset, "%s was dropped by the HTML parser; it cannot appear at this position", t.describe(w))
	}
	if rootText != t.m.rootText {
		return errorf("RE100", -1, "top-level text was moved by the HTML parser; check element nesting")
	}
	return nil
}

func textRuns(n *html.Node) int {
	runs := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && hasText(c.Data) {
			runs++
		}
	}
	return runs
}

// writtenBlock returns the elems index of a parsed block.
func (t *template) writtenBlock(n *html.Node) (int, bool) {
	if n.Data != blockTag {
		return 0, false
	}
	for _, a := range n.Attr {
		if a.Key != "data-ref" {
			continue
		}
		i, err := strconv.Atoi(a.Val)
		if err != nil || i < 0 || i >= len(t.m.exprs) {
			return 0, false
		}
		for j, w := range t.m.elems {
			if w.tag == blockTag && w.offset == t.m.exprs[i].offset-1 {
				return j, true
			}
		}
	}
	return 0, false
}

// describe names a written element for diagnostics.
func (t *template) describe(w written) string {
	if w.tag == blockTag {
		return w.name
	}
	return "<" + w.name + ">"
}

// source returns the template name of a parsed tag.
func (t *template) source(data string) string {
	if i, ok := t.index(data, tagAliasPrefix); ok && i < len(t.m.tags) {
		return t.m.tags[i]
	}
	return data
}

// consumed fails when the HTML parser dropped an expression or a
// component tag, which it does inside <select> and similar contexts.
func (t *template) consumed() error {
	for i, ok := range t.used {
		if !ok {
			e := t.m.exprs[i]
			return errorf("RE100", e.offset, "{%s} was dropped by the HTML parser; it cannot appear at this position", e.src)
		}
	}
	for i, n := range t.seen {
		if n != t.m.uses[i] {
			return errorf("RE100", -1, "<%s> was dropped by the HTML parser; it cannot appear at this position", t.m.tags[i])
		}
	}
	return nil
}

// skip consumes a subtree that produces no code, such as children
// replaced by a children attribute.
func (t *template) skip(n *html.Node) {
	if n.Type != html.ElementNode {
		return
	}
	if n.Data == blockTag {
		t.block(n)
		return
	}
	t.tag(n)
	for _, a := range n.Attr {
		t.value(a.Val)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		t.skip(c)
	}
}

func (t *template) root(nodes []*html.Node) (string, error) {
	var roots []*html.Node
	for _, n := range nodes {
		if content(n) {
			roots = append(roots, n)
		}
	}
	switch len(roots) {
	case 0:
		return "", errorf("RE104", -1, "template has no content")
	case 1:
		return t.node(roots[0])
	}
	return "", errorf("RE101", t.offsetOf(roots[1]), "template has %d top-level nodes", len(roots))
}

// content reports whether n produces a node: comments and whitespace-only
// text do not.
func content(n *html.Node) bool {
	switch n.Type {
	case html.ElementNode:
		return true
	case html.TextNode:
		return normalizeText(n.Data) != ""
	}
	return false
}

func (t *template) node(n *html.Node) (string, error) {
	if n.Type == html.TextNode {
		return fmt.Sprintf("%s.Text[%s](%s)", t.vdom, t.msg, strconv.Quote(normalizeText(n.Data))), nil
	}
	if n.Data == blockTag {
		e, ok := t.block(n)
		if !ok {
			return "", errorf("RE100", -1, "stray <%s> element", blockTag)
		}
		return fmt.Sprintf("%s.Into[%s](%s)", t.vdom, t.msg, e.src), nil
	}
	return t.element(n)
}

func (t *template) element(n *html.Node) (string, error) {
	tag, component := t.tag(n)

	key := "nil"
	var (
		model    string
		children string
		attrs    []string
	)
	for _, a := range n.Attr {
		name := a.Key
		if a.Namespace != "" {
			name = a.Namespace + ":" + a.Key
		}
		v := t.value(a.Val)

		switch name {
		case "key":
			if v.kind == valueMarker {
				return "", errorf("RE102", -1, "<%s>: key needs a value", tag)
			}
			key = fmt.Sprintf("%s.Some(%s)", t.vdom, v.goExpr())
		case "model":
			if v.kind == valueMarker {
				return "", errorf("RE102", -1, "<%s>: model needs a value", tag)
			}
			model = v.goExpr()
		case "children":
			if v.kind != valueExpr {
				return "", errorf("RE102", -1, "<%s>: children must be an {expression}", tag)
			}
			children = v.text
		default:
			attr, err := t.attribute(tag, name, v)
			if err != nil {
				return "", err
			}
			attrs = append(attrs, attr)
		}
	}

	if children != "" {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			t.skip(c)
		}
	} else {
		var kids []string
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !content(c) {
				continue
			}
			kid, err := t.node(c)
			if err != nil {
				return "", err
			}
			kids = append(kids, kid)
		}
		children = list(fmt.Sprintf("*%s.Node[%s]", t.vdom, t.msg), kids, component)
	}
	attrList := list(fmt.Sprintf("%s.Attribute[%s]", t.vdom, t.msg), attrs, component)

	switch {
	case component:
		args := []string{key, attrList, children}
		if model != "" {
			args = append([]string{model}, args...)
		}
		return tag + "(" + strings.Join(args, ", ") + ")", nil
	case model != "":
		return fmt.Sprintf("%s.Component[%s](%q, %s, %s, %s, %s)", t.vdom, t.msg, tag, model, key, attrList, children), nil
	}
	if ctor, ok := vdom.ConstructorFor(tag); ok {
		return fmt.Sprintf("%s.%s[%s](%s, %s, %s)", t.vdom, ctor, t.msg, key, attrList, children), nil
	}
	return fmt.Sprintf("%s.El[%s](%q, %s, %s, %s)", t.vdom, t.msg, tag, key, attrList, children), nil
}

func (t *template) attribute(tag, name string, v value) (string, error) {
	if kind, ok := vdom.EventKind(name); ok {
		if v.kind == valueMarker {
			return "", errorf("RE102", -1, "<%s>: %s needs a message", tag, name)
		}
		return fmt.Sprintf("%s.%s(%s.Share[%s](%s))", t.vdom, eventConstructor(kind), t.vdom, t.msg, v.goExpr()), nil
	}
	switch v.kind {
	case valueMarker:
		return "", errorf("RE102", -1, "<%s>: attribute %s needs a value; write %s=\"\" or %s={expr}", tag, name, name, name)
	case valueExpr:
		return fmt.Sprintf("%s.Custom[%s](%q, %s.Str(%s))", t.vdom, t.msg, name, t.vdom, v.text), nil
	}
	return fmt.Sprintf("%s.Custom[%s](%q, %s)", t.vdom, t.msg, name, strconv.Quote(v.text)), nil
}

func eventConstructor(kind vdom.AttrKind) string {
	switch kind {
	case vdom.AttrMount:
		return "OnMount"
	case vdom.AttrUnmount:
		return "OnUnmount"
	}
	return "OnClick"
}

// tag returns the tag name as written in the source and whether it names
// a component function.
func (t *template) tag(n *html.Node) (string, bool) {
	if i, ok := t.index(n.Data, tagAliasPrefix); ok && i < len(t.m.tags) {
		t.seen[i]++
		return t.m.tags[i], true
	}
	return n.Data, false
}

func (t *template) block(n *html.Node) (expr, bool) {
	for _, a := range n.Attr {
		if a.Key != "data-ref" {
			continue
		}
		i, err := strconv.Atoi(a.Val)
		if err != nil || i < 0 || i >= len(t.m.exprs) {
			return expr{}, false
		}
		t.used[i] = true
		return t.m.exprs[i], true
	}
	return expr{}, false
}

func (t *template) index(s, prefix string) (int, bool) {
	if !strings.HasPrefix(s, prefix) {
		return 0, false
	}
	i, err := strconv.Atoi(s[len(prefix):])
	return i, err == nil && i >= 0
}

// offsetOf returns the template offset of n when it is known.
func (t *template) offsetOf(n *html.Node) int {
	if n.Type == html.ElementNode && n.Data == blockTag {
		if e, ok := t.block(n); ok {
			return e.offset
		}
	}
	return -1
}

type valueKind uint8

const (
	valueLiteral valueKind = iota
	valueExpr
	valueMarker
)

type value struct {
	kind valueKind
	text string // literal text or expression source
}

func (t *template) value(raw string) value {
	if raw == markerSentinel {
		return value{kind: valueMarker}
	}
	if i, ok := t.index(raw, exprSentinel); ok && i < len(t.m.exprs) {
		t.used[i] = true
		return value{kind: valueExpr, text: t.m.exprs[i].src}
	}
	return value{kind: valueLiteral, text: raw}
}

// goExpr returns v as a Go expression: expressions verbatim, literals
// quoted.
func (v value) goExpr() string {
	if v.kind == valueExpr {
		return v.text
	}
	return strconv.Quote(v.text)
}

// list renders a composite literal of typ. Empty lists are nil unless typed
// is set; component calls need the element type to infer Msg.
func list(typ string, items []string, typed bool) string {
	if len(items) == 0 {
		if typed {
			return "[]" + typ + "{}"
		}
		return "nil"
	}
	var b strings.Builder
	b.WriteString("[]" + typ + "{\n")
	for _, item := range items {
		b.WriteString(item + ",\n")
	}
	b.WriteString("}")
	return b.String()
}

// normalizeText drops whitespace-only text and trims leading or trailing
// whitespace that spans a line break.
func normalizeText(s string) string {
	if !hasText(s) {
		return ""
	}
	if trimmed := strings.TrimLeftFunc(s, unicode.IsSpace); strings.Contains(s[:len(s)-len(trimmed)], "\n") {
		s = trimmed
	}
	if trimmed := strings.TrimRightFunc(s, unicode.IsSpace); strings.Contains(s[len(trimmed):], "\n") {
		s = trimmed
	}
	return s
}
