package compiler

import (
	"fmt"
	"go/parser"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/rokoui/roko/pkg/vdom"
)

// Placeholders written into the markup handed to the HTML parser. They sit
// in the Unicode private use area so they cannot collide with real markup.
const (
	exprSentinel   = "\ue000" // attribute value is exprs[N]
	markerSentinel = "\ue001" // attribute has no value
	blockTag       = "roko-block"
	tagAliasPrefix = "roko-tag-"
)

// expr is a Go expression lifted out of a template.
type expr struct {
	src    string
	offset int // byte offset of src in the template
}

// markup is a template rewritten into plain HTML.
//
// Every {expr} block is replaced: attribute values by exprSentinel+N,
// children by <roko-block data-ref="N">. Component tags, whose case the
// HTML parser would fold, are renamed roko-tag-N.
type markup struct {
	html  string
	exprs []expr
	tags  []string
	uses  []int // occurrences of each tags entry

	// elems records every element and block in document order as written,
	// so the parsed tree can be checked against it.
	elems    []written
	rootText int // text runs at the top level
}

// written is an element as it appears in the template.
type written struct {
	tag    string // tag as written into html
	name   string // tag as written in the template, {expr} for blocks
	parent int    // index into elems, -1 at the top level
	text   int    // text runs directly inside; -1 when not checked
	offset int
}

// syntaxError is a template error positioned relative to the template
// text. An offset of -1 means the template as a whole.
type syntaxError struct {
	code   string
	offset int
	msg    string
}

func (e *syntaxError) Error() string {
	return e.msg
}

func errorf(code string, offset int, format string, args ...any) *syntaxError {
	return &syntaxError{code: code, offset: offset, msg: fmt.Sprintf(format, args...)}
}

type openTag struct {
	name   string
	offset int
	id     int // index into markup.elems
}

type lexer struct {
	src     string
	pos     int
	out     strings.Builder
	text    strings.Builder // current text run
	m       *markup
	aliases map[string]string
	open    []openTag
}

// preprocess lexes a template into markup ready for html.ParseFragment.
// Tags must be balanced; void elements may omit their end tag.
func preprocess(src string) (*markup, error) {
	l := &lexer{src: src, m: &markup{}, aliases: make(map[string]string)}
	if err := l.run(); err != nil {
		return nil, err
	}
	l.m.html = l.out.String()
	return l.m, nil
}

func (l *lexer) run() error {
	for l.pos < len(l.src) {
		rest := l.src[l.pos:]
		switch {
		case rest[0] == '{':
			l.flushText()
			if err := l.block(); err != nil {
				return err
			}
		case rest[0] == '}':
			return errorf("RE100", l.pos, "unexpected } in text")
		case strings.HasPrefix(rest, "<!--"):
			end := strings.Index(rest[4:], "-->")
			if end < 0 {
				return errorf("RE100", l.pos, "unclosed comment")
			}
			l.pos += 4 + end + 3
		case strings.HasPrefix(rest, "</"):
			l.flushText()
			if err := l.closeTag(); err != nil {
				return err
			}
		case rest[0] == '<':
			l.flushText()
			if err := l.openTag(); err != nil {
				return err
			}
		default:
			l.out.WriteByte(rest[0])
			l.text.WriteByte(rest[0])
			l.pos++
		}
	}
	l.flushText()
	if n := len(l.open); n > 0 {
		top := l.open[n-1]
		return errorf("RE100", top.offset, "<%s> is never closed", top.name)
	}
	return nil
}

// flushText ends the current text run and counts it against the element
// it was written in. Runs the HTML parser would drop as whitespace do not
// count.
func (l *lexer) flushText() {
	run := l.text.String()
	l.text.Reset()
	if !hasText(html.UnescapeString(run)) {
		return
	}
	p := l.parent()
	switch {
	case p < 0:
		l.m.rootText++
	case l.m.elems[p].text >= 0:
		l.m.elems[p].text++
	}
}

// parent returns the index of the innermost open element, or -1.
func (l *lexer) parent() int {
	if n := len(l.open); n > 0 {
		return l.open[n-1].id
	}
	return -1
}

func (l *lexer) record(tag, name string, offset int) int {
	l.m.elems = append(l.m.elems, written{tag: tag, name: name, parent: l.parent(), offset: offset})
	return len(l.m.elems) - 1
}

func (l *lexer) block() error {
	start := l.pos
	e, err := l.expression()
	if err != nil {
		return err
	}
	l.record(blockTag, "{"+e.src+"}", start)
	fmt.Fprintf(&l.out, `<%s data-ref="%d"></%s>`, blockTag, l.add(e), blockTag)
	return nil
}

func (l *lexer) add(e expr) int {
	l.m.exprs = append(l.m.exprs, e)
	return len(l.m.exprs) - 1
}

// expression consumes a {...} block starting at l.pos. Braces inside
// string, rune and raw literals and block comments do not count.
func (l *lexer) expression() (expr, error) {
	start := l.pos
	depth := 0
	for i := start; i < len(l.src); i++ {
		switch c := l.src[i]; c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				l.pos = i + 1
				e := expr{src: l.src[start+1 : i], offset: start + 1}
				return e, checkExpr(e)
			}
		case '"', '\'', '`':
			end := skipQuoted(l.src, i)
			if end < 0 {
				return expr{}, errorf("RE100", i, "unterminated literal in expression")
			}
			i = end
		case '/':
			if i+1 < len(l.src) && l.src[i+1] == '*' {
				end := strings.Index(l.src[i+2:], "*/")
				if end < 0 {
					return expr{}, errorf("RE100", i, "unterminated comment in expression")
				}
				i += 2 + end + 1
			}
		}
	}
	return expr{}, errorf("RE100", start, "unclosed {")
}

// skipQuoted returns the index of the quote closing the literal opened at
// s[i], or -1.
func skipQuoted(s string, i int) int {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			if q != '`' {
				j++
			}
		case '\n':
			if q != '`' {
				return -1
			}
		case q:
			return j
		}
	}
	return -1
}

// checkExpr reports whether e is a single Go expression.
func checkExpr(e expr) error {
	if strings.TrimSpace(e.src) == "" {
		return errorf("RE102", e.offset, "empty expression {}")
	}
	_, err := parser.ParseExpr(e.src)
	if err == nil {
		return nil
	}
	offset := e.offset
	msg := err.Error()
	if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
		offset += list[0].Pos.Offset
		msg = list[0].Msg
	}
	return errorf("RE102", offset, "%s in {%s}", msg, e.src)
}

func (l *lexer) openTag() error {
	start := l.pos
	l.pos++
	name := l.name()
	if name == "" {
		return errorf("RE100", start, "expected a tag name after <")
	}
	tag, err := l.tagName(name, start)
	if err != nil {
		return err
	}
	id := l.record(tag, name, start)
	if isRawText(name) {
		l.m.elems[id].text = -1
	}

	l.out.WriteString("<" + tag)
	for {
		l.skipSpace()
		if l.pos >= len(l.src) {
			return errorf("RE100", start, "<%s is not terminated", name)
		}
		rest := l.src[l.pos:]
		switch {
		case rest[0] == '>':
			l.pos++
			l.out.WriteByte('>')
			if !isVoid(name) {
				l.open = append(l.open, openTag{name: name, offset: start, id: id})
			}
			if isRawText(name) {
				return l.rawText(name)
			}
			return nil
		case strings.HasPrefix(rest, "/>"):
			l.pos += 2
			l.out.WriteByte('>')
			if !isVoid(name) {
				fmt.Fprintf(&l.out, "</%s>", tag)
			}
			return nil
		}
		if err := l.attribute(); err != nil {
			return err
		}
	}
}

// rawText copies the body of a raw text or RCDATA element up to its end
// tag. The HTML parser never builds elements inside them, so blocks are
// rejected. Braces in <script> and <style> are kept as written.
func (l *lexer) rawText(name string) error {
	end := strings.Index(l.src[l.pos:], "</"+name)
	if end < 0 {
		end = len(l.src) - l.pos
	}
	body := l.src[l.pos : l.pos+end]
	if name != "script" && name != "style" {
		if i := strings.IndexAny(body, "{}"); i >= 0 {
			return errorf("RE100", l.pos+i, "{expressions} are not supported inside <%s>; use a value attribute", name)
		}
	}
	l.out.WriteString(body)
	l.pos += end
	return nil
}

func (l *lexer) closeTag() error {
	start := l.pos
	l.pos += 2
	name := l.name()
	l.skipSpace()
	if name == "" || l.pos >= len(l.src) || l.src[l.pos] != '>' {
		return errorf("RE100", start, "malformed end tag")
	}
	l.pos++

	n := len(l.open)
	if n == 0 {
		return errorf("RE100", start, "unexpected </%s>", name)
	}
	if top := l.open[n-1]; top.name != name {
		return errorf("RE100", start, "</%s> does not match <%s>", name, top.name)
	}
	l.open = l.open[:n-1]

	tag := name
	if alias, ok := l.aliases[name]; ok {
		tag = alias
	}
	fmt.Fprintf(&l.out, "</%s>", tag)
	return nil
}

func (l *lexer) attribute() error {
	start := l.pos
	if l.src[l.pos] == '{' {
		return errorf("RE100", start, "attribute spreads are not supported")
	}
	name := l.attrName()
	if name == "" {
		return errorf("RE100", start, "unexpected %q in tag", l.src[l.pos])
	}

	l.skipSpace()
	if l.pos >= len(l.src) || l.src[l.pos] != '=' {
		fmt.Fprintf(&l.out, ` %s="%s"`, name, markerSentinel)
		return nil
	}
	l.pos++
	l.skipSpace()
	if l.pos >= len(l.src) {
		return errorf("RE100", start, "missing value for attribute %s", name)
	}

	switch c := l.src[l.pos]; c {
	case '{':
		e, err := l.expression()
		if err != nil {
			return err
		}
		fmt.Fprintf(&l.out, ` %s="%s%d"`, name, exprSentinel, l.add(e))
	case '"', '\'':
		end := strings.IndexByte(l.src[l.pos+1:], c)
		if end < 0 {
			return errorf("RE100", l.pos, "unterminated value for attribute %s", name)
		}
		fmt.Fprintf(&l.out, ` %s=%s`, name, l.src[l.pos:l.pos+end+2])
		l.pos += end + 2
	default:
		from := l.pos
		for l.pos < len(l.src) && !isSpace(l.src[l.pos]) && l.src[l.pos] != '>' &&
			!strings.HasPrefix(l.src[l.pos:], "/>") {
			l.pos++
		}
		fmt.Fprintf(&l.out, ` %s="%s"`, name, strings.ReplaceAll(l.src[from:l.pos], `"`, "&quot;"))
	}
	return nil
}

// tagName validates a tag and returns the name to write into the markup.
func (l *lexer) tagName(name string, offset int) (string, error) {
	if !isComponentName(name) {
		if !validElementName(name) || strings.HasPrefix(name, "roko-") {
			return "", errorf("RE105", offset, "invalid tag name <%s>", name)
		}
		return name, nil
	}
	for _, part := range strings.Split(name, ".") {
		if !token.IsIdentifier(part) {
			return "", errorf("RE105", offset, "invalid component name <%s>", name)
		}
	}
	if strings.Count(name, ".") > 1 {
		return "", errorf("RE105", offset, "invalid component name <%s>", name)
	}
	alias, ok := l.aliases[name]
	if !ok {
		alias = fmt.Sprintf("%s%d", tagAliasPrefix, len(l.m.tags))
		l.m.tags = append(l.m.tags, name)
		l.m.uses = append(l.m.uses, 0)
		l.aliases[name] = alias
	}
	l.m.uses[aliasIndex(alias)]++
	return alias, nil
}

func (l *lexer) name() string {
	start := l.pos
	for l.pos < len(l.src) && isNameByte(l.src[l.pos]) {
		l.pos++
	}
	return l.src[start:l.pos]
}

func (l *lexer) attrName() string {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if isSpace(c) || strings.IndexByte(`=>/{}<"'`, c) >= 0 {
			break
		}
		l.pos++
	}
	return l.src[start:l.pos]
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
}

// isComponentName reports whether a tag names a Go function: capitalized
// (Card) or package-qualified (ui.Card).
func isComponentName(name string) bool {
	return (name[0] >= 'A' && name[0] <= 'Z') || strings.Contains(name, ".")
}

func validElementName(name string) bool {
	if name[0] < 'a' || name[0] > 'z' {
		return false
	}
	for i := 1; i < len(name); i++ {
		c := name[i]
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') && c != '-' {
			return false
		}
	}
	return true
}

func aliasIndex(alias string) int {
	i, _ := strconv.Atoi(strings.TrimPrefix(alias, tagAliasPrefix))
	return i
}

// isRawText reports whether the HTML parser treats the body of name as
// text: raw text elements and the RCDATA elements textarea and title.
func isRawText(name string) bool {
	switch name {
	case "script", "style", "textarea", "title", "xmp", "iframe", "noembed", "noframes", "noscript":
		return true
	}
	return false
}

func isVoid(name string) bool {
	return !isComponentName(name) && vdom.IsVoidElement(name)
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c == '.' || c == ':'
}

// hasText reports whether s has anything besides the whitespace the HTML
// parser drops between elements.
func hasText(s string) bool {
	return strings.TrimLeft(s, " \t\n\r\f") != ""
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}
