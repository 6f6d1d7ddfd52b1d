package memdom

import "strings"

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// OuterHTML serializes the element and its subtree. Attributes are written
// in insertion order; click handlers are not serialized.
func (e *Element) OuterHTML() string {
	var b strings.Builder
	e.writeHTML(&b)
	return b.String()
}

// InnerHTML serializes the element's children.
func (e *Element) InnerHTML() string {
	var b strings.Builder
	for _, c := range e.children {
		c.writeHTML(&b)
	}
	return b.String()
}

func (e *Element) writeHTML(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(e.tag)
	for _, a := range e.attrs {
		b.WriteByte(' ')
		b.WriteString(a.name)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(a.value))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	if voidElements[e.tag] && len(e.children) == 0 {
		return
	}
	for _, c := range e.children {
		c.writeHTML(b)
	}
	b.WriteString("</")
	b.WriteString(e.tag)
	b.WriteByte('>')
}

func (t *Text) writeHTML(b *strings.Builder) {
	b.WriteString(escapeHTML(t.data))
}

// escapeHTML escapes text for inclusion in HTML content.
func escapeHTML(s string) string {
	if !strings.ContainsAny(s, "&<>\"'") {
		return s
	}
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// escapeAttr escapes attribute values. Whitespace control characters are
// escaped too so serialized output stays on one line.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
