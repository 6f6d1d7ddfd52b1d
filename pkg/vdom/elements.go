package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates an element node with the given tag.
//
// This is the generic form every element constructor shares:
// (key, attributes, children).
func El[Msg any](tag string, key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return &Node[Msg]{
		Kind:     KindElement,
		Tag:      tag,
		Key:      key,
		Attrs:    attrs,
		Children: children,
	}
}

// Component creates an element node that carries component-local model data
// alongside its attributes.
func Component[Msg any](tag string, model any, key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	n := El(tag, key, attrs, children)
	n.Model = model
	return n
}

// constructors maps tag names to the exported constructor in this package.
// roko gen emits calls to these for lowercase template tags.
var constructors = map[string]string{
	"header":     "Header",
	"footer":     "Footer",
	"main":       "Main",
	"nav":        "Nav",
	"section":    "Section",
	"article":    "Article",
	"aside":      "Aside",
	"h1":         "H1",
	"h2":         "H2",
	"h3":         "H3",
	"h4":         "H4",
	"h5":         "H5",
	"h6":         "H6",
	"div":        "Div",
	"p":          "P",
	"span":       "Span",
	"pre":        "Pre",
	"blockquote": "Blockquote",
	"ul":         "Ul",
	"ol":         "Ol",
	"li":         "Li",
	"dl":         "Dl",
	"dt":         "Dt",
	"dd":         "Dd",
	"hr":         "Hr",
	"figure":     "Figure",
	"figcaption": "Figcaption",
	"a":          "A",
	"strong":     "Strong",
	"em":         "Em",
	"b":          "B",
	"i":          "I",
	"small":      "Small",
	"code":       "Code",
	"br":         "Br",
	"form":       "Form",
	"input":      "Input",
	"textarea":   "Textarea",
	"select":     "Select",
	"option":     "Option",
	"button":     "Button",
	"label":      "Label",
	"fieldset":   "Fieldset",
	"legend":     "Legend",
	"progress":   "Progress",
	"table":      "Table",
	"thead":      "Thead",
	"tbody":      "Tbody",
	"tfoot":      "Tfoot",
	"tr":         "Tr",
	"th":         "Th",
	"td":         "Td",
	"caption":    "Caption",
	"img":        "Img",
	"picture":    "Picture",
	"source":     "Source",
	"video":      "Video",
	"audio":      "Audio",
	"canvas":     "Canvas",
	"svg":        "Svg",
	"details":    "Details",
	"summary":    "Summary",
	"dialog":     "Dialog",
	"menu":       "Menu",
}

// ConstructorFor returns the constructor function name for tag, if this
// package provides one.
func ConstructorFor(tag string) (string, bool) {
	name, ok := constructors[tag]
	return name, ok
}

// Content sectioning elements

func Header[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("header", key, attrs, children)
}

func Footer[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("footer", key, attrs, children)
}

func Main[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("main", key, attrs, children)
}

func Nav[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("nav", key, attrs, children)
}

func Section[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("section", key, attrs, children)
}

func Article[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("article", key, attrs, children)
}

func Aside[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("aside", key, attrs, children)
}

func H1[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("h1", key, attrs, children)
}

func H2[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("h2", key, attrs, children)
}

func H3[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("h3", key, attrs, children)
}

func H4[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("h4", key, attrs, children)
}

func H5[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("h5", key, attrs, children)
}

func H6[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("h6", key, attrs, children)
}

// Text content elements

func Div[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("div", key, attrs, children)
}

func P[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("p", key, attrs, children)
}

func Span[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("span", key, attrs, children)
}

func Pre[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("pre", key, attrs, children)
}

func Blockquote[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("blockquote", key, attrs, children)
}

func Ul[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("ul", key, attrs, children)
}

func Ol[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("ol", key, attrs, children)
}

func Li[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("li", key, attrs, children)
}

func Dl[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("dl", key, attrs, children)
}

func Dt[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("dt", key, attrs, children)
}

func Dd[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("dd", key, attrs, children)
}

func Hr[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("hr", key, attrs, children)
}

func Figure[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("figure", key, attrs, children)
}

func Figcaption[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("figcaption", key, attrs, children)
}

// Inline text semantics

func A[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("a", key, attrs, children)
}

func Strong[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("strong", key, attrs, children)
}

func Em[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("em", key, attrs, children)
}

func B[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("b", key, attrs, children)
}

func I[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("i", key, attrs, children)
}

func Small[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("small", key, attrs, children)
}

func Code[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("code", key, attrs, children)
}

func Br[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("br", key, attrs, children)
}

// Form elements

func Form[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("form", key, attrs, children)
}

func Input[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("input", key, attrs, children)
}

func Textarea[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("textarea", key, attrs, children)
}

func Select[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("select", key, attrs, children)
}

func Option[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("option", key, attrs, children)
}

func Button[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("button", key, attrs, children)
}

func Label[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("label", key, attrs, children)
}

func Fieldset[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("fieldset", key, attrs, children)
}

func Legend[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("legend", key, attrs, children)
}

func Progress[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("progress", key, attrs, children)
}

// Table elements

func Table[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("table", key, attrs, children)
}

func Thead[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("thead", key, attrs, children)
}

func Tbody[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("tbody", key, attrs, children)
}

func Tfoot[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("tfoot", key, attrs, children)
}

func Tr[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("tr", key, attrs, children)
}

func Th[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("th", key, attrs, children)
}

func Td[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("td", key, attrs, children)
}

func Caption[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("caption", key, attrs, children)
}

// Media elements

func Img[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("img", key, attrs, children)
}

func Picture[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("picture", key, attrs, children)
}

func Source[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("source", key, attrs, children)
}

func Video[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("video", key, attrs, children)
}

func Audio[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("audio", key, attrs, children)
}

func Canvas[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("canvas", key, attrs, children)
}

func Svg[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("svg", key, attrs, children)
}

// Interactive elements

func Details[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("details", key, attrs, children)
}

func Summary[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("summary", key, attrs, children)
}

func Dialog[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("dialog", key, attrs, children)
}

func Menu[Msg any](key *string, attrs []Attribute[Msg], children []*Node[Msg]) *Node[Msg] {
	return El("menu", key, attrs, children)
}
