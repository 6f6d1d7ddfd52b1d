package vdom

import "testing"

func TestIsVoidElement(t *testing.T) {
	for _, tag := range []string{"br", "hr", "img", "input", "meta", "link"} {
		if !IsVoidElement(tag) {
			t.Errorf("IsVoidElement(%q) = false, want true", tag)
		}
	}
	for _, tag := range []string{"div", "span", "button"} {
		if IsVoidElement(tag) {
			t.Errorf("IsVoidElement(%q) = true, want false", tag)
		}
	}
}

func TestElementConstructors(t *testing.T) {
	attrs := []Attribute[testMsg]{Class[testMsg]("x")}
	children := []*Node[testMsg]{Text[testMsg]("hi")}

	tests := []struct {
		name    string
		node    *Node[testMsg]
		wantTag string
	}{
		{"div", Div(Some("k"), attrs, children), "div"},
		{"span", Span(Some("k"), attrs, children), "span"},
		{"button", Button(Some("k"), attrs, children), "button"},
		{"li", Li(Some("k"), attrs, children), "li"},
		{"custom", El("my-widget", Some("k"), attrs, children), "my-widget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.node.Kind != KindElement {
				t.Errorf("Kind = %v, want KindElement", tt.node.Kind)
			}
			if tt.node.Tag != tt.wantTag {
				t.Errorf("Tag = %q, want %q", tt.node.Tag, tt.wantTag)
			}
			if key, ok := tt.node.KeyString(); !ok || key != "k" {
				t.Errorf("Key = %q, %v, want k", key, ok)
			}
			if len(tt.node.Attrs) != 1 || len(tt.node.Children) != 1 {
				t.Errorf("attrs/children = %d/%d, want 1/1", len(tt.node.Attrs), len(tt.node.Children))
			}
		})
	}
}

func TestComponentCarriesModel(t *testing.T) {
	type cardModel struct{ Title string }

	n := Component[testMsg]("card", cardModel{"Hello"}, nil, nil, nil)
	m, ok := n.Model.(cardModel)
	if !ok || m.Title != "Hello" {
		t.Errorf("Model = %#v, want cardModel{Hello}", n.Model)
	}
	if n.Key != nil {
		t.Error("Key should be absent")
	}
}

func TestConstructorFor(t *testing.T) {
	tests := []struct {
		tag    string
		want   string
		wantOK bool
	}{
		{"div", "Div", true},
		{"h1", "H1", true},
		{"button", "Button", true},
		{"tbody", "Tbody", true},
		{"my-widget", "", false},
		{"blink", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, ok := ConstructorFor(tt.tag)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ConstructorFor(%q) = %q, %v, want %q, %v", tt.tag, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
