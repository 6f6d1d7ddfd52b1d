package vdom

import "testing"

type testMsg struct {
	Name string
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{Kind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNodeIsInteractive(t *testing.T) {
	tests := []struct {
		name string
		node *Node[testMsg]
		want bool
	}{
		{
			name: "nil node",
			node: nil,
			want: false,
		},
		{
			name: "text node",
			node: Text[testMsg]("hello"),
			want: false,
		},
		{
			name: "element without handlers",
			node: Div(nil, []Attribute[testMsg]{Class[testMsg]("test")}, nil),
			want: false,
		},
		{
			name: "element with onclick",
			node: Button(nil, []Attribute[testMsg]{OnClick(Share(testMsg{"click"}))}, nil),
			want: true,
		},
		{
			name: "element with onunmount",
			node: Div(nil, []Attribute[testMsg]{OnUnmount(Share(testMsg{"gone"}))}, nil),
			want: true,
		},
		{
			name: "element with marker only",
			node: Input(nil, []Attribute[testMsg]{Marker[testMsg]("disabled")}, nil),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.IsInteractive(); got != tt.want {
				t.Errorf("IsInteractive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNodeKeyString(t *testing.T) {
	n := Div[testMsg](Some("row-1"), nil, nil)
	key, ok := n.KeyString()
	if !ok || key != "row-1" {
		t.Errorf("KeyString() = %q, %v, want row-1, true", key, ok)
	}

	n = Div[testMsg](nil, nil, nil)
	if _, ok := n.KeyString(); ok {
		t.Error("KeyString() reported a key for an unkeyed node")
	}

	var nilNode *Node[testMsg]
	if _, ok := nilNode.KeyString(); ok {
		t.Error("KeyString() on nil node reported a key")
	}
}
