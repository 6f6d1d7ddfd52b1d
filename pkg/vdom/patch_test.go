package vdom

import "testing"

func TestPatchOpString(t *testing.T) {
	tests := []struct {
		op   PatchOp
		want string
	}{
		{PatchNothing, "Nothing"},
		{PatchAdd, "Add"},
		{PatchReplace, "Replace"},
		{PatchUpdate, "Update"},
		{PatchRemove, "Remove"},
		{PatchOp(200), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.op.String(); got != tt.want {
				t.Errorf("String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAttrOpString(t *testing.T) {
	if AttrAdd.String() != "Add" || AttrRemove.String() != "Remove" || AttrOp(9).String() != "Unknown" {
		t.Error("unexpected AttrOp strings")
	}
}

func TestPatchZeroValueIsNothing(t *testing.T) {
	var p Patch[testMsg]
	if p.Op != PatchNothing {
		t.Errorf("zero Patch Op = %v, want Nothing", p.Op)
	}
	if Nothing[testMsg]().Op != PatchNothing {
		t.Error("Nothing() should build a Nothing patch")
	}
}

func TestPatchConstructors(t *testing.T) {
	n := Div[testMsg](nil, nil, nil)

	if p := Add(n); p.Op != PatchAdd || p.Node != n {
		t.Errorf("Add() = %+v", p)
	}
	if p := Replace(n); p.Op != PatchReplace || p.Node != n {
		t.Errorf("Replace() = %+v", p)
	}
	if p := Remove[testMsg](); p.Op != PatchRemove {
		t.Errorf("Remove() = %+v", p)
	}

	attr := AddAttr(Custom[testMsg]("id", "x"))
	p := Update([]Patch[testMsg]{Nothing[testMsg]()}, []AttrPatch[testMsg]{attr})
	if p.Op != PatchUpdate || len(p.Children) != 1 || len(p.Attrs) != 1 {
		t.Errorf("Update() = %+v", p)
	}
	if p.Attrs[0].Op != AttrAdd {
		t.Errorf("AddAttr Op = %v", p.Attrs[0].Op)
	}
	if r := RemoveAttr(Custom[testMsg]("id", "x")); r.Op != AttrRemove || r.Attr.Name != "id" {
		t.Errorf("RemoveAttr() = %+v", r)
	}
}

func TestPatchCount(t *testing.T) {
	p := Update(
		[]Patch[testMsg]{
			Nothing[testMsg](),
			Remove[testMsg](),
			Update(
				[]Patch[testMsg]{Add(Text[testMsg]("x"))},
				[]AttrPatch[testMsg]{RemoveAttr(Custom[testMsg]("a", "b"))},
			),
		},
		[]AttrPatch[testMsg]{AddAttr(Custom[testMsg]("id", "x"))},
	)

	if got := p.Count(); got != 4 {
		t.Errorf("Count() = %d, want 4", got)
	}
	if got := Nothing[testMsg]().Count(); got != 0 {
		t.Errorf("Nothing Count() = %d, want 0", got)
	}
}
