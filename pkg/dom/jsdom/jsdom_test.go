//go:build js && wasm

package jsdom

import (
	"syscall/js"
	"testing"

	"github.com/rokoui/roko/pkg/dom"
)

// newDocument returns a fresh document wrapper, skipping outside a
// browser (node has no document).
func newDocument(t *testing.T) (*Document, dom.Element) {
	t.Helper()
	if js.Global().Get("document").IsUndefined() {
		t.Skip("no browser document")
	}
	d := Global()
	t.Cleanup(d.ReleaseAll)
	root, err := d.CreateElement("div")
	if err != nil {
		t.Fatal(err)
	}
	d.v.Get("body").Call("appendChild", root.(*Element).Value())
	t.Cleanup(func() { root.(*Element).Value().Call("remove") })
	return d, root
}

// clickable builds <ul><li onclick/><li onclick/></ul> under root.
func clickable(t *testing.T, d *Document, root dom.Element) dom.Element {
	t.Helper()
	ul, err := d.CreateElement("ul")
	if err != nil {
		t.Fatal(err)
	}
	for range 2 {
		li, err := d.CreateElement("li")
		if err != nil {
			t.Fatal(err)
		}
		if err := li.SetOnClick(func() {}); err != nil {
			t.Fatal(err)
		}
		if err := ul.AppendChild(li); err != nil {
			t.Fatal(err)
		}
	}
	if err := ul.SetOnClick(func() {}); err != nil {
		t.Fatal(err)
	}
	if err := root.AppendChild(ul); err != nil {
		t.Fatal(err)
	}
	return ul
}

func TestRemoveReleasesClickCallbacks(t *testing.T) {
	d, root := newDocument(t)
	ul := clickable(t, d, root)
	if got := d.Callbacks(); got != 3 {
		t.Fatalf("Callbacks() = %d, want 3", got)
	}

	if err := ul.Remove(); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if got := d.Callbacks(); got != 0 {
		t.Errorf("Callbacks() after Remove = %d, want 0", got)
	}
}

func TestReplaceWithReleasesClickCallbacks(t *testing.T) {
	d, root := newDocument(t)
	ul := clickable(t, d, root)
	keep := clickable(t, d, root)

	p, err := d.CreateElement("p")
	if err != nil {
		t.Fatal(err)
	}
	if err := ul.ReplaceWith(p); err != nil {
		t.Fatalf("ReplaceWith() error = %v", err)
	}
	if got := d.Callbacks(); got != 3 {
		t.Errorf("Callbacks() after ReplaceWith = %d, want the 3 of the kept list", got)
	}
	if keep.(*Element).Value().Get(clickProp).Type() != js.TypeNumber {
		t.Error("sibling lost its click callback")
	}
}

func TestClearOnClickReleases(t *testing.T) {
	d, root := newDocument(t)
	if err := root.SetOnClick(func() {}); err != nil {
		t.Fatal(err)
	}
	if err := root.SetOnClick(func() {}); err != nil {
		t.Fatal(err)
	}
	if got := d.Callbacks(); got != 1 {
		t.Errorf("Callbacks() after rebinding = %d, want 1", got)
	}
	if err := root.ClearOnClick(); err != nil {
		t.Fatal(err)
	}
	if got := d.Callbacks(); got != 0 {
		t.Errorf("Callbacks() after ClearOnClick = %d, want 0", got)
	}
}
