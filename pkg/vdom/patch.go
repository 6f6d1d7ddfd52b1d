package vdom

// PatchOp is the type of patch operation at one tree position.
type PatchOp uint8

const (
	PatchNothing PatchOp = iota // No change
	PatchAdd                    // Position was empty, materialize Node
	PatchReplace                // Incompatible node, substitute Node
	PatchUpdate                 // Compatible node, recurse into Children and apply Attrs
	PatchRemove                 // Delete the node
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchNothing:
		return "Nothing"
	case PatchAdd:
		return "Add"
	case PatchReplace:
		return "Replace"
	case PatchUpdate:
		return "Update"
	case PatchRemove:
		return "Remove"
	default:
		return "Unknown"
	}
}

// Patch describes the transform from the rendered node to the desired one
// at a single position. The zero value is a Nothing patch.
//
// Children correspond index-for-index to the live child nodes of the
// patched element at the time the patch is applied.
type Patch[Msg any] struct {
	Op       PatchOp
	Node     *Node[Msg]       // For Add and Replace
	Children []Patch[Msg]     // For Update
	Attrs    []AttrPatch[Msg] // For Update
}

// Add materializes n at a previously empty position.
func Add[Msg any](n *Node[Msg]) Patch[Msg] {
	return Patch[Msg]{Op: PatchAdd, Node: n}
}

// Replace substitutes n for the node at this position.
func Replace[Msg any](n *Node[Msg]) Patch[Msg] {
	return Patch[Msg]{Op: PatchReplace, Node: n}
}

// Update patches a compatible node in place.
func Update[Msg any](children []Patch[Msg], attrs []AttrPatch[Msg]) Patch[Msg] {
	return Patch[Msg]{Op: PatchUpdate, Children: children, Attrs: attrs}
}

// Remove deletes the node at this position.
func Remove[Msg any]() Patch[Msg] {
	return Patch[Msg]{Op: PatchRemove}
}

// Nothing leaves the node at this position untouched.
func Nothing[Msg any]() Patch[Msg] {
	return Patch[Msg]{}
}

// AttrOp is the type of attribute patch.
type AttrOp uint8

const (
	AttrAdd    AttrOp = iota // Materialize the attribute
	AttrRemove               // Undo the attribute
)

// String returns the string representation of the AttrOp.
func (op AttrOp) String() string {
	switch op {
	case AttrAdd:
		return "Add"
	case AttrRemove:
		return "Remove"
	default:
		return "Unknown"
	}
}

// AttrPatch is a single attribute change. It carries the full attribute so
// removal can choose the right undo operation for its kind.
type AttrPatch[Msg any] struct {
	Op   AttrOp
	Attr Attribute[Msg]
}

// AddAttr adds a.
func AddAttr[Msg any](a Attribute[Msg]) AttrPatch[Msg] {
	return AttrPatch[Msg]{Op: AttrAdd, Attr: a}
}

// RemoveAttr removes a.
func RemoveAttr[Msg any](a Attribute[Msg]) AttrPatch[Msg] {
	return AttrPatch[Msg]{Op: AttrRemove, Attr: a}
}

// Count returns the number of patches in the tree rooted at p that change
// something, attribute patches included.
func (p Patch[Msg]) Count() int {
	n := 0
	switch p.Op {
	case PatchAdd, PatchReplace, PatchRemove:
		n = 1
	case PatchUpdate:
		n = len(p.Attrs)
		for _, c := range p.Children {
			n += c.Count()
		}
	}
	return n
}
