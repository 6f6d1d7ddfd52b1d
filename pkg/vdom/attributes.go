package vdom

// AttrKind is the attribute variant discriminator.
type AttrKind uint8

const (
	AttrCustom  AttrKind = iota // name="value"
	AttrClick                   // onclick handler
	AttrMount                   // onmount handler, fires when materialized
	AttrUnmount                 // onunmount handler, fires when the binding is removed
	AttrMarker                  // value-less attribute, no payload
)

// String returns the string representation of the AttrKind.
func (k AttrKind) String() string {
	switch k {
	case AttrCustom:
		return "Custom"
	case AttrClick:
		return "OnClick"
	case AttrMount:
		return "OnMount"
	case AttrUnmount:
		return "OnUnmount"
	case AttrMarker:
		return "Marker"
	default:
		return "Unknown"
	}
}

// Attribute is a single attribute of an element.
//
// Exactly one variant is set per instance: event-bound kinds carry Handler,
// AttrCustom carries Name and Value, AttrMarker carries only Name.
// Attribute lists may repeat a name; the last one applied wins.
type Attribute[Msg any] struct {
	Kind    AttrKind
	Name    string
	Value   string
	Handler *Handler[Msg]
}

// IsEvent reports whether the attribute binds an event handler.
func (a Attribute[Msg]) IsEvent() bool {
	switch a.Kind {
	case AttrClick, AttrMount, AttrUnmount:
		return true
	}
	return false
}

// EventName returns the event name for event-bound attributes ("click",
// "mount", "unmount") and "" otherwise.
func (a Attribute[Msg]) EventName() string {
	switch a.Kind {
	case AttrClick:
		return "click"
	case AttrMount:
		return "mount"
	case AttrUnmount:
		return "unmount"
	}
	return ""
}

// Custom creates a plain string attribute.
func Custom[Msg any](name, value string) Attribute[Msg] {
	return Attribute[Msg]{Kind: AttrCustom, Name: name, Value: value}
}

// Marker creates a value-less attribute.
func Marker[Msg any](name string) Attribute[Msg] {
	return Attribute[Msg]{Kind: AttrMarker, Name: name}
}

// OnClick dispatches the handler's message when the element is clicked.
func OnClick[Msg any](h *Handler[Msg]) Attribute[Msg] {
	return Attribute[Msg]{Kind: AttrClick, Name: "onclick", Handler: h}
}

// OnMount dispatches the handler's message when the element is materialized.
func OnMount[Msg any](h *Handler[Msg]) Attribute[Msg] {
	return Attribute[Msg]{Kind: AttrMount, Name: "onmount", Handler: h}
}

// OnUnmount dispatches the handler's message when the binding is removed.
func OnUnmount[Msg any](h *Handler[Msg]) Attribute[Msg] {
	return Attribute[Msg]{Kind: AttrUnmount, Name: "onunmount", Handler: h}
}

// Identity and common attributes

// ID sets the id attribute.
func ID[Msg any](id string) Attribute[Msg] { return Custom[Msg]("id", id) }

// Class sets the class attribute.
func Class[Msg any](class string) Attribute[Msg] { return Custom[Msg]("class", class) }

// Data creates a data-* attribute.
// Example: Data[Msg]("id", "123") → data-id="123"
func Data[Msg any](key, value string) Attribute[Msg] { return Custom[Msg]("data-"+key, value) }
