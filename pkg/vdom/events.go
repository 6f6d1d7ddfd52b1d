package vdom

// Handler is a shared handle to the message an event-bound attribute
// dispatches.
//
// The same *Handler is reachable from the virtual tree and from closures
// registered on the live document during patch application, so it must not
// be copied by value. A Handler is immutable and safe for concurrent use.
type Handler[Msg any] struct {
	msg Msg
}

// Share wraps msg in a shared handler.
func Share[Msg any](msg Msg) *Handler[Msg] {
	return &Handler[Msg]{msg: msg}
}

// Msg returns the message carried by the handler.
func (h *Handler[Msg]) Msg() Msg {
	if h == nil {
		var zero Msg
		return zero
	}
	return h.msg
}

// reservedEvents maps template attribute names to event-bound kinds.
var reservedEvents = map[string]AttrKind{
	"onclick":   AttrClick,
	"onmount":   AttrMount,
	"onunmount": AttrUnmount,
}

// EventKind returns the attribute kind for a reserved event attribute name.
func EventKind(name string) (AttrKind, bool) {
	k, ok := reservedEvents[name]
	return k, ok
}
