// Package compiler implements roko gen, the build-time template compiler.
//
// Input files end in .roko.go and carry a //go:build roko constraint so
// the normal build skips them. Views inside them call vdom.HTML with a
// raw string of markup:
//
//	func view(m Model) *vdom.Node[Msg] {
//	    return vdom.HTML[Msg](`
//	        <div key={m.ID} class="row" onclick={Selected{ID: m.ID}}>
//	            <ui.Badge model={m.Count} />
//	            {m.Label}
//	        </div>`)
//	}
//
// The compiler writes a _gen.go file next to each input with every HTML
// call replaced by node constructors:
//
//	vdom.Div[Msg](vdom.Some(m.ID), []vdom.Attribute[Msg]{
//	    vdom.Custom[Msg]("class", "row"),
//	    vdom.OnClick(vdom.Share[Msg](Selected{ID: m.ID})),
//	}, []*vdom.Node[Msg]{
//	    ui.Badge(m.Count, nil, []vdom.Attribute[Msg]{}, []*vdom.Node[Msg]{}),
//	    vdom.Into[Msg](m.Label),
//	})
//
// # Template Rules
//
//   - key, model and children are consumed structurally and never become
//     attributes. key is the node identity, model is passed as a leading
//     argument and children replaces the child list.
//   - onclick, onmount and onunmount wrap their value in vdom.Share.
//   - Any other attribute is a vdom.Custom pair; {expr} values go through
//     vdom.Str. Attributes without a value are markers.
//   - Capitalized and qualified tags call the named component function.
//   - A template must have exactly one root node.
//
// # Commands
//
// A function whose doc comment contains //roko:cmd is renamed
// <name>Future and replaced by a wrapper that starts it with
// command.Start and returns the *command.Future.
package compiler
