// Package errors provides structured, actionable error messages for roko.
//
// Every error carries a code that maps to a registered template with a
// short message and a fix suggestion. Compile errors also carry the source
// location of the offending template and the surrounding lines.
//
// # Error Categories
//
//   - render: patch application failures (document errors, dispatch, stale diffs)
//   - compile: template and command transform failures
//   - config: roko.json loading and validation
//   - cli: command-line usage
//
// # Usage
//
//	err := errors.New("RE101").
//	    WithSourceLocation("view.roko.go", src, 12, 24).
//	    WithDetail("found 2 top-level nodes")
//
//	fmt.Println(err.Format())
//	// Output:
//	// error[RE101]: Fragments are not supported
//	//   --> view.roko.go:12:24
//	//     10 | func view(m Model) *vdom.Node[Msg] {
//	//     11 |     return vdom.HTML[Msg](`
//	//     12 |         <span/><span/>
//	//        |                        ^
//	//     13 |     `)
//	//     14 | }
//	//   = found 2 top-level nodes
//	//   = hint: Wrap the top-level nodes in a single element.
//
// A RokoError matches another RokoError with the same code under
// errors.Is, so templates double as sentinels:
//
//	if errors.Is(err, rokoerrors.New("RE003")) { ... }
package errors
