// Package dev implements roko dev, the development loop.
//
// The server polls the template include roots and the static directory.
// When a template source changes it is regenerated on its own; when any
// Go file changes and dev.build is set, the package is rebuilt with
// GOOS=js GOARCH=wasm. Connected browsers are then told to reload, or
// shown the error.
//
// # Routes
//
//	/_roko/reload  reload websocket (dev.hotReload)
//	/metrics       Prometheus metrics (dev.metrics)
//	/*             files from dev.static; HTML pages get the reload client
//
// # Hot Reload Protocol
//
// Messages are JSON-encoded:
//
//	{"type": "reload"}                    // full page reload
//	{"type": "css", "file": "/app.css"}   // stylesheet reload
//	{"type": "error", "error": "..."}     // shows the error overlay
//	{"type": "clear"}                     // clears the error overlay
package dev
