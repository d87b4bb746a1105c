// Package assets embeds the companion page script and stylesheet that the
// build pass registers with the output document.
package assets

import _ "embed"

// RunnerJS is the page runtime that wires run controls onto published blocks.
//
//go:embed runner.js
var RunnerJS []byte

// Stylesheet styles interactive blocks and their result regions.
//
//go:embed cypherdoc.css
var Stylesheet []byte

// File names the registrar publishes the assets under.
const (
	RunnerJSName   = "runner.js"
	StylesheetName = "cypherdoc.css"
)
