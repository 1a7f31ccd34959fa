package web

import "embed"

// StaticFS the single page served at /
//
//go:embed index.html
var StaticFS embed.FS
