package web

import "embed"

// Templates holds the server-rendered views.
//
//go:embed templates/*.html
var Templates embed.FS
