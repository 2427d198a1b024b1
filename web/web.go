// Package web holds the embedded HTML templates for the server.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS
