// Package web embeds the HTML templates rendered by the handler layer, so
// the binary is self-contained and tests need no template directory on disk.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS
