// Package static embeds the stylesheet and hero images served under /static/.
package static

import "embed"

// FS exposes landing static assets for HTTP serving.
//
//go:embed *.css *.png
var FS embed.FS
