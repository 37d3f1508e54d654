package web

import "embed"

// Templates holds the server-rendered pages under templates/.
//
//go:embed templates
var Templates embed.FS
