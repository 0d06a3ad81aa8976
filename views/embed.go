// Package views holds the HTML templates and static assets compiled into the
// binary.
package views

import (
	"embed"
	"io/fs"
)

//go:embed layouts partials *.html
var FS embed.FS

//go:embed static
var static embed.FS

// Static returns the static assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
