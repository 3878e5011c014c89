package http

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// WebHandler serves the built-in single-page form.
func WebHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embedded tree is fixed at build time
	}
	return http.FileServer(http.FS(sub))
}
