package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFiles embed.FS

// Handler serves the embedded browser client
func Handler() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// embed guarantees the subtree exists; a failure here is a build defect
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
