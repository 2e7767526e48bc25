package assets

import (
	"io/fs"
	"net/http"
)

// Handler serves the calculator page and the webui.js shim from fsys.
func Handler(fsys fs.FS) http.Handler {
	return http.FileServer(http.FS(fsys))
}
