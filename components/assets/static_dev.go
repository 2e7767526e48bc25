//go:build dev

package assets

import (
	"io/fs"
	"os"
)

// DistFS reads straight from the source tree so UI edits show up
// without a rebuild. Run from the repository root.
func DistFS() fs.FS {
	dir := "components/assets/dist"
	if env := os.Getenv("WEBUI_ASSETS_DIR"); env != "" {
		dir = env
	}
	return os.DirFS(dir)
}
