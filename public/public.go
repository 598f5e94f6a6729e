// Package public embeds the browser assets served under /assets.
package public

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed assets
var files embed.FS

// Assets returns the contents of the assets directory.
func Assets() http.FileSystem {
	sub, err := fs.Sub(files, "assets")
	if err != nil {
		// The directory is embedded at build time; a failure here is a build defect.
		panic(err)
	}
	return http.FS(sub)
}
