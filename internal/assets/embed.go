// Package assets embeds the banner stylesheet and client script.
package assets

import (
	"embed"
	"net/http"
)

//go:embed consent.min.css consent.min.js
var content embed.FS

func FileSystem() http.FileSystem {
	return http.FS(content)
}
