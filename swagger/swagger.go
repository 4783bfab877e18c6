// Package swagger serves the OpenAPI document of the HTTP API.
package swagger

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed openapi.yaml
var content embed.FS

// GetHandler serves /openapi.yaml.
func GetHandler() (http.Handler, error) {
	subFS, err := fs.Sub(content, ".")
	if err != nil {
		return nil, err
	}

	return http.FileServer(http.FS(subFS)), nil
}
