// Package docs serves the OpenAPI document and a Swagger UI page.
package docs

import (
	_ "embed"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

//go:embed static/index.html
var indexHTML []byte

//go:embed static/openapi.json
var openAPIJSON []byte

// Register mounts the UI at base and the document at base/openapi.json.
func Register(r gin.IRouter, base string) {
	base = path.Join("/", base)
	r.GET(base, serveUI)
	r.GET(path.Join(base, "openapi.json"), serveDocument)
}

func serveUI(c *gin.Context) {
	// Prevent caching of the docs UI page.
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func serveDocument(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "application/json; charset=utf-8", openAPIJSON)
}
