// Package web embeds the solver page and serves it through fiber.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
)

//go:embed static
var staticFS embed.FS

// Assets returns the embedded static tree rooted at static/.
func Assets() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("web: failed to create sub filesystem: " + err.Error())
	}
	return sub
}

// Handler serves index.html and its assets.
func Handler() fiber.Handler {
	return filesystem.New(filesystem.Config{
		Root:   http.FS(Assets()),
		Index:  "index.html",
		MaxAge: 300,
	})
}
