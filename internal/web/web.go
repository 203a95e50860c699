// Package web serves the server-rendered login page.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templates embed.FS

// Engine returns the template engine backed by the embedded templates.
func Engine() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}

// LoginPage renders the login and registration form.
func LoginPage(appName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Render("login", fiber.Map{
			"AppName":   appName,
			"LoginURL":  "/api/auth/login",
			"SignupURL": "/api/auth/register",
		})
	}
}
