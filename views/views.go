// Package views holds the HTML templates rendered by the controllers.
package views

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"blog-api/services"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// EditorScript is the CKEditor build loaded on the post form.
const EditorScript = "https://cdn.jsdelivr.net/npm/@ckeditor/ckeditor5-build-classic@41.4.2/build/ckeditor.js"

// FuncMap is available to every template.
var FuncMap = template.FuncMap{
	"avatar": func(email string) string {
		return services.AvatarURL(email, services.DefaultAvatarSize)
	},
	// Post bodies are written by the administrator in a rich text editor.
	"editorScript": func() string {
		return EditorScript
	},
	"trustedHTML": func(s string) template.HTML {
		return template.HTML(s)
	},
}

// Load parses every page and partial into one template set.
func Load() (*template.Template, error) {
	return template.New("").Funcs(FuncMap).ParseFS(templateFS, "templates/*.html")
}

// Static serves the scripts under static/, mounted at /static.
func Static() (http.FileSystem, error) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	return http.FS(sub), nil
}
