// internal/app/features/apiportal/views/views.go
package apiportal

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "apiportal",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
