// internal/app/features/projects/views/views.go
package projects

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "projects",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
