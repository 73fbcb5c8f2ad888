// internal/app/features/integrations/views/views.go
package integrations

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "integrations",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
