// internal/app/features/tickets/views/views.go
package tickets

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "tickets",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
