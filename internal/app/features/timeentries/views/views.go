// internal/app/features/timeentries/views/views.go
package timeentries

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "timeentries",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
