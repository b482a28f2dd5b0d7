package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// TemplatesFS exposes the embedded page shell templates.
func TemplatesFS() fs.FS {
	return templatesFS
}
