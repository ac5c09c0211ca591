package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates holds the parsed page templates. Parsing happens once at init;
// a broken template is a build defect, so Must is appropriate.
var Templates = template.Must(template.ParseFS(files, "templates/*.html"))
