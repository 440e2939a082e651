package handlers

import (
	"embed"
	"html/template"
)

//go:embed templates
var templatesFS embed.FS

var (
	formPage     = mustReadPage("templates/form.html")
	viewTemplate = template.Must(template.ParseFS(templatesFS, "templates/view.html"))
)

func mustReadPage(name string) []byte {
	data, err := templatesFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return data
}
