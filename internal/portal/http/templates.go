package http

import (
	"embed"
	"html/template"

	"github.com/medvend/portal/internal/portal/present"
)

//go:embed templates/*.html
var templateFS embed.FS

type noticeSlot struct {
	ID     string
	Notice present.Notice
}

// Templates parses the embedded page templates. Each page is looked up by its
// file name, e.g. "login.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"notice": func(id string, n present.Notice) noticeSlot {
			return noticeSlot{ID: id, Notice: n}
		},
	}).ParseFS(templateFS, "templates/*.html")
}
