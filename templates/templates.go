// Package templates holds the server-rendered HTML pages.
package templates

import (
	"embed"
	"html/template"
	"time"

	"github.com/taskboard-simple/models"
)

//go:embed *.html
var files embed.FS

// Load parses every page together with the shared layout blocks
func Load() *template.Template {
	funcMap := template.FuncMap{
		"statuses": func() []models.TaskStatus { return models.TaskStatuses },
		"fieldError": func(errs map[string]string, field string) string {
			return errs[field]
		},
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006 15:04")
		},
		"statusClass": func(s models.TaskStatus) string {
			switch s {
			case models.TaskStatusInProgress:
				return "in-progress"
			case models.TaskStatusCompleted:
				return "completed"
			default:
				return "not-started"
			}
		},
	}
	return template.Must(template.New("").Funcs(funcMap).ParseFS(files, "*.html"))
}
