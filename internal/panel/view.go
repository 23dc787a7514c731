package panel

import (
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/spec-kit/incident-panel/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("panel").Funcs(template.FuncMap{
		"priorityLabel": priorityLabel,
		"priorityClass": priorityClass,
		"statusClass":   statusClass,
		"assignedTo":    assignedTo,
		"formatTime":    formatTime,
	}).ParseFS(templateFS, "templates/*.html"),
)

// page is the data handed to the templates.
type page struct {
	State
	Statuses   []domain.IncidentStatus
	Priorities []domain.IncidentPriority
}

// Render writes the panel HTML for state.
func Render(w io.Writer, state State) error {
	return pageTemplate.ExecuteTemplate(w, "panel.html", page{
		State:      state,
		Statuses:   domain.IncidentStatuses,
		Priorities: domain.IncidentPriorities,
	})
}

func priorityLabel(p domain.IncidentPriority) string {
	switch p {
	case domain.IncidentPriorityHigh:
		return "Alta"
	case domain.IncidentPriorityMedium:
		return "Media"
	case domain.IncidentPriorityLow:
		return "Baja"
	}
	return string(p)
}

func priorityClass(p domain.IncidentPriority) string {
	switch p {
	case domain.IncidentPriorityHigh:
		return "badge-red"
	case domain.IncidentPriorityMedium:
		return "badge-yellow"
	}
	return "badge-green"
}

func statusClass(s domain.IncidentStatus) string {
	switch s {
	case domain.IncidentStatusOpen:
		return "badge-blue"
	case domain.IncidentStatusInProgress:
		return "badge-yellow"
	case domain.IncidentStatusClosed:
		return "badge-green"
	}
	return "badge-gray"
}

// assignedTo reports whether the incident is assigned to userID.
func assignedTo(incident domain.Incident, userID string) bool {
	return incident.UserID != nil && *incident.UserID == userID
}

func formatTime(t time.Time) string {
	return t.Local().Format("02/01/2006 15:04")
}
