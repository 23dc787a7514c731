package panel

import (
	"strings"

	"github.com/spec-kit/incident-panel/internal/domain"
	"github.com/spec-kit/incident-panel/internal/validation"
)

// Modal identifies which dialog is open.
type Modal string

const (
	ModalNone     Modal = ""
	ModalIncident Modal = "incident"
	ModalUser     Modal = "user"
	ModalDetails  Modal = "details"
)

// IncidentForm holds the raw values of the new-incident form.
type IncidentForm struct {
	Title       string
	Description string
	Priority    string
	Area        string
}

// input maps the form onto the API's creation shape. Blank fields count as missing.
func (f IncidentForm) input() validation.IncidentCreateInput {
	return validation.IncidentCreateInput{
		Title:       blankToNil(f.Title),
		Description: blankToNil(f.Description),
		Priority:    blankToNil(f.Priority),
		Area:        blankToNil(f.Area),
	}
}

// UserForm holds the raw values of the new-user form.
type UserForm struct {
	Name  string
	Email string
}

func (f UserForm) input() validation.UserCreateInput {
	return validation.UserCreateInput{
		Name:  blankToNil(f.Name),
		Email: blankToNil(f.Email),
	}
}

// State is everything the panel renders.
type State struct {
	Incidents []domain.Incident
	Users     []domain.User

	Modal    Modal
	Selected *domain.Incident

	IncidentForm   IncidentForm
	IncidentErrors map[string]string
	UserForm       UserForm
	UserErrors     map[string]string

	// Error is the dismissible banner; empty when hidden.
	Error string
}

func blankToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
