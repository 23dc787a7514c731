package panel

import "github.com/spec-kit/incident-panel/internal/domain"

// Action is a state transition request handled by Store.Dispatch.
type Action interface {
	action()
}

// Load fetches users and incidents.
type Load struct{}

type OpenIncidentForm struct{}

type CloseIncidentForm struct{}

type OpenUserForm struct{}

type CloseUserForm struct{}

// SubmitIncident validates the form and creates the incident.
type SubmitIncident struct {
	Form IncidentForm
}

// SubmitUser validates the form and creates the user.
type SubmitUser struct {
	Form UserForm
}

// ChangeStatus writes a new status for one incident.
type ChangeStatus struct {
	ID     string
	Status domain.IncidentStatus
}

// ChangeAssignee writes a new assignee. An empty UserID unassigns.
type ChangeAssignee struct {
	ID     string
	UserID string
}

// ViewDetails opens the read-only details dialog.
type ViewDetails struct {
	ID string
}

type CloseDetails struct{}

// DismissError hides the banner.
type DismissError struct{}

func (Load) action()              {}
func (OpenIncidentForm) action()  {}
func (CloseIncidentForm) action() {}
func (OpenUserForm) action()      {}
func (CloseUserForm) action()     {}
func (SubmitIncident) action()    {}
func (SubmitUser) action()        {}
func (ChangeStatus) action()      {}
func (ChangeAssignee) action()    {}
func (ViewDetails) action()       {}
func (CloseDetails) action()      {}
func (DismissError) action()      {}
