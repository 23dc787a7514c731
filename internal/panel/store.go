package panel

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/incident-panel/internal/domain"
	apperrors "github.com/spec-kit/incident-panel/pkg/util/errorutil"
)

// Banner messages used when the API gives nothing more specific.
const (
	MsgFetchIncidents = "Error fetching incidents"
	MsgFetchUsers     = "Error fetching users"
	MsgFetchIncident  = "Error fetching incident"
	MsgCreateIncident = "Failed to create incident"
	MsgCreateUser     = "Failed to create user"
	MsgUpdateStatus   = "Error updating status"
	MsgAssignUser     = "Error assigning user"
)

// Store owns the panel state. It is not safe for concurrent use; build one per request.
type Store struct {
	gateway Gateway
	state   State
}

// NewStore returns a store with empty state.
func NewStore(gateway Gateway) *Store {
	return &Store{gateway: gateway}
}

// State returns the current state.
func (s *Store) State() State {
	return s.state
}

// Dispatch applies action. Failures never escape; they end up in State.Error or the form errors.
func (s *Store) Dispatch(ctx context.Context, action Action) {
	switch a := action.(type) {
	case Load:
		s.fetchUsers(ctx)
		s.fetchIncidents(ctx)
	case OpenIncidentForm:
		s.state.Modal = ModalIncident
		s.state.IncidentErrors = nil
	case CloseIncidentForm:
		s.closeModal(ModalIncident)
	case OpenUserForm:
		s.state.Modal = ModalUser
		s.state.UserErrors = nil
	case CloseUserForm:
		s.closeModal(ModalUser)
	case SubmitIncident:
		s.submitIncident(ctx, a.Form)
	case SubmitUser:
		s.submitUser(ctx, a.Form)
	case ChangeStatus:
		s.changeStatus(ctx, a)
	case ChangeAssignee:
		s.changeAssignee(ctx, a)
	case ViewDetails:
		s.viewDetails(ctx, a.ID)
	case CloseDetails:
		s.closeModal(ModalDetails)
	case DismissError:
		s.state.Error = ""
	}
}

func (s *Store) fetchIncidents(ctx context.Context) {
	incidents, err := s.gateway.ListIncidents(ctx)
	if err != nil {
		s.state.Error = MsgFetchIncidents
		return
	}
	s.state.Incidents = incidents
}

func (s *Store) fetchUsers(ctx context.Context) {
	users, err := s.gateway.ListUsers(ctx)
	if err != nil {
		s.state.Error = MsgFetchUsers
		return
	}
	s.state.Users = users
}

func (s *Store) closeModal(modal Modal) {
	if s.state.Modal == modal {
		s.state.Modal = ModalNone
	}
	switch modal {
	case ModalIncident:
		s.state.IncidentForm = IncidentForm{}
		s.state.IncidentErrors = nil
	case ModalUser:
		s.state.UserForm = UserForm{}
		s.state.UserErrors = nil
	case ModalDetails:
		s.state.Selected = nil
	}
}

func (s *Store) submitIncident(ctx context.Context, form IncidentForm) {
	s.state.IncidentForm = form
	input, err := form.input().Validate()
	if err != nil {
		s.state.IncidentErrors = issuesByField(apperrors.FieldIssues(err))
		return
	}
	s.state.IncidentErrors = nil

	if _, err := s.gateway.CreateIncident(ctx, input); err != nil {
		s.state.Error = describe(err, MsgCreateIncident)
		return
	}
	s.closeModal(ModalIncident)
	s.fetchIncidents(ctx)
}

func (s *Store) submitUser(ctx context.Context, form UserForm) {
	s.state.UserForm = form
	input, err := form.input().Validate()
	if err != nil {
		s.state.UserErrors = issuesByField(apperrors.FieldIssues(err))
		return
	}
	s.state.UserErrors = nil

	if _, err := s.gateway.CreateUser(ctx, input); err != nil {
		s.state.Error = describe(err, MsgCreateUser)
		return
	}
	s.closeModal(ModalUser)
	s.fetchUsers(ctx)
}

func (s *Store) changeStatus(ctx context.Context, a ChangeStatus) {
	if !a.Status.Valid() {
		s.state.Error = MsgUpdateStatus
		return
	}
	status := a.Status
	if _, err := s.gateway.UpdateIncident(ctx, a.ID, domain.IncidentPatch{Status: &status}); err != nil {
		s.state.Error = MsgUpdateStatus
		return
	}
	s.fetchIncidents(ctx)
}

func (s *Store) changeAssignee(ctx context.Context, a ChangeAssignee) {
	patch := domain.IncidentPatch{Assignee: domain.AssigneeChange{Set: true}}
	if a.UserID != "" {
		userID := a.UserID
		patch.Assignee.UserID = &userID
	}
	if _, err := s.gateway.UpdateIncident(ctx, a.ID, patch); err != nil {
		s.state.Error = describe(err, MsgAssignUser)
		return
	}
	s.fetchIncidents(ctx)
}

func (s *Store) viewDetails(ctx context.Context, id string) {
	for i := range s.state.Incidents {
		if s.state.Incidents[i].ID == id {
			selected := s.state.Incidents[i]
			s.state.Selected = &selected
			s.state.Modal = ModalDetails
			return
		}
	}
	incident, err := s.gateway.GetIncident(ctx, id)
	if err != nil {
		s.state.Error = describe(err, MsgFetchIncident)
		return
	}
	s.state.Selected = incident
	s.state.Modal = ModalDetails
}

// describe picks the most specific message: field issues joined by ", ",
// then the API's own message for client errors, then fallback.
func describe(err error, fallback string) string {
	if issues := apperrors.FieldIssues(err); len(issues) > 0 {
		return joinIssues(issues)
	}
	var remote RemoteError
	if errors.As(err, &remote) {
		if issues := remote.Issues(); len(issues) > 0 {
			return joinIssues(issues)
		}
		if status := remote.StatusCode(); status >= 400 && status < 500 && remote.Error() != "" {
			return remote.Error()
		}
	}
	return fallback
}

func joinIssues(issues []apperrors.FieldIssue) string {
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	return strings.Join(messages, ", ")
}

func issuesByField(issues []apperrors.FieldIssue) map[string]string {
	byField := make(map[string]string, len(issues))
	for _, issue := range issues {
		if _, seen := byField[issue.Field]; !seen {
			byField[issue.Field] = issue.Message
		}
	}
	return byField
}
