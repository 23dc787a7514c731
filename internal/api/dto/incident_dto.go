package dto

import (
	"time"

	"github.com/spec-kit/incident-panel/internal/domain"
)

// IncidentResponse is the JSON shape of an incident.
type IncidentResponse struct {
	ID          string                  `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Priority    domain.IncidentPriority `json:"priority"`
	Status      domain.IncidentStatus   `json:"status"`
	Area        string                  `json:"area"`
	CreatedAt   time.Time               `json:"createdAt"`
	UserID      *string                 `json:"userId"`
	AssignedTo  *UserResponse           `json:"assignedTo"`
}

// NewIncidentResponse maps an incident to its response shape.
func NewIncidentResponse(incident *domain.Incident) IncidentResponse {
	resp := IncidentResponse{
		ID:          incident.ID,
		Title:       incident.Title,
		Description: incident.Description,
		Priority:    incident.Priority,
		Status:      incident.Status,
		Area:        incident.Area,
		CreatedAt:   incident.CreatedAt,
		UserID:      incident.UserID,
	}
	if incident.AssignedTo != nil {
		assignee := NewUserResponse(incident.AssignedTo)
		resp.AssignedTo = &assignee
	}
	return resp
}

// NewIncidentList maps incidents, never returning a nil slice.
func NewIncidentList(incidents []domain.Incident) []IncidentResponse {
	items := make([]IncidentResponse, 0, len(incidents))
	for i := range incidents {
		items = append(items, NewIncidentResponse(&incidents[i]))
	}
	return items
}

// Domain converts the response back into a domain incident.
func (r IncidentResponse) Domain() domain.Incident {
	incident := domain.Incident{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Status:      r.Status,
		Area:        r.Area,
		CreatedAt:   r.CreatedAt,
		UserID:      r.UserID,
	}
	if r.AssignedTo != nil {
		user := r.AssignedTo.Domain()
		incident.AssignedTo = &user
	}
	return incident
}

// CreateIncidentRequest is the body sent to POST /incidents.
type CreateIncidentRequest struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Priority    domain.IncidentPriority `json:"priority"`
	Area        string                  `json:"area"`
	Status      domain.IncidentStatus   `json:"status,omitempty"`
	UserID      *string                 `json:"userId"`
}

// UpdateIncidentRequest builds a PATCH /incidents/:id body.
// Keys are only emitted for fields the patch touches, and an unassignment is sent as null.
func UpdateIncidentRequest(patch domain.IncidentPatch) map[string]any {
	body := map[string]any{}
	if patch.Status != nil {
		body["status"] = *patch.Status
	}
	if patch.Assignee.Set {
		if patch.Assignee.UserID == nil {
			body["userId"] = nil
		} else {
			body["userId"] = *patch.Assignee.UserID
		}
	}
	return body
}
