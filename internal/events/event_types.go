package events

import (
	"time"

	"github.com/spec-kit/incident-panel/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIncidentCreated       EventType = "incident_created"
	EventIncidentStatusChanged EventType = "incident_status_changed"
	EventIncidentAssigned      EventType = "incident_assigned"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	IncidentID string      `json:"incident_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// IncidentCreatedPayload payload.
type IncidentCreatedPayload struct {
	Title    string                  `json:"title"`
	Priority domain.IncidentPriority `json:"priority"`
	Area     string                  `json:"area"`
	Status   domain.IncidentStatus   `json:"status"`
}

// IncidentStatusChangedPayload payload.
type IncidentStatusChangedPayload struct {
	OldStatus domain.IncidentStatus `json:"old_status"`
	NewStatus domain.IncidentStatus `json:"new_status"`
}

// IncidentAssignedPayload payload. A nil NewUserID means the incident was unassigned.
type IncidentAssignedPayload struct {
	OldUserID *string `json:"old_user_id,omitempty"`
	NewUserID *string `json:"new_user_id,omitempty"`
}
