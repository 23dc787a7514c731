package domain

import "time"

// IncidentStatus enumerates lifecycle states for incidents.
type IncidentStatus string

const (
	IncidentStatusOpen       IncidentStatus = "OPEN"
	IncidentStatusInProgress IncidentStatus = "IN_PROGRESS"
	IncidentStatusClosed     IncidentStatus = "CLOSED"
)

// IncidentStatuses lists every status in display order.
var IncidentStatuses = []IncidentStatus{
	IncidentStatusOpen,
	IncidentStatusInProgress,
	IncidentStatusClosed,
}

// Valid reports whether s is a known status.
func (s IncidentStatus) Valid() bool {
	for _, candidate := range IncidentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IncidentPriority enumerates severity. It is fixed at creation.
type IncidentPriority string

const (
	IncidentPriorityHigh   IncidentPriority = "HIGH"
	IncidentPriorityMedium IncidentPriority = "MEDIUM"
	IncidentPriorityLow    IncidentPriority = "LOW"
)

// IncidentPriorities lists every priority from most to least severe.
var IncidentPriorities = []IncidentPriority{
	IncidentPriorityHigh,
	IncidentPriorityMedium,
	IncidentPriorityLow,
}

// Incident is a reported issue tracked through its lifecycle.
type Incident struct {
	ID          string
	Title       string
	Description string
	Priority    IncidentPriority
	Area        string
	Status      IncidentStatus
	CreatedAt   time.Time
	UserID      *string
	// AssignedTo is the user referenced by UserID, loaded on read.
	AssignedTo *User
}

// NewIncident holds validated creation fields.
type NewIncident struct {
	Title       string
	Description string
	Priority    IncidentPriority
	Area        string
	Status      IncidentStatus
	UserID      *string
}

// AssigneeChange describes a requested change of assignee.
// Set=false leaves the assignee untouched; Set=true with a nil UserID unassigns.
type AssigneeChange struct {
	Set    bool
	UserID *string
}

// IncidentPatch is the subset of fields that can change after creation.
type IncidentPatch struct {
	Status   *IncidentStatus
	Assignee AssigneeChange
}

// Empty reports whether the patch changes nothing.
func (p IncidentPatch) Empty() bool {
	return p.Status == nil && !p.Assignee.Set
}
