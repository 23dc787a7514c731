package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/incident-panel/internal/domain"
	"github.com/spec-kit/incident-panel/internal/events"
	"github.com/spec-kit/incident-panel/internal/repository"
	apperrors "github.com/spec-kit/incident-panel/pkg/util/errorutil"
)

const unknownAssigneeMessage = "El usuario asignado no existe"

// IncidentService coordinates incident workflows.
type IncidentService struct {
	incidents  repository.IncidentRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// IncidentDependencies bundles collaborators for the incident service.
type IncidentDependencies struct {
	IncidentRepo repository.IncidentRepository
	UserRepo     repository.UserRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// NewIncidentService constructs the service.
func NewIncidentService(deps IncidentDependencies) *IncidentService {
	svc := &IncidentService{
		incidents:  deps.IncidentRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        deps.Clock,
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// CreateIncident persists a validated incident and returns it joined with its assignee.
func (s *IncidentService) CreateIncident(ctx context.Context, input domain.NewIncident) (*domain.Incident, error) {
	if input.UserID != nil {
		if err := s.ensureAssignee(ctx, *input.UserID); err != nil {
			return nil, err
		}
	}

	status := input.Status
	if status == "" {
		status = domain.IncidentStatusOpen
	}
	incident := &domain.Incident{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Area:        input.Area,
		Status:      status,
		// Postgres keeps microsecond precision.
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
		UserID:    input.UserID,
	}
	if err := s.incidents.Create(ctx, incident); err != nil {
		return nil, mapIncidentError(err, incident.ID)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventIncidentCreated,
		IncidentID: incident.ID,
		Payload: events.IncidentCreatedPayload{
			Title:    incident.Title,
			Priority: incident.Priority,
			Area:     incident.Area,
			Status:   incident.Status,
		},
	})
	if incident.UserID != nil {
		s.publishEvent(ctx, events.Event{
			Type:       events.EventIncidentAssigned,
			IncidentID: incident.ID,
			Payload:    events.IncidentAssignedPayload{NewUserID: incident.UserID},
		})
	}
	return incident, nil
}

// GetIncident returns a single incident.
func (s *IncidentService) GetIncident(ctx context.Context, id string) (*domain.Incident, error) {
	incident, err := s.incidents.GetByID(ctx, id)
	if err != nil {
		return nil, mapIncidentError(err, id)
	}
	return incident, nil
}

// ListIncidents returns every incident, newest first.
func (s *IncidentService) ListIncidents(ctx context.Context) ([]domain.Incident, error) {
	incidents, err := s.incidents.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return incidents, nil
}

// UpdateIncident applies a status and/or assignee change.
// An empty patch returns the current record untouched.
func (s *IncidentService) UpdateIncident(ctx context.Context, id string, patch domain.IncidentPatch) (*domain.Incident, error) {
	current, err := s.incidents.GetByID(ctx, id)
	if err != nil {
		return nil, mapIncidentError(err, id)
	}
	if patch.Empty() {
		return current, nil
	}
	if patch.Assignee.Set && patch.Assignee.UserID != nil {
		if err := s.ensureAssignee(ctx, *patch.Assignee.UserID); err != nil {
			return nil, err
		}
	}

	updated, err := s.incidents.Update(ctx, id, patch)
	if err != nil {
		return nil, mapIncidentError(err, id)
	}

	if updated.Status != current.Status {
		s.publishEvent(ctx, events.Event{
			Type:       events.EventIncidentStatusChanged,
			IncidentID: id,
			Payload: events.IncidentStatusChangedPayload{
				OldStatus: current.Status,
				NewStatus: updated.Status,
			},
		})
	}
	if !sameUser(current.UserID, updated.UserID) {
		s.publishEvent(ctx, events.Event{
			Type:       events.EventIncidentAssigned,
			IncidentID: id,
			Payload: events.IncidentAssignedPayload{
				OldUserID: current.UserID,
				NewUserID: updated.UserID,
			},
		})
	}
	return updated, nil
}

func (s *IncidentService) ensureAssignee(ctx context.Context, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return unknownAssignee()
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *IncidentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.String("incident_id", event.IncidentID),
			zap.Error(err))
	}
}

func mapIncidentError(err error, id string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("incident", map[string]any{"id": id})
	case errors.Is(err, repository.ErrUnknownUser):
		// The assignee was removed between the existence check and the write.
		return unknownAssignee()
	default:
		return apperrors.NewInternalError(err)
	}
}

func unknownAssignee() error {
	return apperrors.NewValidationError(apperrors.FieldIssue{Field: "userId", Message: unknownAssigneeMessage})
}

func sameUser(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
