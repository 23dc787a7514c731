package panel

import (
	"context"

	"github.com/spec-kit/incident-panel/internal/domain"
	apperrors "github.com/spec-kit/incident-panel/pkg/util/errorutil"
)

// Gateway is the panel's view of the incident API.
type Gateway interface {
	ListIncidents(ctx context.Context) ([]domain.Incident, error)
	GetIncident(ctx context.Context, id string) (*domain.Incident, error)
	CreateIncident(ctx context.Context, input domain.NewIncident) (*domain.Incident, error)
	UpdateIncident(ctx context.Context, id string, patch domain.IncidentPatch) (*domain.Incident, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, input domain.NewUser) (*domain.User, error)
}

// RemoteError is implemented by gateway errors that carry the API's answer.
type RemoteError interface {
	error
	StatusCode() int
	Issues() []apperrors.FieldIssue
}
