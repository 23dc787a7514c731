package client

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/incident-panel/internal/api/http"
	"github.com/spec-kit/incident-panel/internal/api/http/handlers"
	"github.com/spec-kit/incident-panel/internal/domain"
	"github.com/spec-kit/incident-panel/internal/repository"
	"github.com/spec-kit/incident-panel/internal/service"
	apperrors "github.com/spec-kit/incident-panel/pkg/util/errorutil"
)

func startAPI(t *testing.T) *Client {
	t.Helper()
	store := repository.NewMemoryStore()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{Logger: zap.NewNop(), CORSAllowOrigins: "*"})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler("test", "dev", nil),
		Incidents: handlers.NewIncidentsHandler(service.NewIncidentService(service.IncidentDependencies{
			IncidentRepo: store.Incidents(),
			UserRepo:     store.Users(),
		})),
		Users: handlers.NewUsersHandler(service.NewUserService(store.Users(), nil)),
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return New("http://"+ln.Addr().String()+"/", 5*time.Second)
}

func TestClient_UsersRoundTrip(t *testing.T) {
	c := startAPI(t)
	ctx := context.Background()

	ana, err := c.CreateUser(ctx, domain.NewUser{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, ana.ID)
	assert.Equal(t, "Ana", ana.Name)

	_, err = c.CreateUser(ctx, domain.NewUser{Name: "Ana", Email: "ana@x.com"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusBadRequest, apiErr.StatusCode())
	assert.Equal(t, apperrors.CodeDuplicateEmail, apiErr.Code)
	assert.Equal(t, apperrors.DuplicateEmailMessage, apiErr.Error())

	users, err := c.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestClient_IncidentsRoundTrip(t *testing.T) {
	c := startAPI(t)
	ctx := context.Background()

	ana, err := c.CreateUser(ctx, domain.NewUser{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)

	created, err := c.CreateIncident(ctx, domain.NewIncident{
		Title:       "Server down",
		Description: "Production server is unreachable",
		Priority:    domain.IncidentPriorityHigh,
		Area:        "Infra",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.IncidentStatusOpen, created.Status)
	assert.Nil(t, created.AssignedTo)

	assigned, err := c.UpdateIncident(ctx, created.ID, domain.IncidentPatch{
		Assignee: domain.AssigneeChange{Set: true, UserID: &ana.ID},
	})
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, "ana@x.com", assigned.AssignedTo.Email)

	unassigned, err := c.UpdateIncident(ctx, created.ID, domain.IncidentPatch{
		Assignee: domain.AssigneeChange{Set: true},
	})
	require.NoError(t, err)
	assert.Nil(t, unassigned.UserID)

	fetched, err := c.GetIncident(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, fetched.Title)
	assert.True(t, created.CreatedAt.Equal(fetched.CreatedAt))

	list, err := c.ListIncidents(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestClient_ErrorsCarryFieldIssues(t *testing.T) {
	c := startAPI(t)
	ctx := context.Background()

	_, err := c.CreateIncident(ctx, domain.NewIncident{Title: "abc", Description: "short", Priority: "URGENT", Area: "x"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apperrors.CodeValidationFailed, apiErr.Code)
	fields := make([]string, 0, len(apiErr.Issues()))
	for _, issue := range apiErr.Issues() {
		fields = append(fields, issue.Field)
	}
	assert.Equal(t, []string{"title", "description", "priority", "area"}, fields)

	_, err = c.GetIncident(ctx, "does-not-exist")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusNotFound, apiErr.StatusCode())
}

func TestClient_TransportFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c := New("http://"+addr, time.Second)
	_, err = c.ListIncidents(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "transport failures are not API errors")
}

func TestClient_CanceledContext(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListUsers(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
