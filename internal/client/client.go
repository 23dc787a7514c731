package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/incident-panel/internal/api/dto"
	"github.com/spec-kit/incident-panel/internal/domain"
	"github.com/spec-kit/incident-panel/internal/panel"
	apperrors "github.com/spec-kit/incident-panel/pkg/util/errorutil"
)

var _ panel.Gateway = (*Client)(nil)

// APIError is a non-2xx answer from the incident API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  []apperrors.FieldIssue
}

func (e *APIError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status of the answer.
func (e *APIError) StatusCode() int { return e.Status }

// Issues returns the field-level validation messages, if any.
func (e *APIError) Issues() []apperrors.FieldIssue { return e.Fields }

// Client talks to the incident REST API.
type Client struct {
	baseURL string
	timeout time.Duration
}

// New returns a client for the API rooted at baseURL. A zero timeout disables it.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

func (c *Client) ListIncidents(ctx context.Context) ([]domain.Incident, error) {
	var body []dto.IncidentResponse
	if err := c.do(ctx, fiber.MethodGet, "/incidents", nil, &body); err != nil {
		return nil, err
	}
	incidents := make([]domain.Incident, 0, len(body))
	for _, item := range body {
		incidents = append(incidents, item.Domain())
	}
	return incidents, nil
}

func (c *Client) GetIncident(ctx context.Context, id string) (*domain.Incident, error) {
	var body dto.IncidentResponse
	if err := c.do(ctx, fiber.MethodGet, "/incidents/"+url.PathEscape(id), nil, &body); err != nil {
		return nil, err
	}
	incident := body.Domain()
	return &incident, nil
}

func (c *Client) CreateIncident(ctx context.Context, input domain.NewIncident) (*domain.Incident, error) {
	req := dto.CreateIncidentRequest{
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Area:        input.Area,
		Status:      input.Status,
		UserID:      input.UserID,
	}
	var body dto.IncidentResponse
	if err := c.do(ctx, fiber.MethodPost, "/incidents", req, &body); err != nil {
		return nil, err
	}
	incident := body.Domain()
	return &incident, nil
}

func (c *Client) UpdateIncident(ctx context.Context, id string, patch domain.IncidentPatch) (*domain.Incident, error) {
	var body dto.IncidentResponse
	if err := c.do(ctx, fiber.MethodPatch, "/incidents/"+url.PathEscape(id), dto.UpdateIncidentRequest(patch), &body); err != nil {
		return nil, err
	}
	incident := body.Domain()
	return &incident, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var body []dto.UserResponse
	if err := c.do(ctx, fiber.MethodGet, "/users", nil, &body); err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(body))
	for _, item := range body {
		users = append(users, item.Domain())
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, input domain.NewUser) (*domain.User, error) {
	var body dto.UserResponse
	req := dto.CreateUserRequest{Name: input.Name, Email: input.Email}
	if err := c.do(ctx, fiber.MethodPost, "/users", req, &body); err != nil {
		return nil, err
	}
	user := body.Domain()
	return &user, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if payload != nil {
		agent.JSON(payload)
	}
	if timeout := c.effectiveTimeout(ctx); timeout > 0 {
		agent.Timeout(timeout)
	}
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	// Bytes releases the agent.
	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}
	if status >= http.StatusBadRequest {
		return decodeAPIError(status, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// effectiveTimeout is the client timeout, shortened to the context deadline when that comes first.
func (c *Client) effectiveTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{Status: status, Message: http.StatusText(status)}
	var envelope dto.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Fields = envelope.Error.Details.Fields
	}
	return apiErr
}
