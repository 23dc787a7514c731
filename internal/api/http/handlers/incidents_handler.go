package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/incident-panel/internal/api/dto"
	"github.com/spec-kit/incident-panel/internal/service"
	"github.com/spec-kit/incident-panel/internal/validation"
)

// IncidentsHandler serves the incident endpoints.
type IncidentsHandler struct {
	service *service.IncidentService
}

// NewIncidentsHandler constructs handler.
func NewIncidentsHandler(incidentService *service.IncidentService) *IncidentsHandler {
	return &IncidentsHandler{service: incidentService}
}

// CreateIncident POST /incidents.
func (h *IncidentsHandler) CreateIncident(c *fiber.Ctx) error {
	input, err := validation.ValidateIncidentCreate(c.Body())
	if err != nil {
		return err
	}
	incident, err := h.service.CreateIncident(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewIncidentResponse(incident))
}

// ListIncidents GET /incidents.
func (h *IncidentsHandler) ListIncidents(c *fiber.Ctx) error {
	incidents, err := h.service.ListIncidents(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewIncidentList(incidents))
}

// GetIncident GET /incidents/:id.
func (h *IncidentsHandler) GetIncident(c *fiber.Ctx) error {
	incident, err := h.service.GetIncident(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewIncidentResponse(incident))
}

// UpdateIncident PATCH /incidents/:id.
func (h *IncidentsHandler) UpdateIncident(c *fiber.Ctx) error {
	patch, err := validation.ValidateIncidentUpdate(c.Body())
	if err != nil {
		return err
	}
	incident, err := h.service.UpdateIncident(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewIncidentResponse(incident))
}
