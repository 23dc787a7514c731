package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/incident-panel/internal/domain"
	"github.com/spec-kit/incident-panel/internal/panel"
	apperrors "github.com/spec-kit/incident-panel/pkg/util/errorutil"
)

// PanelHandler serves the server-rendered incident panel.
// Every request builds its own store, so no UI state outlives a request.
type PanelHandler struct {
	gateway panel.Gateway
	logger  *zap.Logger
}

// NewPanelHandler constructs handler.
func NewPanelHandler(gateway panel.Gateway, logger *zap.Logger) *PanelHandler {
	return &PanelHandler{gateway: gateway, logger: logger}
}

// Show GET /. Honors ?modal=incident|user and ?incident=<id>.
func (h *PanelHandler) Show(c *fiber.Ctx) error {
	ctx := c.UserContext()
	store := panel.NewStore(h.gateway)
	store.Dispatch(ctx, panel.Load{})

	switch c.Query("modal") {
	case "incident":
		store.Dispatch(ctx, panel.OpenIncidentForm{})
	case "user":
		store.Dispatch(ctx, panel.OpenUserForm{})
	}
	if id := c.Query("incident"); id != "" {
		store.Dispatch(ctx, panel.ViewDetails{ID: id})
	}
	return h.render(c, store.State())
}

// CreateIncident POST /panel/incidents.
func (h *PanelHandler) CreateIncident(c *fiber.Ctx) error {
	ctx := c.UserContext()
	store := panel.NewStore(h.gateway)
	store.Dispatch(ctx, panel.Load{})
	store.Dispatch(ctx, panel.OpenIncidentForm{})
	store.Dispatch(ctx, panel.SubmitIncident{Form: panel.IncidentForm{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Priority:    c.FormValue("priority"),
		Area:        c.FormValue("area"),
	}})
	return h.settle(c, store.State())
}

// CreateUser POST /panel/users.
func (h *PanelHandler) CreateUser(c *fiber.Ctx) error {
	ctx := c.UserContext()
	store := panel.NewStore(h.gateway)
	store.Dispatch(ctx, panel.Load{})
	store.Dispatch(ctx, panel.OpenUserForm{})
	store.Dispatch(ctx, panel.SubmitUser{Form: panel.UserForm{
		Name:  c.FormValue("name"),
		Email: c.FormValue("email"),
	}})
	return h.settle(c, store.State())
}

// ChangeStatus POST /panel/incidents/:id/status.
func (h *PanelHandler) ChangeStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()
	store := panel.NewStore(h.gateway)
	store.Dispatch(ctx, panel.Load{})
	store.Dispatch(ctx, panel.ChangeStatus{
		ID:     c.Params("id"),
		Status: domain.IncidentStatus(c.FormValue("status")),
	})
	return h.settle(c, store.State())
}

// ChangeAssignee POST /panel/incidents/:id/assignee. An empty userId unassigns.
func (h *PanelHandler) ChangeAssignee(c *fiber.Ctx) error {
	ctx := c.UserContext()
	store := panel.NewStore(h.gateway)
	store.Dispatch(ctx, panel.Load{})
	store.Dispatch(ctx, panel.ChangeAssignee{
		ID:     c.Params("id"),
		UserID: c.FormValue("userId"),
	})
	return h.settle(c, store.State())
}

// settle redirects back to the panel after a clean write, otherwise renders the state with its errors.
func (h *PanelHandler) settle(c *fiber.Ctx, state panel.State) error {
	if state.Error == "" && state.Modal == panel.ModalNone {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return h.render(c, state)
}

func (h *PanelHandler) render(c *fiber.Ctx, state panel.State) error {
	var buf bytes.Buffer
	if err := panel.Render(&buf, state); err != nil {
		return apperrors.NewInternalError(err)
	}
	if state.Error != "" {
		h.logger.Debug("panel rendered with error banner", zap.String("path", c.Path()), zap.String("banner", state.Error))
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
