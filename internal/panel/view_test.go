package panel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/incident-panel/internal/domain"
)

func TestRender_Table(t *testing.T) {
	anaID := "usr-ana"
	state := State{
		Users: []domain.User{{ID: anaID, Name: "Ana", Email: "ana@x.com"}},
		Incidents: []domain.Incident{{
			ID:       "inc-1",
			Title:    "Server <down>",
			Priority: domain.IncidentPriorityHigh,
			Area:     "Infra",
			Status:   domain.IncidentStatusInProgress,
			UserID:   &anaID,
		}},
		Error: "Error updating status",
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, state))
	html := buf.String()

	assert.Contains(t, html, "Panel de Seguimiento de Incidentes")
	assert.Contains(t, html, "Server &lt;down&gt;")
	assert.Contains(t, html, `action="/panel/incidents/inc-1/status"`)
	assert.Contains(t, html, `<option value="IN_PROGRESS" selected>`)
	assert.Contains(t, html, `<option value="usr-ana" selected>Ana</option>`)
	assert.Contains(t, html, "Unassigned")
	assert.Contains(t, html, "Error updating status")
	assert.NotContains(t, html, "Nuevo Usuario</h2>")
}

func TestRender_Modals(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, State{
		Modal:          ModalIncident,
		IncidentForm:   IncidentForm{Title: "abc"},
		IncidentErrors: map[string]string{"title": "El título debe tener al menos 5 caracteres"},
	}))
	assert.Contains(t, buf.String(), `value="abc"`)
	assert.Contains(t, buf.String(), "El título debe tener al menos 5 caracteres")
	assert.Contains(t, buf.String(), "No hay incidentes registrados")

	buf.Reset()
	require.NoError(t, Render(&buf, State{
		Modal: ModalDetails,
		Selected: &domain.Incident{
			Title:       "Server down",
			Description: "Production server is unreachable",
			Priority:    domain.IncidentPriorityHigh,
			Status:      domain.IncidentStatusOpen,
			Area:        "Infra",
		},
	}))
	assert.Contains(t, buf.String(), "Detalles del Incidente")
	assert.Contains(t, buf.String(), "Sin asignar")

	buf.Reset()
	require.NoError(t, Render(&buf, State{Modal: ModalUser}))
	assert.Contains(t, buf.String(), `action="/panel/users"`)
}
