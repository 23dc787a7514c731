package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/incident-panel/internal/domain"
)

// IncidentRepository encapsulates incident persistence.
// Every read returns incidents joined with their assigned user.
type IncidentRepository interface {
	Create(ctx context.Context, incident *domain.Incident) error
	GetByID(ctx context.Context, id string) (*domain.Incident, error)
	List(ctx context.Context) ([]domain.Incident, error)
	Update(ctx context.Context, id string, patch domain.IncidentPatch) (*domain.Incident, error)
}

type incidentRepository struct {
	pool *pgxpool.Pool
}

// NewIncidentRepository instantiates repository.
func NewIncidentRepository(pool *pgxpool.Pool) IncidentRepository {
	return &incidentRepository{pool: pool}
}

const incidentReturning = `id, title, description, priority, area, status, created_at, user_id`

const incidentJoinedColumns = `
        i.id, i.title, i.description, i.priority, i.area, i.status, i.created_at, i.user_id,
        u.id, u.name, u.email, u.created_at`

func (r *incidentRepository) Create(ctx context.Context, incident *domain.Incident) error {
	const query = `
        WITH i AS (
            INSERT INTO incidents (id, title, description, priority, area, status, created_at, user_id)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
            RETURNING ` + incidentReturning + `
        )
        SELECT ` + incidentJoinedColumns + `
        FROM i LEFT JOIN users u ON u.id = i.user_id`

	created, err := scanIncident(r.pool.QueryRow(ctx, query,
		incident.ID,
		incident.Title,
		incident.Description,
		incident.Priority,
		incident.Area,
		incident.Status,
		incident.CreatedAt,
		incident.UserID,
	))
	if err != nil {
		return translateError(err)
	}
	*incident = *created
	return nil
}

func (r *incidentRepository) GetByID(ctx context.Context, id string) (*domain.Incident, error) {
	const query = `
        SELECT ` + incidentJoinedColumns + `
        FROM incidents i LEFT JOIN users u ON u.id = i.user_id
        WHERE i.id=$1`

	incident, err := scanIncident(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return incident, nil
}

func (r *incidentRepository) List(ctx context.Context) ([]domain.Incident, error) {
	const query = `
        SELECT ` + incidentJoinedColumns + `
        FROM incidents i LEFT JOIN users u ON u.id = i.user_id
        ORDER BY i.created_at DESC, i.id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Incident{}
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *incident)
	}
	return result, rows.Err()
}

// Update applies the patch and returns the joined record in one statement.
func (r *incidentRepository) Update(ctx context.Context, id string, patch domain.IncidentPatch) (*domain.Incident, error) {
	const query = `
        WITH i AS (
            UPDATE incidents SET
                status = COALESCE($2::text, status),
                user_id = CASE WHEN $3::boolean THEN $4::text ELSE user_id END
            WHERE id=$1
            RETURNING ` + incidentReturning + `
        )
        SELECT ` + incidentJoinedColumns + `
        FROM i LEFT JOIN users u ON u.id = i.user_id`

	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}
	incident, err := scanIncident(r.pool.QueryRow(ctx, query,
		id,
		status,
		patch.Assignee.Set,
		patch.Assignee.UserID,
	))
	if err != nil {
		return nil, translateError(err)
	}
	return incident, nil
}

func scanIncident(row pgx.Row) (*domain.Incident, error) {
	var (
		incident      domain.Incident
		userID        *string
		userName      *string
		userEmail     *string
		userCreatedAt *time.Time
	)
	if err := row.Scan(
		&incident.ID,
		&incident.Title,
		&incident.Description,
		&incident.Priority,
		&incident.Area,
		&incident.Status,
		&incident.CreatedAt,
		&incident.UserID,
		&userID,
		&userName,
		&userEmail,
		&userCreatedAt,
	); err != nil {
		return nil, err
	}
	if userID != nil {
		incident.AssignedTo = &domain.User{ID: *userID}
		if userName != nil {
			incident.AssignedTo.Name = *userName
		}
		if userEmail != nil {
			incident.AssignedTo.Email = *userEmail
		}
		if userCreatedAt != nil {
			incident.AssignedTo.CreatedAt = *userCreatedAt
		}
	}
	return &incident, nil
}
