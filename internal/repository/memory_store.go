package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/incident-panel/internal/domain"
)

// MemoryStore keeps users and incidents in process memory.
// It backs the service when no Postgres DSN is configured, and the tests.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]domain.User
	emails    map[string]string
	incidents map[string]domain.Incident
	// seq preserves insertion order for incidents sharing a timestamp.
	seq  map[string]int
	next int

	userRepo     *memoryUsers
	incidentRepo *memoryIncidents
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		users:     make(map[string]domain.User),
		emails:    make(map[string]string),
		incidents: make(map[string]domain.Incident),
		seq:       make(map[string]int),
	}
	s.userRepo = &memoryUsers{s: s}
	s.incidentRepo = &memoryIncidents{s: s}
	return s
}

// Users returns the user repository view of the store.
func (s *MemoryStore) Users() UserRepository { return s.userRepo }

// Incidents returns the incident repository view of the store.
func (s *MemoryStore) Incidents() IncidentRepository { return s.incidentRepo }

type memoryUsers struct{ s *MemoryStore }

func (r *memoryUsers) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.emails[user.Email]; taken {
		return ErrDuplicateEmail
	}
	r.s.users[user.ID] = *user
	r.s.emails[user.Email] = user.ID
	return nil
}

func (r *memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.emails[email]
	if !ok {
		return nil, ErrNotFound
	}
	user := r.s.users[id]
	return &user, nil
}

func (r *memoryUsers) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]domain.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

type memoryIncidents struct{ s *MemoryStore }

func (r *memoryIncidents) Create(_ context.Context, incident *domain.Incident) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if incident.UserID != nil {
		if _, ok := r.s.users[*incident.UserID]; !ok {
			return ErrUnknownUser
		}
	}
	stored := *incident
	stored.UserID = cloneString(incident.UserID)
	stored.AssignedTo = nil
	r.s.incidents[stored.ID] = stored
	r.s.next++
	r.s.seq[stored.ID] = r.s.next

	*incident = r.s.joined(stored)
	return nil
}

func (r *memoryIncidents) GetByID(_ context.Context, id string) (*domain.Incident, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stored, ok := r.s.incidents[id]
	if !ok {
		return nil, ErrNotFound
	}
	incident := r.s.joined(stored)
	return &incident, nil
}

func (r *memoryIncidents) List(_ context.Context) ([]domain.Incident, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]domain.Incident, 0, len(r.s.incidents))
	for _, stored := range r.s.incidents {
		result = append(result, r.s.joined(stored))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return r.s.seq[result[i].ID] > r.s.seq[result[j].ID]
	})
	return result, nil
}

func (r *memoryIncidents) Update(_ context.Context, id string, patch domain.IncidentPatch) (*domain.Incident, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.incidents[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Assignee.Set && patch.Assignee.UserID != nil {
		if _, ok := r.s.users[*patch.Assignee.UserID]; !ok {
			return nil, ErrUnknownUser
		}
	}
	if patch.Status != nil {
		stored.Status = *patch.Status
	}
	if patch.Assignee.Set {
		stored.UserID = cloneString(patch.Assignee.UserID)
	}
	r.s.incidents[id] = stored
	incident := r.s.joined(stored)
	return &incident, nil
}

// joined must be called with the lock held.
func (s *MemoryStore) joined(stored domain.Incident) domain.Incident {
	stored.UserID = cloneString(stored.UserID)
	stored.AssignedTo = nil
	if stored.UserID != nil {
		if user, ok := s.users[*stored.UserID]; ok {
			stored.AssignedTo = &user
		}
	}
	return stored
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
