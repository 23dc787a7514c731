package dto

import "github.com/spec-kit/incident-panel/internal/domain"

// UserResponse is the public JSON shape of a user.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewUserResponse maps a user to its response shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{ID: user.ID, Name: user.Name, Email: user.Email}
}

// NewUserList maps users, never returning a nil slice.
func NewUserList(users []domain.User) []UserResponse {
	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, NewUserResponse(&users[i]))
	}
	return items
}

// Domain converts the response back into a domain user.
func (r UserResponse) Domain() domain.User {
	return domain.User{ID: r.ID, Name: r.Name, Email: r.Email}
}

// CreateUserRequest is the body sent to POST /users.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
