package dto

import (
	"time"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// SignupRequest payload.
type SignupRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
	Surname  *string `json:"surname"`
}

// LoginRequest carries form-encoded credentials; the username field accepts
// either a username or an email.
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// TokenResponse payload.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UpdateUserRequest carries a sparse profile edit; absent fields stay
// unchanged.
type UpdateUserRequest struct {
	Name     *string             `json:"name"`
	Surname  *string             `json:"surname"`
	Username *string             `json:"username"`
	Email    *string             `json:"email"`
	Access   *domain.AccessLevel `json:"access"`
}

// IDListRequest carries the target ids of a batch membership operation.
type IDListRequest struct {
	IDs []int64 `json:"ids"`
}

// UserResponse payload; never exposes the password hash.
type UserResponse struct {
	ID        int64              `json:"id"`
	Username  string             `json:"username"`
	Email     string             `json:"email"`
	Access    domain.AccessLevel `json:"access"`
	Name      *string            `json:"name"`
	Surname   *string            `json:"surname"`
	CreatedAt time.Time          `json:"created_at"`
}

// UserDetailResponse is the single-user aggregate.
type UserDetailResponse struct {
	User     UserResponse      `json:"user"`
	Tickets  []TicketResponse  `json:"tickets"`
	Projects []ProjectResponse `json:"projects"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Access:    user.Access,
		Name:      user.Name,
		Surname:   user.Surname,
		CreatedAt: user.CreatedAt,
	}
}

// NewUserResponses maps a slice of domain users.
func NewUserResponses(users []domain.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for i := range users {
		result = append(result, NewUserResponse(&users[i]))
	}
	return result
}
