package ports

import (
	"context"

	"github.com/tallercharli/accounts-api/internal/core/domain"
)

// LoginResult is returned by Login and RefreshToken: the resolved local user
// plus the provider-issued token pair.
type LoginResult struct {
	User         *domain.User `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
}

// RegisterInput is the public self-registration payload. Role is always
// forced to CLIENT by the service.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	DNI       string
	Phone     string
}

// AuthService orchestrates the identity provider and the local user store.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (*LoginResult, error)
	Logout(ctx context.Context, accessToken string) error
}
