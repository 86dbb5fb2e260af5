package ports

import (
	"context"

	"github.com/tallercharli/accounts-api/internal/core/domain"
)

// CreateUserInput carries the profile fields for user creation. Role is only
// honoured by CreateByAdmin; Create always assigns CLIENT.
type CreateUserInput struct {
	FirstName string
	LastName  string
	DNI       string
	Email     string
	Phone     string
	Role      string
}

// UserService exposes user CRUD with soft-delete semantics.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	CreateByAdmin(ctx context.Context, in CreateUserInput) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindOne(ctx context.Context, id int64) (*domain.User, error)
	FindAll(ctx context.Context, filter domain.UserFilter) (*domain.UserPage, error)
	FindDeleted(ctx context.Context, filter domain.UserFilter) (*domain.UserPage, error)
	Update(ctx context.Context, id int64, fields domain.UserUpdate) (*domain.User, error)
	SoftDelete(ctx context.Context, id int64) (*domain.User, error)
	Recover(ctx context.Context, id int64) (*domain.User, error)
}
