package ports

import (
	"context"

	"github.com/tallercharli/accounts-api/internal/core/domain"
)

// UserRepository defines persistence for user records. All read operations
// except FindAnyByID and ListDeleted see active rows only.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// FindAnyByID also returns soft-deleted rows; used by recover.
	FindAnyByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, filter domain.UserFilter) (*domain.UserPage, error)
	ListDeleted(ctx context.Context, filter domain.UserFilter) (*domain.UserPage, error)
	Update(ctx context.Context, id int64, fields domain.UserUpdate) (*domain.User, error)
	SoftDelete(ctx context.Context, id int64) (*domain.User, error)
	Restore(ctx context.Context, id int64) (*domain.User, error)
}
