package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tallercharli/accounts-api/internal/core/domain"
	"github.com/tallercharli/accounts-api/internal/core/ports"
)

// UserService owns user lifecycle rules on top of the repository: role
// assignment on creation, active-existence checks before mutation, and the
// recover-only-if-deleted rule.
type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// Create inserts a user with role forced to CLIENT, regardless of input.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	user, err := s.repo.Create(ctx, &domain.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		DNI:       in.DNI,
		Email:     in.Email,
		Phone:     in.Phone,
		Role:      domain.RoleClient,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("client user created")
	return user, nil
}

// CreateByAdmin inserts a user with the role chosen by the caller.
func (s *UserService) CreateByAdmin(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if !domain.ValidRole(in.Role) {
		return nil, domain.ErrForbidden
	}
	user, err := s.repo.Create(ctx, &domain.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		DNI:       in.DNI,
		Email:     in.Email,
		Phone:     in.Phone,
		Role:      in.Role,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("user created by admin")
	return user, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *UserService) FindOne(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) FindAll(ctx context.Context, filter domain.UserFilter) (*domain.UserPage, error) {
	return s.repo.List(ctx, filter)
}

func (s *UserService) FindDeleted(ctx context.Context, filter domain.UserFilter) (*domain.UserPage, error) {
	return s.repo.ListDeleted(ctx, filter)
}

// Update applies a partial update. The target must exist and be active, so
// updating a deleted or missing id yields ErrUserNotFound.
func (s *UserService) Update(ctx context.Context, id int64, fields domain.UserUpdate) (*domain.User, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if fields.Role != nil && !domain.ValidRole(*fields.Role) {
		return nil, domain.ErrForbidden
	}
	user, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", id).Msg("user updated")
	return user, nil
}

// SoftDelete marks an active user as deleted.
func (s *UserService) SoftDelete(ctx context.Context, id int64) (*domain.User, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	user, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", id).Msg("user soft-deleted")
	return user, nil
}

// Recover restores a soft-deleted user. The record must exist and currently
// be deleted; recovering an active record is a bad request.
func (s *UserService) Recover(ctx context.Context, id int64) (*domain.User, error) {
	existing, err := s.repo.FindAnyByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Active() {
		return nil, domain.ErrUserNotDeleted
	}
	user, err := s.repo.Restore(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", id).Msg("user recovered")
	return user, nil
}
