package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/tallercharli/accounts-api/internal/core/domain"
	"github.com/tallercharli/accounts-api/internal/core/ports"
)

// AuthService composes the external identity provider and the local user
// store. Each flow is a short sequential pipeline with no shared mutable
// state; failures from collaborators surface immediately, never retried.
type AuthService struct {
	provider ports.IdentityProvider
	users    ports.UserRepository
	log      zerolog.Logger
}

func NewAuthService(provider ports.IdentityProvider, users ports.UserRepository, log zerolog.Logger) *AuthService {
	return &AuthService{provider: provider, users: users, log: log}
}

// Login signs the credentials in with the provider, then resolves the local
// active account for the same email. A provider identity without a local
// record is not a valid login.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	session, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, err
		}
		s.log.Warn().Err(err).Str("email", email).Msg("provider sign-in failed")
		return nil, domain.ErrSignIn
	}
	if session == nil || session.AccessToken == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrLocalUserNotFound
		}
		s.log.Error().Err(err).Str("email", email).Msg("local lookup failed during login")
		return nil, domain.ErrSignIn
	}

	return &ports.LoginResult{
		User:         user,
		Token:        session.AccessToken,
		RefreshToken: session.RefreshToken,
	}, nil
}

// Register creates the identity with the provider first, then the local
// profile with role forced to CLIENT. The two writes are not atomic: if the
// local insert fails the provider identity is left behind. That orphan is
// logged and accepted; the anon-scoped provider client has no delete
// operation to compensate with.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	identity, err := s.provider.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		s.log.Warn().Err(err).Str("email", in.Email).Msg("provider sign-up failed")
		return nil, domain.ErrSignUp
	}
	if identity == nil {
		return nil, domain.ErrSignUp
	}

	user, err := s.users.Create(ctx, &domain.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		DNI:       in.DNI,
		Email:     in.Email,
		Phone:     in.Phone,
		Role:      domain.RoleClient,
	})
	if err != nil {
		s.log.Warn().Err(err).
			Str("email", in.Email).
			Str("provider_id", identity.ID).
			Msg("local profile creation failed, provider identity orphaned")
		if errors.Is(err, domain.ErrEmailTaken) || errors.Is(err, domain.ErrDNITaken) {
			return nil, err
		}
		return nil, domain.ErrSignUp
	}

	return user, nil
}

// RefreshToken exchanges the refresh token for a new session, verifies the
// new access token, and resolves the local account for the verified email.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*ports.LoginResult, error) {
	session, err := s.provider.RefreshSession(ctx, refreshToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("provider refresh failed")
		return nil, domain.ErrInvalidRefreshToken
	}
	if session == nil || session.AccessToken == "" {
		return nil, domain.ErrInvalidRefreshToken
	}

	identity, err := s.provider.VerifyToken(ctx, session.AccessToken)
	if err != nil || identity == nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.FindByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrLocalUserNotFound
		}
		s.log.Error().Err(err).Str("email", identity.Email).Msg("local lookup failed during refresh")
		return nil, domain.ErrSignIn
	}

	return &ports.LoginResult{
		User:         user,
		Token:        session.AccessToken,
		RefreshToken: session.RefreshToken,
	}, nil
}

// Logout revokes the session with the provider. There is no local session
// state to invalidate.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	if err := s.provider.SignOut(ctx, accessToken); err != nil {
		s.log.Warn().Err(err).Msg("provider sign-out failed")
		return domain.ErrSignOut
	}
	return nil
}
