package ports

import (
	"context"

	"github.com/tallercharli/accounts-api/internal/core/domain"
)

// IdentityProvider is the external service of record for credential
// verification and token issuance. Every call is a network round-trip; no
// retries are performed at this layer.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignUp(ctx context.Context, email, password string) (*domain.RemoteIdentity, error)
	VerifyToken(ctx context.Context, accessToken string) (*domain.RemoteIdentity, error)
	RefreshSession(ctx context.Context, refreshToken string) (*domain.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}
