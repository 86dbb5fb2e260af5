package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tallercharli/accounts-api/internal/api/metrics"
	"github.com/tallercharli/accounts-api/internal/core/domain"
	"github.com/tallercharli/accounts-api/internal/core/ports"
)

// identityKey is the context key the resolved identity is stored under.
const identityKey = "identity"

// Authenticate gates protected routes: it extracts the bearer token, verifies
// it against the identity provider, resolves the matching active local user,
// and attaches the AuthenticatedIdentity to the request context. Every
// failure is terminal for the request.
//
// cache may be nil; when present it short-circuits the provider call for
// tokens verified recently. The local lookup always runs, so a soft-deleted
// account is rejected even on a cache hit.
func Authenticate(provider ports.IdentityProvider, users ports.UserRepository, cache ports.TokenCache, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearer(c.Request().Header.Get("Authorization"))
			if token == "" {
				return domain.ErrTokenRequired
			}

			ctx := c.Request().Context()

			remote, err := resolveRemote(ctx, token, provider, cache, log)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return domain.ErrInvalidToken
			}

			user, err := users.FindByEmail(ctx, remote.Email)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("no_local_user").Inc()
				return domain.ErrLocalUserNotFound
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.Set(identityKey, domain.AuthenticatedIdentity{
				Remote: *remote,
				User:   user,
				ID:     user.ID,
				Email:  user.Email,
				Role:   user.Role,
			})

			return next(c)
		}
	}
}

// Identity returns the AuthenticatedIdentity attached by Authenticate. The
// second return is false when the middleware did not run on this route.
func Identity(c echo.Context) (domain.AuthenticatedIdentity, bool) {
	ident, ok := c.Get(identityKey).(domain.AuthenticatedIdentity)
	return ident, ok
}

// extractBearer returns the token from an "Authorization: Bearer <token>"
// header, or "" for any other scheme or a missing header.
func extractBearer(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func resolveRemote(ctx context.Context, token string, provider ports.IdentityProvider, cache ports.TokenCache, log zerolog.Logger) (*domain.RemoteIdentity, error) {
	if cache != nil {
		email, err := cache.Get(ctx, token)
		if err != nil {
			log.Warn().Err(err).Msg("token cache unavailable, falling back to provider")
		} else if email != "" {
			metrics.TokenCacheTotal.WithLabelValues("hit").Inc()
			return &domain.RemoteIdentity{Email: email}, nil
		} else {
			metrics.TokenCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	remote, err := provider.VerifyToken(ctx, token)
	if err != nil || remote == nil {
		return nil, domain.ErrInvalidToken
	}

	if cache != nil {
		if err := cache.Set(ctx, token, remote.Email, tokenTTL(token)); err != nil {
			log.Warn().Err(err).Msg("token cache write failed")
		}
	}
	return remote, nil
}

// tokenTTL derives a cache lifetime from the token's exp claim so a cached
// entry never outlives the token. The claim set is read unverified; the
// provider already proved the token valid.
func tokenTTL(token string) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	return time.Until(exp.Time)
}
