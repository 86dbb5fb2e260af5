package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tallercharli/accounts-api/internal/core/domain"
	"github.com/tallercharli/accounts-api/internal/core/ports"
)

func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected credentials: %s / %s", email, password)
			}
			return &ports.LoginResult{
				User:         &domain.User{ID: 1, Email: email, Role: domain.RoleClient},
				Token:        "at-1",
				RefreshToken: "rt-1",
			}, nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newRequestContext(t, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"secret"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			Token        string `json:"token"`
			RefreshToken string `json:"refreshToken"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success || body.Data.Token != "at-1" || body.Data.RefreshToken != "rt-1" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAuthHandler_Login_ValidationFailure(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	cases := []string{
		`{"password":"secret"}`,
		`{"email":"not-an-email","password":"secret"}`,
		`{"email":"alice@example.com"}`,
	}
	for _, body := range cases {
		c, _ := newRequestContext(t, http.MethodPost, "/auth/login", body)

		err := h.Login(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %v", body, err)
		}
	}
}

func TestAuthHandler_Login_ServiceError(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(svc)

	c, _ := newRequestContext(t, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	svc := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Email != "new@example.com" || in.DNI != "12345678" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: 9, Email: in.Email, Role: domain.RoleClient}, nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newRequestContext(t, http.MethodPost, "/auth/register",
		`{"first_name":"New","last_name":"User","dni":"12345678","email":"new@example.com","password":"secret123"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newRequestContext(t, http.MethodPost, "/auth/register",
		`{"first_name":"New","last_name":"User","dni":"12345678","email":"new@example.com","password":"123"}`)

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %v", err)
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	svc := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	h := NewAuthHandler(svc)

	c, _ := newRequestContext(t, http.MethodPost, "/auth/register",
		`{"first_name":"New","last_name":"User","dni":"12345678","email":"dup@example.com","password":"secret123"}`)

	if err := h.Register(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	svc := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*ports.LoginResult, error) {
			if refreshToken != "rt-old" {
				t.Fatalf("unexpected refresh token: %s", refreshToken)
			}
			return &ports.LoginResult{Token: "at-new", RefreshToken: "rt-new"}, nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newRequestContext(t, http.MethodPost, "/auth/refresh",
		`{"refreshToken":"rt-old"}`)

	if err := h.Refresh(c); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Refresh_MissingToken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newRequestContext(t, http.MethodPost, "/auth/refresh", `{}`)

	err := h.Refresh(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	svc := &stubAuthService{
		logoutFn: func(ctx context.Context, accessToken string) error {
			if accessToken != "at-1" {
				t.Fatalf("unexpected token: %s", accessToken)
			}
			return nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newRequestContext(t, http.MethodPost, "/auth/logout", "")
	c.Request().Header.Set("Authorization", "Bearer at-1")

	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout_NoToken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newRequestContext(t, http.MethodPost, "/auth/logout", "")

	if err := h.Logout(c); !errors.Is(err, domain.ErrTokenRequired) {
		t.Fatalf("expected ErrTokenRequired, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newRequestContext(t, http.MethodGet, "/auth/me", "")
	setIdentity(c, domain.AuthenticatedIdentity{
		User: &domain.User{ID: 3, Email: "alice@example.com", Role: domain.RoleClient},
		ID:   3, Email: "alice@example.com", Role: domain.RoleClient,
	})

	if err := h.Me(c); err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Data domain.User `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.ID != 3 || body.Data.Email != "alice@example.com" {
		t.Fatalf("unexpected body: %+v", body.Data)
	}
}

func TestAuthHandler_Me_NoIdentity(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newRequestContext(t, http.MethodGet, "/auth/me", "")

	if err := h.Me(c); !errors.Is(err, domain.ErrTokenRequired) {
		t.Fatalf("expected ErrTokenRequired, got %v", err)
	}
}
