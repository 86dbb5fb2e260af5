package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tallercharli/accounts-api/internal/core/domain"
	"github.com/tallercharli/accounts-api/internal/core/ports"
)

// stubAuthService scripts each auth operation per test.
type stubAuthService struct {
	loginFn    func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	refreshFn  func(ctx context.Context, refreshToken string) (*ports.LoginResult, error)
	logoutFn   func(ctx context.Context, accessToken string) error
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) RefreshToken(ctx context.Context, refreshToken string) (*ports.LoginResult, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Logout(ctx context.Context, accessToken string) error {
	return s.logoutFn(ctx, accessToken)
}

// stubUserService scripts each user operation per test. Unscripted methods
// fail loudly.
type stubUserService struct {
	createFn        func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	createByAdminFn func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	findOneFn       func(ctx context.Context, id int64) (*domain.User, error)
	findAllFn       func(ctx context.Context, filter domain.UserFilter) (*domain.UserPage, error)
	findDeletedFn   func(ctx context.Context, filter domain.UserFilter) (*domain.UserPage, error)
	updateFn        func(ctx context.Context, id int64, fields domain.UserUpdate) (*domain.User, error)
	softDeleteFn    func(ctx context.Context, id int64) (*domain.User, error)
	recoverFn       func(ctx context.Context, id int64) (*domain.User, error)
}

func (s *stubUserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) CreateByAdmin(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createByAdminFn(ctx, in)
}

func (s *stubUserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserService) FindOne(ctx context.Context, id int64) (*domain.User, error) {
	return s.findOneFn(ctx, id)
}

func (s *stubUserService) FindAll(ctx context.Context, filter domain.UserFilter) (*domain.UserPage, error) {
	return s.findAllFn(ctx, filter)
}

func (s *stubUserService) FindDeleted(ctx context.Context, filter domain.UserFilter) (*domain.UserPage, error) {
	return s.findDeletedFn(ctx, filter)
}

func (s *stubUserService) Update(ctx context.Context, id int64, fields domain.UserUpdate) (*domain.User, error) {
	return s.updateFn(ctx, id, fields)
}

func (s *stubUserService) SoftDelete(ctx context.Context, id int64) (*domain.User, error) {
	return s.softDeleteFn(ctx, id)
}

func (s *stubUserService) Recover(ctx context.Context, id int64) (*domain.User, error) {
	return s.recoverFn(ctx, id)
}

// newRequestContext builds an echo context with the validator wired, a JSON
// body, and a recorder for the response.
func newRequestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func setIdentity(c echo.Context, ident domain.AuthenticatedIdentity) {
	c.Set("identity", ident)
}
