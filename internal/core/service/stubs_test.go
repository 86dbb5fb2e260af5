package service

import (
	"context"
	"sort"
	"time"

	"github.com/tallercharli/accounts-api/internal/core/domain"
)

// fakeUserRepo is an in-memory UserRepository honouring the store's
// contract: global uniqueness on email/dni, active-only reads, soft delete.
type fakeUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.DeletedAt != nil {
		ts := *u.DeletedAt
		clone.DeletedAt = &ts
	}
	return &clone
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
		if existing.DNI == user.DNI {
			return nil, domain.ErrDNITaken
		}
	}
	copy := cloneUser(user)
	copy.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	copy.CreatedAt = now
	copy.UpdatedAt = now
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.Active() {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok || !u.Active() {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *fakeUserRepo) FindAnyByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *fakeUserRepo) List(_ context.Context, filter domain.UserFilter) (*domain.UserPage, error) {
	return r.page(filter, true), nil
}

func (r *fakeUserRepo) ListDeleted(_ context.Context, filter domain.UserFilter) (*domain.UserPage, error) {
	return r.page(filter, false), nil
}

func (r *fakeUserRepo) page(filter domain.UserFilter, active bool) *domain.UserPage {
	filter.Normalize()

	var matched []*domain.User
	for _, u := range r.users {
		if u.Active() == active {
			matched = append(matched, cloneUser(u))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}

	return &domain.UserPage{
		Users:      matched[start:end],
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}
}

func (r *fakeUserRepo) Update(_ context.Context, id int64, fields domain.UserUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if fields.FirstName != nil {
		u.FirstName = *fields.FirstName
	}
	if fields.LastName != nil {
		u.LastName = *fields.LastName
	}
	if fields.DNI != nil {
		u.DNI = *fields.DNI
	}
	if fields.Email != nil {
		u.Email = *fields.Email
	}
	if fields.Phone != nil {
		u.Phone = *fields.Phone
	}
	if fields.Role != nil {
		u.Role = *fields.Role
	}
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *fakeUserRepo) SoftDelete(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	now := time.Now().UTC()
	u.DeletedAt = &now
	return cloneUser(u), nil
}

func (r *fakeUserRepo) Restore(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.DeletedAt = nil
	return cloneUser(u), nil
}

// stubIdentityProvider lets each test script the provider's behaviour.
type stubIdentityProvider struct {
	signInFn  func(ctx context.Context, email, password string) (*domain.Session, error)
	signUpFn  func(ctx context.Context, email, password string) (*domain.RemoteIdentity, error)
	verifyFn  func(ctx context.Context, token string) (*domain.RemoteIdentity, error)
	refreshFn func(ctx context.Context, refreshToken string) (*domain.Session, error)
	signOutFn func(ctx context.Context, accessToken string) error
}

func (s *stubIdentityProvider) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	return s.signInFn(ctx, email, password)
}

func (s *stubIdentityProvider) SignUp(ctx context.Context, email, password string) (*domain.RemoteIdentity, error) {
	return s.signUpFn(ctx, email, password)
}

func (s *stubIdentityProvider) VerifyToken(ctx context.Context, token string) (*domain.RemoteIdentity, error) {
	return s.verifyFn(ctx, token)
}

func (s *stubIdentityProvider) RefreshSession(ctx context.Context, refreshToken string) (*domain.Session, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubIdentityProvider) SignOut(ctx context.Context, accessToken string) error {
	return s.signOutFn(ctx, accessToken)
}
