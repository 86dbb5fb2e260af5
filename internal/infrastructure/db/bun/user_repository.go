package bundb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/tallercharli/accounts-api/internal/core/domain"
)

// UserRepository persists users with bun. Soft deletion rides on the model's
// soft_delete tag: plain selects and deletes see active rows only.
type UserRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.db.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, mapUniqueViolation(err)
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user := new(domain.User)
	err := r.db.NewSelect().Model(user).Where("u.email = ?", email).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	user := new(domain.User)
	err := r.db.NewSelect().Model(user).Where("u.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

// FindAnyByID returns the row regardless of deletion state.
func (r *UserRepository) FindAnyByID(ctx context.Context, id int64) (*domain.User, error) {
	user := new(domain.User)
	err := r.db.NewSelect().Model(user).
		Where("u.id = ?", id).
		WhereAllWithDeleted().
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context, filter domain.UserFilter) (*domain.UserPage, error) {
	filter.Normalize()

	var users []*domain.User
	q := applyFilter(r.db.NewSelect().Model(&users), filter).
		OrderExpr("u.created_at DESC")

	return r.paginate(ctx, q, &users, filter)
}

// ListDeleted mirrors List over soft-deleted rows, ordered by deletion time.
func (r *UserRepository) ListDeleted(ctx context.Context, filter domain.UserFilter) (*domain.UserPage, error) {
	filter.Normalize()

	var users []*domain.User
	q := applyFilter(r.db.NewSelect().Model(&users).WhereDeleted(), filter).
		OrderExpr("u.deleted_at DESC")

	return r.paginate(ctx, q, &users, filter)
}

func (r *UserRepository) paginate(ctx context.Context, q *bun.SelectQuery, users *[]*domain.User, filter domain.UserFilter) (*domain.UserPage, error) {
	total, err := q.
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		ScanAndCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return &domain.UserPage{
		Users:      *users,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, fields domain.UserUpdate) (*domain.User, error) {
	q := r.db.NewUpdate().Model((*domain.User)(nil)).Where("id = ?", id)

	if fields.FirstName != nil {
		q = q.Set("first_name = ?", *fields.FirstName)
	}
	if fields.LastName != nil {
		q = q.Set("last_name = ?", *fields.LastName)
	}
	if fields.DNI != nil {
		q = q.Set("dni = ?", *fields.DNI)
	}
	if fields.Email != nil {
		q = q.Set("email = ?", *fields.Email)
	}
	if fields.Phone != nil {
		q = q.Set("phone = ?", *fields.Phone)
	}
	if fields.Role != nil {
		q = q.Set("role = ?", *fields.Role)
	}
	q = q.Set("updated_at = ?", time.Now().UTC())

	if _, err := q.Exec(ctx); err != nil {
		return nil, mapUniqueViolation(err)
	}
	return r.FindByID(ctx, id)
}

// SoftDelete sets the deletion timestamp. bun turns the delete into an
// UPDATE on the soft_delete column, touching active rows only.
func (r *UserRepository) SoftDelete(ctx context.Context, id int64) (*domain.User, error) {
	if _, err := r.db.NewDelete().
		Model((*domain.User)(nil)).
		Where("id = ?", id).
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("soft delete user: %w", err)
	}
	return r.FindAnyByID(ctx, id)
}

// Restore clears the deletion timestamp on a soft-deleted row.
func (r *UserRepository) Restore(ctx context.Context, id int64) (*domain.User, error) {
	if _, err := r.db.NewUpdate().
		Model((*domain.User)(nil)).
		Set("deleted_at = NULL").
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		WhereAllWithDeleted().
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("restore user: %w", err)
	}
	return r.FindByID(ctx, id)
}

func applyFilter(q *bun.SelectQuery, f domain.UserFilter) *bun.SelectQuery {
	if f.FirstName != "" {
		q = q.Where("LOWER(u.first_name) LIKE ?", contains(strings.ToLower(f.FirstName)))
	}
	if f.LastName != "" {
		q = q.Where("LOWER(u.last_name) LIKE ?", contains(strings.ToLower(f.LastName)))
	}
	if f.Email != "" {
		q = q.Where("LOWER(u.email) LIKE ?", contains(strings.ToLower(f.Email)))
	}
	if f.DNI != "" {
		q = q.Where("u.dni LIKE ?", contains(f.DNI))
	}
	if f.Phone != "" {
		q = q.Where("u.phone LIKE ?", contains(f.Phone))
	}
	if f.Role != "" {
		q = q.Where("u.role = ?", f.Role)
	}
	return q
}

func contains(s string) string {
	return "%" + s + "%"
}

// mapUniqueViolation translates a unique-constraint failure into the conflict
// naming the offending field. The driver reports the violated column in the
// error text (e.g. "UNIQUE constraint failed: users.email").
func mapUniqueViolation(err error) error {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "unique") && !strings.Contains(msg, "duplicate") {
		return fmt.Errorf("store user: %w", err)
	}
	if strings.Contains(msg, "dni") {
		return domain.ErrDNITaken
	}
	return domain.ErrEmailTaken
}
