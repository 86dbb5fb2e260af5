package domain

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	RoleAdmin  = "ADMIN"
	RoleClient = "CLIENT"
)

// ValidRole reports whether r is one of the two recognised roles.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleClient
}

// User is the sole persisted entity. A user is "active" while DeletedAt is
// nil; soft-deleted rows stay in the table so email/dni uniqueness holds
// across all records regardless of deletion state.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64      `bun:"id,pk,autoincrement" json:"id"`
	FirstName string     `bun:"first_name,notnull" json:"first_name"`
	LastName  string     `bun:"last_name,notnull" json:"last_name"`
	DNI       string     `bun:"dni,notnull,unique" json:"dni"`
	Email     string     `bun:"email,notnull,unique" json:"email"`
	Phone     string     `bun:"phone" json:"phone,omitempty"`
	Role      string     `bun:"role,notnull" json:"role"`
	CreatedAt time.Time  `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,notnull" json:"updated_at"`
	DeletedAt *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Active reports whether the record has not been soft-deleted.
func (u *User) Active() bool {
	return u.DeletedAt == nil
}

// UserFilter narrows user listings. Name and email matches are
// case-insensitive substrings; dni and phone are case-sensitive substrings;
// role is an exact match. Page and Limit fall back to 1 and 10.
type UserFilter struct {
	FirstName string
	LastName  string
	DNI       string
	Email     string
	Phone     string
	Role      string
	Page      int
	Limit     int
}

// Normalize applies pagination defaults.
func (f *UserFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
}

// UserUpdate carries a partial update; nil fields are left untouched.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	DNI       *string
	Email     *string
	Phone     *string
	Role      *string
}

// UserPage is one page of a filtered listing plus the pagination envelope.
type UserPage struct {
	Users      []*User `json:"users"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"totalPages"`
}
