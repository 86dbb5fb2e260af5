package domain

// RemoteIdentity is the identity record returned by the external provider
// after a successful token verification.
type RemoteIdentity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is a token pair issued by the external provider.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthenticatedIdentity is the request-scoped bundle built by the
// authentication middleware: the verified provider identity, the resolved
// local record, and denormalized fields for fast access. It is attached to
// the request context and discarded at request end.
type AuthenticatedIdentity struct {
	Remote RemoteIdentity
	User   *User
	ID     int64
	Email  string
	Role   string
}
