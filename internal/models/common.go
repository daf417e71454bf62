package models

const (
	MwIdentityKey = "identity"

	RefreshCookieName = "refresh_token"
	RefreshCookiePath = "/api/auth/refresh"
)

// Identity is the authenticated principal attached to the request context
// by the auth middleware. It mirrors the access-token claims; there is no
// store lookup on the request path.
type Identity struct {
	ID       int64  `json:"id"`
	Role     Role   `json:"role"`
	FullName string `json:"fullName"`
}
