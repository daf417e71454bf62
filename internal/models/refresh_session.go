package models

import "time"

// RefreshSession is one link of a rotation chain. The raw refresh value is
// never stored; TokenHash is its SHA-256 digest. When the session is rotated
// the row is revoked and ReplacedByTokenHash points at the successor's hash.
type RefreshSession struct {
	ID                  int64      `json:"id"`
	UserID              int64      `json:"user_id"`
	TokenHash           string     `json:"token_hash"`
	ExpiresAt           time.Time  `json:"expires_at"`
	CreatedAt           time.Time  `json:"created_at"`
	RevokedAt           *time.Time `json:"revoked_at,omitempty"`
	ReplacedByTokenHash *string    `json:"replaced_by_token_hash,omitempty"`
}

func (s *RefreshSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
