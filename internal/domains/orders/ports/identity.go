package ports

import "context"

// Verification is the identity authority's answer for a token.
type Verification struct {
	Valid  bool
	UserID int64
}

// IdentityAuthority resolves bearer tokens. Implementations call out on every
// request; results are never cached.
type IdentityAuthority interface {
	VerifyToken(ctx context.Context, token string) (Verification, error)
}
