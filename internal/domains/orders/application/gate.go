package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/ports"
)

// Gate authorizes callers against the identity authority. Create, update and
// delete authorize a caller-supplied claim; lookups authorize the stored
// owner of the order. The two entry points are kept separate on purpose.
type Gate struct {
	authority ports.IdentityAuthority
}

func NewGate(authority ports.IdentityAuthority) *Gate {
	return &Gate{authority: authority}
}

// Identify resolves token to the authority-confirmed user id.
func (g *Gate) Identify(ctx context.Context, token string) (int64, error) {
	if g == nil || g.authority == nil {
		return 0, domain.WrapError(domain.KindUserNotAuthenticated, errors.New("identity authority not configured"))
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, domain.ErrUserNotAuthenticated
	}
	verification, err := g.authority.VerifyToken(ctx, token)
	if err != nil {
		return 0, domain.WrapError(domain.KindUserNotAuthenticated, err)
	}
	if !verification.Valid {
		return 0, domain.ErrUserNotAuthenticated
	}
	return verification.UserID, nil
}

// AuthorizeClaim succeeds only when token belongs to claimedUserID.
func (g *Gate) AuthorizeClaim(ctx context.Context, token string, claimedUserID int64) (int64, error) {
	userID, err := g.Identify(ctx, token)
	if err != nil {
		return 0, err
	}
	if userID != claimedUserID {
		return 0, domain.WrapError(domain.KindUserNotAuthenticated,
			fmt.Errorf("token user %d does not match claimed user %d", userID, claimedUserID))
	}
	return userID, nil
}

// AuthorizeOwner succeeds only when token belongs to the order's owner.
func (g *Gate) AuthorizeOwner(ctx context.Context, token string, order *domain.Order) (int64, error) {
	if order == nil {
		return 0, domain.ErrOrderNotFound
	}
	return g.AuthorizeClaim(ctx, token, order.UserID())
}
