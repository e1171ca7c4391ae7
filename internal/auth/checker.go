package auth

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/meridian-crm/meridian/internal/authz"
)

// ErrInvalidCredentials indicates a failed login. Unknown account, wrong
// secret and inactive account all collapse to this one error so the
// response never reveals which part failed.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// CredentialChecker resolves a login to a principal. Implementations own
// credential verification; the token flow never sees a password.
type CredentialChecker interface {
	Check(ctx context.Context, email, secret string) (*authz.Principal, error)
}

// IdentityDirectory looks up the principal behind an account email.
type IdentityDirectory interface {
	FindByEmail(ctx context.Context, email string) (*authz.Principal, error)
}

// GatewayChecker trusts an upstream identity gateway: the gateway
// authenticates the human and forwards the login together with a shared
// per-deployment secret, so checking here is that secret plus directory
// membership. No password ever reaches this process.
type GatewayChecker struct {
	secret    []byte
	directory IdentityDirectory
}

// NewGatewayChecker constructs a GatewayChecker.
func NewGatewayChecker(secret string, directory IdentityDirectory) *GatewayChecker {
	return &GatewayChecker{secret: []byte(secret), directory: directory}
}

// Check validates the gateway secret and resolves the account.
func (c *GatewayChecker) Check(ctx context.Context, email, secret string) (*authz.Principal, error) {
	if len(c.secret) == 0 || subtle.ConstantTimeCompare(c.secret, []byte(secret)) != 1 {
		return nil, ErrInvalidCredentials
	}
	p, err := c.directory.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return p, nil
}
