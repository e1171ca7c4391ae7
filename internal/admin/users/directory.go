package users

import (
	"context"
	"strings"

	"github.com/meridian-crm/meridian/internal/authz"
)

// Directory adapts the account table to the login flow's identity lookup.
// Inactive accounts do not resolve: deactivation cuts off new tokens even
// though already-issued ones live until expiry or revocation.
type Directory struct {
	repo Repository
}

// NewDirectory constructs a Directory over the given repository.
func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo}
}

// FindByEmail resolves an account email to a principal.
func (d *Directory) FindByEmail(ctx context.Context, email string) (*authz.Principal, error) {
	u, err := d.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrNotFound
	}
	return &authz.Principal{ID: u.ID, Role: u.Role}, nil
}
