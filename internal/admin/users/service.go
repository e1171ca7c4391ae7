package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meridian-crm/meridian/internal/admin/roles"
)

var ErrUnknownRole = errors.New("unknown role")

// Service manages the account directory. Role assignment validates the
// target role against the roles table so an account can never point at a
// role the matrix knows nothing about.
type Service struct {
	repo  Repository
	roles roles.Repository
}

func NewService(repo Repository, roleRepo roles.Repository) *Service {
	return &Service{repo: repo, roles: roleRepo}
}

func (s *Service) List(ctx context.Context, req ListUsersRequest) ([]User, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*req.Role))
		if _, err := s.roles.GetByName(ctx, role); err != nil {
			if errors.Is(err, roles.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownRole, role)
			}
			return nil, err
		}
		updates["role"] = role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	return s.repo.Get(ctx, id)
}
