package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meridian-crm/meridian/internal/authz"
)

var ErrUnknownGrant = errors.New("unknown module or action")

// Service manages roles and their grants. Grant mutations rebuild the
// in-memory permission matrix so running requests pick up the change
// without a restart.
type Service struct {
	repo     Repository
	resolver *authz.Resolver
}

func NewService(repo Repository, resolver *authz.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

func (s *Service) List(ctx context.Context) ([]Role, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Role, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateRoleRequest) (*Role, error) {
	role := Role{
		Name:        strings.ToLower(strings.TrimSpace(req.Name)),
		Description: strings.TrimSpace(req.Description),
	}
	if role.Name == "" {
		return nil, fmt.Errorf("role name required")
	}

	id, err := s.repo.Create(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRoleRequest) (*Role, error) {
	updates := make(map[string]any)
	if req.Name != nil {
		name := strings.ToLower(strings.TrimSpace(*req.Name))
		if name == "" {
			return nil, fmt.Errorf("role name required")
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update role: %w", err)
		}
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a role and its grants, then rebuilds the matrix so the
// deleted role's grants stop resolving immediately.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.resolver.Reload(ctx); err != nil {
		return fmt.Errorf("reload permission matrix: %w", err)
	}
	return nil
}

func (s *Service) Grants(ctx context.Context, id int64) ([]authz.Grant, error) {
	role, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	grants, err := s.repo.ListGrants(ctx, role.Name)
	if err != nil {
		return nil, err
	}
	if grants == nil {
		grants = []authz.Grant{}
	}
	return grants, nil
}

// ReplaceGrants swaps the role's grant set and rebuilds the matrix. Every
// grant must name a known module and action; an unknown pair rejects the
// whole request so a typo cannot silently grant nothing.
func (s *Service) ReplaceGrants(ctx context.Context, id int64, req ReplaceGrantsRequest) ([]authz.Grant, error) {
	role, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	known := func(list []string, v string) bool {
		for _, s := range list {
			if s == v {
				return true
			}
		}
		return false
	}

	grants := make([]authz.Grant, 0, len(req.Grants))
	for _, in := range req.Grants {
		module := strings.ToLower(strings.TrimSpace(in.Module))
		action := strings.ToLower(strings.TrimSpace(in.Action))
		if !known(authz.Modules(), module) || !known(authz.Actions(), action) {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownGrant, module, action)
		}
		grants = append(grants, authz.Grant{Role: role.Name, Module: module, Action: action})
	}

	if err := s.repo.ReplaceGrants(ctx, role.Name, grants); err != nil {
		return nil, fmt.Errorf("replace grants: %w", err)
	}
	if err := s.resolver.Reload(ctx); err != nil {
		return nil, fmt.Errorf("reload permission matrix: %w", err)
	}
	return grants, nil
}
