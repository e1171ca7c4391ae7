package authz

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnauthenticated indicates no principal is attached to the request.
var ErrUnauthenticated = errors.New("authz: authentication required")

// Deny reasons carried by ForbiddenError. The module-level reason is
// deliberately uniform so a role with no standing in a module cannot probe
// which fine-grained actions exist.
const (
	ReasonNoModuleAccess         = "no module access"
	ReasonInsufficientPermission = "insufficient permission"
)

// ForbiddenError is an authorization denial for an authenticated principal.
// Module and action are named in the error: a coarse denial is not
// sensitive and aids legitimate debugging.
type ForbiddenError struct {
	Module string
	Action string
	Reason string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("authz: %s:%s forbidden: %s", e.Module, e.Action, e.Reason)
}

// Gate decides whether a principal may invoke an action on a module. It
// never mutates data; on allow, control simply continues.
type Gate struct {
	resolver *Resolver
}

// NewGate constructs a Gate over the resolver.
func NewGate(resolver *Resolver) *Gate {
	return &Gate{resolver: resolver}
}

// Check returns nil when the principal may invoke the action on the module,
// ErrUnauthenticated when no principal is attached, a *ForbiddenError when
// the role lacks module or action grants, and ErrPolicyUnavailable
// (wrapped) when the permission store itself is broken.
//
// The check is two-tier: module visibility first, then the specific action.
// The administrator bypass lives here, before any matrix lookup.
func (g *Gate) Check(ctx context.Context, p *Principal, module, action string) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if p.IsAdmin() {
		return nil
	}
	ok, err := g.resolver.HasModuleAccess(ctx, p.Role, module)
	if err != nil {
		return err
	}
	if !ok {
		return &ForbiddenError{Module: module, Action: action, Reason: ReasonNoModuleAccess}
	}
	ok, err = g.resolver.HasPermission(ctx, p.Role, module, action)
	if err != nil {
		return err
	}
	if !ok {
		return &ForbiddenError{Module: module, Action: action, Reason: ReasonInsufficientPermission}
	}
	return nil
}
