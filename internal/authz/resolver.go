package authz

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// ErrPolicyUnavailable indicates the permission store is unreachable or not
// yet provisioned. Callers must map it to a 5xx-class failure, never to an
// implicit allow.
var ErrPolicyUnavailable = errors.New("authz: policy unavailable")

// Resolver answers permission queries against the current matrix snapshot.
// It is a pure read-side component: the admin bypass is enforced at the
// gate, not here, so it stays auditable as a single visible rule.
type Resolver struct {
	store  MatrixStore
	group  singleflight.Group
	matrix atomic.Pointer[Matrix]
}

// NewResolver constructs a Resolver over the given store. The matrix is
// loaded lazily on first use.
func NewResolver(store MatrixStore) *Resolver {
	return &Resolver{store: store}
}

// HasPermission reports whether the role holds the action on the module.
// Absence of a matrix row means denied.
func (r *Resolver) HasPermission(ctx context.Context, role, module, action string) (bool, error) {
	m, err := r.current(ctx)
	if err != nil {
		return false, err
	}
	return m.Allows(role, module, action), nil
}

// HasModuleAccess reports whether the role holds any grant on the module.
func (r *Resolver) HasModuleAccess(ctx context.Context, role, module string) (bool, error) {
	m, err := r.current(ctx)
	if err != nil {
		return false, err
	}
	return m.HasModule(role, module), nil
}

// ModulesWithAnyGrant returns the set of modules the role has any
// permission for.
func (r *Resolver) ModulesWithAnyGrant(ctx context.Context, role string) ([]string, error) {
	m, err := r.current(ctx)
	if err != nil {
		return nil, err
	}
	return m.RoleModules(role), nil
}

// Reload replaces the snapshot with a fresh load from the store. The
// administrative roles flow calls this after mutating grant rows. A failed
// reload keeps the previous snapshot in place.
func (r *Resolver) Reload(ctx context.Context) error {
	m, err := r.store.LoadMatrix(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPolicyUnavailable, err)
	}
	r.matrix.Store(m)
	return nil
}

// current returns the matrix snapshot, loading it on first use. Concurrent
// first requests share a single load; a failed load is not cached, so the
// next request re-arms initialization instead of wedging the resolver in a
// permanently unavailable state.
func (r *Resolver) current(ctx context.Context) (*Matrix, error) {
	if m := r.matrix.Load(); m != nil {
		return m, nil
	}
	resultChan := r.group.DoChan("matrix", func() (interface{}, error) {
		if m := r.matrix.Load(); m != nil {
			return m, nil
		}
		// Detached from the triggering request so one caller's cancellation
		// does not fail every waiter.
		m, err := r.store.LoadMatrix(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		r.matrix.Store(m)
		return m, nil
	})
	select {
	case <-ctx.Done():
		// The caller gave up, not the store. Surfacing this as
		// ErrPolicyUnavailable would page operators for client disconnects.
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPolicyUnavailable, res.Err)
		}
		return res.Val.(*Matrix), nil
	}
}
