// Package authz implements the permission matrix, the access gate and the
// row-scoping policy shared by every resource module.
package authz

import "strings"

// RoleAdmin always passes the access gate and is never row-scoped.
const RoleAdmin = "admin"

// Well-known role names. Roles are open strings; the matrix decides what a
// role can do. These constants exist for seed data and tests only.
const (
	RoleManager     = "manager"
	RoleSales       = "sales"
	RoleAgent       = "agent"
	RoleReservation = "reservation"
	RoleOperations  = "operations"
	RoleFinance     = "finance"
	RoleCustomer    = "customer"
)

// Principal is the authenticated identity attached to a request. It is
// produced by the token verifier and never mutated by the engine.
type Principal struct {
	ID   int64
	Role string
}

// IsAdmin reports whether the principal carries the administrator role.
func (p Principal) IsAdmin() bool {
	return normalize(p.Role) == RoleAdmin
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
