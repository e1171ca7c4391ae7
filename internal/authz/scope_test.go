package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopePolicyKeyedByModuleAndRole(t *testing.T) {
	sp := NewScopePolicy()
	sp.Register(ModuleCustomers, RoleAgent, SelfOwned("assigned_staff_id"))

	agent := Principal{ID: 7, Role: RoleAgent}

	scoped := sp.Filter(ModuleCustomers, agent)
	require.True(t, scoped.Restricted())

	// Same role, different module: no rule registered, so unrestricted.
	require.False(t, sp.Filter(ModuleLeads, agent).Restricted())

	// Same module, different role: also unrestricted.
	sales := Principal{ID: 3, Role: RoleSales}
	require.False(t, sp.Filter(ModuleCustomers, sales).Restricted())
}

func TestScopePolicyAdminAlwaysUnrestricted(t *testing.T) {
	sp := DefaultScopePolicy()
	admin := Principal{ID: 1, Role: RoleAdmin}

	for _, module := range Modules() {
		require.False(t, sp.Filter(module, admin).Restricted())
	}
}

func TestScopeFilterIsIdempotent(t *testing.T) {
	sp := DefaultScopePolicy()
	agent := Principal{ID: 7, Role: RoleAgent}

	first := sp.Filter(ModuleCustomers, agent)
	second := sp.Filter(ModuleCustomers, agent)

	clause1, args1 := first.SQL(1)
	clause2, args2 := second.SQL(1)
	require.Equal(t, clause1, clause2)
	require.Equal(t, args1, args2)
}

func TestPredicateSQLRendering(t *testing.T) {
	p := OwnedBy("agent_id", 42)

	clause, args := p.SQL(1)
	require.Equal(t, "agent_id = $1", clause)
	require.Equal(t, []any{int64(42)}, args)

	// Rendering at a different position only changes the placeholder.
	clause, args = p.SQL(5)
	require.Equal(t, "agent_id = $5", clause)
	require.Equal(t, []any{int64(42)}, args)
}

func TestUnrestrictedPredicateRendersNothing(t *testing.T) {
	clause, args := Unrestricted().SQL(1)
	require.Empty(t, clause)
	require.Nil(t, args)
	require.False(t, Unrestricted().Restricted())
}

func TestDefaultScopePolicyRules(t *testing.T) {
	sp := DefaultScopePolicy()

	cases := []struct {
		module string
		role   string
		column string
	}{
		{ModuleCustomers, RoleAgent, "assigned_staff_id"},
		{ModuleCustomers, RoleCustomer, "id"},
		{ModuleLeads, RoleAgent, "agent_id"},
		{ModuleLeads, RoleSales, "agent_id"},
		{ModuleReservations, RoleAgent, "assigned_staff_id"},
		{ModuleReservations, RoleCustomer, "customer_id"},
		{ModulePayments, RoleCustomer, "customer_id"},
		{ModuleSupportTickets, RoleAgent, "assigned_to"},
		{ModuleSupportTickets, RoleCustomer, "customer_id"},
		{ModuleTrips, RoleCustomer, "customer_id"},
	}

	for _, tc := range cases {
		p := Principal{ID: 9, Role: tc.role}
		pred := sp.Filter(tc.module, p)
		require.True(t, pred.Restricted(), "%s/%s should be scoped", tc.module, tc.role)
		clause, args := pred.SQL(1)
		require.Equal(t, tc.column+" = $1", clause)
		require.Equal(t, []any{int64(9)}, args)
	}

	// Properties carry no scope rule for anyone.
	for _, role := range []string{RoleAgent, RoleSales, RoleCustomer, RoleManager} {
		require.False(t, sp.Filter(ModuleProperties, Principal{ID: 9, Role: role}).Restricted())
	}
}
