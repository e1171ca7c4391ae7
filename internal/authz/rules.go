package authz

// DefaultScopePolicy declares every row-scoping rule in one place, keyed by
// (module, role). The ownership column is the single piece of
// resource-specific knowledge each rule carries; the repositories render
// the resulting predicate into their queries.
//
// Modules absent here (properties, operations, owners, settings,
// notifications, users, roles, departments) are governed by coarse
// permission alone.
func DefaultScopePolicy() *ScopePolicy {
	sp := NewScopePolicy()

	sp.Register(ModuleCustomers, RoleAgent, SelfOwned("assigned_staff_id"))
	sp.Register(ModuleCustomers, RoleCustomer, SelfOwned("id"))

	sp.Register(ModuleLeads, RoleAgent, SelfOwned("agent_id"))
	sp.Register(ModuleLeads, RoleSales, SelfOwned("agent_id"))

	sp.Register(ModuleReservations, RoleAgent, SelfOwned("assigned_staff_id"))
	sp.Register(ModuleReservations, RoleCustomer, SelfOwned("customer_id"))

	sp.Register(ModulePayments, RoleCustomer, SelfOwned("customer_id"))

	sp.Register(ModuleSupportTickets, RoleAgent, SelfOwned("assigned_to"))
	sp.Register(ModuleSupportTickets, RoleCustomer, SelfOwned("customer_id"))

	sp.Register(ModuleTrips, RoleCustomer, SelfOwned("customer_id"))

	return sp
}
