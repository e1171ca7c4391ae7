package authz

// Resource modules subject to permission checks. Modules are the unit of
// coarse permission granularity and do not nest. The resolver does not
// validate against this list; unknown modules simply resolve to no grants.
const (
	ModuleCustomers      = "customers"
	ModuleLeads          = "leads"
	ModuleReservations   = "reservations"
	ModulePayments       = "payments"
	ModuleSupportTickets = "support_tickets"
	ModuleProperties     = "properties"
	ModuleTrips          = "trips"
	ModuleOperations     = "operations"
	ModuleOwners         = "owners"
	ModuleSettings       = "settings"
	ModuleNotifications  = "notifications"
	ModuleUsers          = "users"
	ModuleRoles          = "roles"
	ModuleDepartments    = "departments"
)

// Actions checked against a module. ActionManage implies the other four
// for the same module.
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionManage = "manage"
)

// Modules lists every known module, for the administrative roles flow.
func Modules() []string {
	return []string{
		ModuleCustomers,
		ModuleLeads,
		ModuleReservations,
		ModulePayments,
		ModuleSupportTickets,
		ModuleProperties,
		ModuleTrips,
		ModuleOperations,
		ModuleOwners,
		ModuleSettings,
		ModuleNotifications,
		ModuleUsers,
		ModuleRoles,
		ModuleDepartments,
	}
}

// Actions lists every known action.
func Actions() []string {
	return []string{ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionManage}
}
