package authz

// Grant is one (role, module, action) row of the permission matrix.
type Grant struct {
	Role   string
	Module string
	Action string
}

// Matrix is an immutable in-memory snapshot of the permission matrix.
// Absence of a grant always means denied. Lookups are O(1); the snapshot is
// rebuilt wholesale when the matrix changes, never mutated in place, so
// concurrent readers need no coordination.
type Matrix struct {
	grants map[string]map[string]map[string]struct{}
}

// NewMatrix builds a snapshot from grant rows. Role, module and action
// identifiers are normalized to lower case; empty components are skipped.
func NewMatrix(grants []Grant) *Matrix {
	m := &Matrix{grants: make(map[string]map[string]map[string]struct{})}
	for _, g := range grants {
		role := normalize(g.Role)
		module := normalize(g.Module)
		action := normalize(g.Action)
		if role == "" || module == "" || action == "" {
			continue
		}
		modules, ok := m.grants[role]
		if !ok {
			modules = make(map[string]map[string]struct{})
			m.grants[role] = modules
		}
		actions, ok := modules[module]
		if !ok {
			actions = make(map[string]struct{})
			modules[module] = actions
		}
		actions[action] = struct{}{}
	}
	return m
}

// Allows reports whether the role holds the action on the module, either
// directly or through a manage grant.
func (m *Matrix) Allows(role, module, action string) bool {
	actions, ok := m.grants[normalize(role)][normalize(module)]
	if !ok {
		return false
	}
	if _, ok := actions[normalize(action)]; ok {
		return true
	}
	_, ok = actions[ActionManage]
	return ok
}

// HasModule reports whether the role holds any grant on the module.
func (m *Matrix) HasModule(role, module string) bool {
	return len(m.grants[normalize(role)][normalize(module)]) > 0
}

// RoleModules returns the modules the role has any grant for.
func (m *Matrix) RoleModules(role string) []string {
	modules := m.grants[normalize(role)]
	out := make([]string, 0, len(modules))
	for module, actions := range modules {
		if len(actions) > 0 {
			out = append(out, module)
		}
	}
	return out
}

// Len returns the number of grant rows in the snapshot.
func (m *Matrix) Len() int {
	n := 0
	for _, modules := range m.grants {
		for _, actions := range modules {
			n += len(actions)
		}
	}
	return n
}
