package authz

import "fmt"

// Predicate narrows a query to the rows a principal is entitled to touch.
// It is either unrestricted or an ownership-column comparison against the
// principal's id. Resource repositories render it into their own WHERE
// clause and must apply it verbatim, in addition to the gate's coarse
// check, for list, detail and mutation queries alike.
type Predicate struct {
	column     string
	op         string
	value      int64
	restricted bool
}

// Unrestricted returns the predicate that matches every row.
func Unrestricted() Predicate {
	return Predicate{}
}

// OwnedBy returns a predicate matching rows whose column equals the given
// principal id.
func OwnedBy(column string, id int64) Predicate {
	return Predicate{column: column, op: "=", value: id, restricted: true}
}

// Restricted reports whether the predicate excludes any rows.
func (p Predicate) Restricted() bool {
	return p.restricted
}

// SQL renders the predicate as a positional-argument fragment starting at
// argPos, e.g. ("agent_id = $3", [7]). An unrestricted predicate renders to
// an empty fragment with no arguments.
func (p Predicate) SQL(argPos int) (string, []any) {
	if !p.restricted {
		return "", nil
	}
	return fmt.Sprintf("%s %s $%d", p.column, p.op, argPos), []any{p.value}
}

// ScopeRule computes a predicate for a principal on one (module, role)
// pair.
type ScopeRule func(p Principal) Predicate

type scopeKey struct {
	module string
	role   string
}

// ScopePolicy is the registry of row-scoping rules, keyed by
// (module, role). Roles absent from the registry for a module receive the
// unrestricted predicate: scoping is opt-in per module, and coarse
// permission alone governs modules without rules.
type ScopePolicy struct {
	rules map[scopeKey]ScopeRule
}

// NewScopePolicy returns an empty registry.
func NewScopePolicy() *ScopePolicy {
	return &ScopePolicy{rules: make(map[scopeKey]ScopeRule)}
}

// Register declares the rule for one (module, role) pair. Registration
// happens once at wiring time; the registry is read-only afterwards.
func (sp *ScopePolicy) Register(module, role string, rule ScopeRule) {
	sp.rules[scopeKey{module: normalize(module), role: normalize(role)}] = rule
}

// Filter returns the predicate for the principal on the module. Admin is
// always unrestricted. Evaluation is a pure function of (module,
// principal): repeated calls yield equivalent predicates.
func (sp *ScopePolicy) Filter(module string, p Principal) Predicate {
	if p.IsAdmin() {
		return Unrestricted()
	}
	rule, ok := sp.rules[scopeKey{module: normalize(module), role: normalize(p.Role)}]
	if !ok {
		return Unrestricted()
	}
	return rule(p)
}

// SelfOwned builds a rule comparing the column to the principal id. It
// covers both assignment scoping (an agent sees assigned rows) and
// self-ownership scoping (a customer sees their own rows).
func SelfOwned(column string) ScopeRule {
	return func(p Principal) Predicate {
		return OwnedBy(column, p.ID)
	}
}
