package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatrixAllowsDirectGrant(t *testing.T) {
	m := NewMatrix([]Grant{
		{Role: "agent", Module: "customers", Action: "read"},
	})

	require.True(t, m.Allows("agent", "customers", "read"))
	require.False(t, m.Allows("agent", "customers", "update"))
	require.False(t, m.Allows("agent", "leads", "read"))
	require.False(t, m.Allows("sales", "customers", "read"))
}

func TestMatrixManageImpliesEveryAction(t *testing.T) {
	m := NewMatrix([]Grant{
		{Role: "manager", Module: "leads", Action: "manage"},
	})

	for _, action := range Actions() {
		require.True(t, m.Allows("manager", "leads", action), "manage should imply %s", action)
	}
	require.False(t, m.Allows("manager", "customers", "read"), "manage is per module")
}

func TestMatrixNormalizesIdentifiers(t *testing.T) {
	m := NewMatrix([]Grant{
		{Role: "  Agent ", Module: "Customers", Action: "READ"},
	})

	require.True(t, m.Allows("agent", "customers", "read"))
	require.True(t, m.Allows("AGENT", " customers ", "Read"))
}

func TestMatrixSkipsEmptyComponents(t *testing.T) {
	m := NewMatrix([]Grant{
		{Role: "", Module: "customers", Action: "read"},
		{Role: "agent", Module: "", Action: "read"},
		{Role: "agent", Module: "customers", Action: "   "},
	})

	require.Equal(t, 0, m.Len())
}

func TestMatrixHasModule(t *testing.T) {
	m := NewMatrix([]Grant{
		{Role: "agent", Module: "customers", Action: "read"},
		{Role: "agent", Module: "leads", Action: "update"},
	})

	require.True(t, m.HasModule("agent", "customers"))
	require.True(t, m.HasModule("agent", "leads"))
	require.False(t, m.HasModule("agent", "payments"))
	require.False(t, m.HasModule("finance", "customers"))
}

func TestMatrixRoleModules(t *testing.T) {
	m := NewMatrix([]Grant{
		{Role: "agent", Module: "customers", Action: "read"},
		{Role: "agent", Module: "leads", Action: "read"},
		{Role: "agent", Module: "leads", Action: "update"},
	})

	modules := m.RoleModules("agent")
	require.ElementsMatch(t, []string{"customers", "leads"}, modules)
	require.Empty(t, m.RoleModules("finance"))
}

func TestEmptyMatrixDeniesEverything(t *testing.T) {
	m := NewMatrix(nil)

	require.False(t, m.Allows("agent", "customers", "read"))
	require.False(t, m.HasModule("agent", "customers"))
}
