package authz

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(t *testing.T, mw Middleware, module, action string, p *Principal) *httptest.ResponseRecorder {
	t.Helper()
	handler := mw.Require(module, action)(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/"+module, nil)
	if p != nil {
		req = req.WithContext(ContextWithPrincipal(req.Context(), p))
	}
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func TestRequireRejectsAnonymousWith401(t *testing.T) {
	gate, _ := newTestGate(nil)
	mw := Middleware{Gate: gate}

	res := doRequest(t, mw, ModuleCustomers, ActionRead, nil)
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRequireRejectsMissingGrantWith403(t *testing.T) {
	gate, _ := newTestGate([]Grant{
		{Role: RoleAgent, Module: ModuleCustomers, Action: ActionRead},
	})
	mw := Middleware{Gate: gate}

	res := doRequest(t, mw, ModulePayments, ActionRead, &Principal{ID: 7, Role: RoleAgent})
	require.Equal(t, http.StatusForbidden, res.Code)
	require.Contains(t, res.Body.String(), ModulePayments)
}

func TestRequirePassesGrantedPrincipal(t *testing.T) {
	gate, _ := newTestGate([]Grant{
		{Role: RoleAgent, Module: ModuleCustomers, Action: ActionRead},
	})
	mw := Middleware{Gate: gate}

	res := doRequest(t, mw, ModuleCustomers, ActionRead, &Principal{ID: 7, Role: RoleAgent})
	require.Equal(t, http.StatusOK, res.Code)
}

func TestRequireSurfacesBrokenPolicyStoreAs500(t *testing.T) {
	gate, store := newTestGate(nil)
	store.setFail(true)
	mw := Middleware{Gate: gate}

	res := doRequest(t, mw, ModuleCustomers, ActionRead, &Principal{ID: 7, Role: RoleAgent})
	require.Equal(t, http.StatusInternalServerError, res.Code)
	require.Contains(t, res.Body.String(), "Authorization Unavailable")
}

func TestRequireReportsDenialsToHook(t *testing.T) {
	gate, _ := newTestGate([]Grant{
		{Role: RoleAgent, Module: ModuleCustomers, Action: ActionRead},
	})

	type denial struct{ module, reason string }
	var denials []denial
	mw := Middleware{Gate: gate, Denied: func(module, reason string) {
		denials = append(denials, denial{module, reason})
	}}

	doRequest(t, mw, ModuleCustomers, ActionRead, nil)
	doRequest(t, mw, ModulePayments, ActionRead, &Principal{ID: 7, Role: RoleAgent})
	doRequest(t, mw, ModuleCustomers, ActionDelete, &Principal{ID: 7, Role: RoleAgent})

	// Granted requests never hit the hook.
	doRequest(t, mw, ModuleCustomers, ActionRead, &Principal{ID: 7, Role: RoleAgent})

	require.Len(t, denials, 3)
	require.Equal(t, denial{ModuleCustomers, "unauthenticated"}, denials[0])
	require.Equal(t, denial{ModulePayments, ReasonNoModuleAccess}, denials[1])
	require.Equal(t, denial{ModuleCustomers, ReasonInsufficientPermission}, denials[2])
}

func TestForbiddenBodyNamesModuleAndAction(t *testing.T) {
	gate, _ := newTestGate([]Grant{
		{Role: RoleAgent, Module: ModuleCustomers, Action: ActionRead},
	})
	mw := Middleware{Gate: gate}

	res := doRequest(t, mw, ModuleCustomers, ActionDelete, &Principal{ID: 7, Role: RoleAgent})
	require.Equal(t, http.StatusForbidden, res.Code)

	body := res.Body.String()
	require.True(t, strings.Contains(body, ModuleCustomers) && strings.Contains(body, ActionDelete))
}
