package rbac_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/caddie-pos/caddie-pos/internal/rbac"
	"github.com/caddie-pos/caddie-pos/internal/shared"
	_ "github.com/caddie-pos/caddie-pos/testing"
)

func requestWithRole(userID int64, role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	sess := &shared.Session{}
	sess.SetUser(userID, role)
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func protected(t *testing.T, mw func(http.Handler) http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	called := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code == http.StatusOK {
		require.True(t, called)
	}
	return res
}

func TestRequireAllowsMatchingRole(t *testing.T) {
	mw := rbac.Middleware{}.Require(rbac.RoleCashier)
	res := protected(t, mw, requestWithRole(7, "cashier"))
	require.Equal(t, http.StatusOK, res.Code)
}

func TestRequireAllowsAnyOfSeveral(t *testing.T) {
	mw := rbac.Middleware{}.Require(rbac.RoleCashier, rbac.RoleSupervisor)
	res := protected(t, mw, requestWithRole(7, "supervisor"))
	require.Equal(t, http.StatusOK, res.Code)
}

func TestRequireRejectsOtherRole(t *testing.T) {
	mw := rbac.Middleware{}.Require(rbac.RoleStockManager)
	res := protected(t, mw, requestWithRole(7, "client"))
	require.Equal(t, http.StatusForbidden, res.Code)
}

func TestRequireRejectsUnknownRole(t *testing.T) {
	mw := rbac.Middleware{}.Require(rbac.RoleCashier)
	res := protected(t, mw, requestWithRole(7, "admin"))
	require.Equal(t, http.StatusForbidden, res.Code)
}

func TestRequireRejectsAnonymous(t *testing.T) {
	mw := rbac.Middleware{}.Require(rbac.RoleCashier)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	res := protected(t, mw, req)
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"stock_manager", "cashier", "client", "hr", "supervisor"} {
		role, ok := rbac.ParseRole(raw)
		require.True(t, ok)
		require.Equal(t, rbac.Role(raw), role)
	}
	_, ok := rbac.ParseRole("root")
	require.False(t, ok)
}
