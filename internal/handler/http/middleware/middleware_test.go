package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func requestAs(t *testing.T, claims user.Claims) *http.Request {
	t.Helper()
	ctx, err := jwt.ContextWithClaims(context.Background(), jwt.NewJWTService("test-secret"), claims)
	require.NoError(t, err)
	return httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
}

func TestAuthRequired(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		AuthRequired(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing company", func(t *testing.T) {
		rr := httptest.NewRecorder()
		AuthRequired(okHandler).ServeHTTP(rr, requestAs(t, user.Claims{UserID: "u1", Role: user.RoleOwner}))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid", func(t *testing.T) {
		rr := httptest.NewRecorder()
		AuthRequired(okHandler).ServeHTTP(rr, requestAs(t, user.Claims{UserID: "u1", CompanyID: "c1", Role: user.RoleOwner}))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestRequirePermission(t *testing.T) {
	gate := RequirePermission(user.PermissionPayrollView)(okHandler)

	tests := []struct {
		role user.Role
		want int
	}{
		{user.RoleOwner, http.StatusOK},
		{user.RoleManager, http.StatusOK},
		{user.RoleEmployee, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			rr := httptest.NewRecorder()
			gate.ServeHTTP(rr, requestAs(t, user.Claims{UserID: "u1", CompanyID: "c1", Role: tt.role}))
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestRequireManager(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireManager(okHandler).ServeHTTP(rr, requestAs(t, user.Claims{UserID: "u1", CompanyID: "c1", Role: user.RoleEmployee}))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = httptest.NewRecorder()
	RequireManager(okHandler).ServeHTTP(rr, requestAs(t, user.Claims{UserID: "u1", CompanyID: "c1", Role: user.RoleManager}))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimiter_PerClient(t *testing.T) {
	limited := NewRateLimiter(1, 2).Limit(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		limited.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	limited.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
