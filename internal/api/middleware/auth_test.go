package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-registry/internal/core/domain"
	"github.com/99minutos/user-registry/internal/core/ports"
)

// stubUsers only implements Authenticate; any other call panics.
type stubUsers struct {
	ports.UserService
	authenticateFn func(ctx context.Context, username, password string) (domain.SafeUser, error)
}

func (s *stubUsers) Authenticate(ctx context.Context, username, password string) (domain.SafeUser, error) {
	return s.authenticateFn(ctx, username, password)
}

func newStub() *stubUsers {
	return &stubUsers{
		authenticateFn: func(_ context.Context, username, password string) (domain.SafeUser, error) {
			switch {
			case username == "admin" && password == "admin123":
				return domain.SafeUser{ID: 1, Username: "admin", Roles: []string{domain.RoleAdmin, domain.RoleEditor}}, nil
			case username == "locked":
				return domain.SafeUser{}, domain.ErrTooManyAttempts
			default:
				return domain.SafeUser{}, domain.ErrAuthenticationFailed
			}
		},
	}
}

func runAuth(t *testing.T, setAuth func(r *http.Request), next echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	if setAuth != nil {
		setAuth(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, Auth(newStub())(next)(c)
}

func TestAuth_ValidCredentials(t *testing.T) {
	var got domain.SafeUser
	_, err := runAuth(t, func(r *http.Request) { r.SetBasicAuth("admin", "admin123") }, func(c echo.Context) error {
		u, ok := UserFromContext(c)
		if !ok {
			t.Fatal("user not set in context")
		}
		got = u
		return c.NoContent(http.StatusOK)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Username != "admin" || len(got.Roles) != 2 {
		t.Fatalf("unexpected user %+v", got)
	}
}

func TestAuth_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		setAuth func(r *http.Request)
	}{
		{name: "missing header"},
		{name: "wrong password", setAuth: func(r *http.Request) { r.SetBasicAuth("admin", "nope") }},
		{name: "unknown user", setAuth: func(r *http.Request) { r.SetBasicAuth("ghost", "x") }},
		{name: "bearer scheme", setAuth: func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runAuth(t, tt.setAuth, func(c echo.Context) error {
				t.Fatal("should not reach next handler")
				return nil
			})
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %v", err)
			}
		})
	}
}

func TestAuth_LockedOutPropagates(t *testing.T) {
	_, err := runAuth(t, func(r *http.Request) { r.SetBasicAuth("locked", "x") }, func(c echo.Context) error {
		t.Fatal("should not reach next handler")
		return nil
	})
	if !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestUserFromContext_Missing(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if _, ok := UserFromContext(c); ok {
		t.Fatal("expected no user")
	}
}
