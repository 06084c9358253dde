package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

type stubTokens struct {
	claims *ports.TokenClaims
	err    error
}

func (s *stubTokens) IssueAccessToken(string, string) (string, error)  { return "", nil }
func (s *stubTokens) IssueRefreshToken(string) (string, error)         { return "", nil }
func (s *stubTokens) VerifyRefresh(string) (*ports.TokenClaims, error) { return nil, domain.ErrInvalidToken }

func (s *stubTokens) VerifyAccess(string) (*ports.TokenClaims, error) {
	return s.claims, s.err
}

type stubResolver struct {
	user *domain.User
	err  error
}

func (s *stubResolver) FindByID(context.Context, string) (*domain.User, error) {
	return s.user, s.err
}

func TestAuth_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	tokens := &stubTokens{claims: &ports.TokenClaims{UserID: "user_1", Role: domain.RoleAthlete}}
	users := &stubResolver{user: &domain.User{ID: "user_1", Role: domain.RoleAthlete, Active: true}}

	called := false
	handler := Auth(tokens, users)(func(c echo.Context) error {
		called = true
		if c.Get("user_id") != "user_1" {
			t.Fatalf("user_id not set")
		}
		if c.Get("role") != domain.RoleAthlete {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuth_Rejections(t *testing.T) {
	liveUser := &stubResolver{user: &domain.User{ID: "user_1", Role: domain.RoleAthlete, Active: true}}
	goodClaims := &stubTokens{claims: &ports.TokenClaims{UserID: "user_1", Role: domain.RoleAthlete}}

	cases := []struct {
		name   string
		header string
		tokens ports.TokenService
		users  UserResolver
	}{
		{"missing header", "", goodClaims, liveUser},
		{"wrong scheme", "Token abc", goodClaims, liveUser},
		{"bad token", "Bearer bad", &stubTokens{err: domain.ErrInvalidToken}, liveUser},
		{"deleted user", "Bearer good", goodClaims, &stubResolver{err: domain.ErrUserNotFound}},
		{"deactivated user", "Bearer good", goodClaims, &stubResolver{user: &domain.User{ID: "user_1", Active: false}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := Auth(tc.tokens, tc.users)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			err := handler(c)
			var httpErr *echo.HTTPError
			if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %v", err)
			}
		})
	}
}
