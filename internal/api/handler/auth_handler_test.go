package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, *ports.TokenPair, error)
	loginFn    func(ctx context.Context, email, password string) (*domain.User, *ports.TokenPair, error)
	refreshFn  func(ctx context.Context, refreshToken string) (*ports.TokenPair, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, *ports.TokenPair, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.User, *ports.TokenPair, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	return s.refreshFn(ctx, refreshToken)
}

func newJSONContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Professional(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*domain.User, *ports.TokenPair, error) {
			if input.Role != domain.RoleProfessional || input.Professional == nil {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{
					ID:           "user_1",
					Name:         input.Name,
					Email:        input.Email,
					Role:         input.Role,
					Professional: &domain.ProfessionalProfile{LicenseNumber: input.Professional.LicenseNumber},
				},
				&ports.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	body := `{"name":"Dana","email":"dana@example.com","password":"sup3rsecret","role":"professional","professional":{"licenseNumber":"LIC-42"}}`
	c, rec := newJSONContext(t, http.MethodPost, "/v1/auth/register", body)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["id"] != "user_1" {
		t.Fatalf("user missing from response: %v", resp)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash leaked in response")
	}
	tokens, ok := resp["tokens"].(map[string]any)
	if !ok || tokens["access_token"] != "access" || tokens["refresh_token"] != "refresh" {
		t.Fatalf("tokens missing from response: %v", resp)
	}
}

func TestAuthHandler_Register_ValidationFailures(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, *ports.TokenPair, error) {
			t.Fatalf("service must not be called on invalid payload")
			return nil, nil, nil
		},
	})

	cases := []string{
		`{"email":"a@b.com","password":"sup3rsecret","role":"professional"}`,                              // missing name
		`{"name":"A","email":"not-an-email","password":"sup3rsecret","role":"professional"}`,              // bad email
		`{"name":"A","email":"a@b.com","password":"short","role":"professional"}`,                         // short password
		`{"name":"A","email":"a@b.com","password":"sup3rsecret","role":"admin"}`,                          // bad role
		`{"name":"A","email":"a@b.com","password":"sup3rsecret","role":"athlete","athlete":{"gender":"x","professionalId":"p"}}`, // bad gender
	}
	for _, body := range cases {
		c, _ := newJSONContext(t, http.MethodPost, "/v1/auth/register", body)
		err := handler.Register(c)
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("body %s: expected validation error, got %v", body, err)
		}
	}
}

func TestAuthHandler_Login(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*domain.User, *ports.TokenPair, error) {
			if email != "dana@example.com" || password != "sup3rsecret" {
				t.Fatalf("unexpected credentials: %s", email)
			}
			return &domain.User{ID: "user_1", Email: email, Role: domain.RoleProfessional},
				&ports.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	body := `{"email":"dana@example.com","password":"sup3rsecret"}`
	c, rec := newJSONContext(t, http.MethodPost, "/v1/auth/login", body)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (*domain.User, *ports.TokenPair, error) {
			return nil, nil, domain.ErrInvalidCredentials
		},
	})

	body := `{"email":"dana@example.com","password":"wrong-password"}`
	c, _ := newJSONContext(t, http.MethodPost, "/v1/auth/login", body)

	if err := handler.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{
		refreshFn: func(_ context.Context, token string) (*ports.TokenPair, error) {
			if token != "old-refresh" {
				t.Fatalf("unexpected token: %s", token)
			}
			return &ports.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	})

	c, rec := newJSONContext(t, http.MethodPost, "/v1/auth/refresh", `{"refreshToken":"old-refresh"}`)
	if err := handler.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "new-access" {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestAuthHandler_Refresh_MissingToken(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{
		refreshFn: func(context.Context, string) (*ports.TokenPair, error) {
			t.Fatalf("service must not be called without a token")
			return nil, nil
		},
	})

	c, _ := newJSONContext(t, http.MethodPost, "/v1/auth/refresh", `{}`)
	if err := handler.Refresh(c); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
