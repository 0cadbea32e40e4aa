package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/biyeshadi/matrimony-system/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, email, password, displayName string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	return s.registerFn(ctx, email, password, displayName)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func newAuthContext(e *echo.Echo, target, payload string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, email, password, displayName string) (*domain.User, error) {
			if email != "alice@example.com" || displayName != "Alice" {
				t.Fatalf("unexpected args: %s %s", email, displayName)
			}
			return &domain.User{ID: "u1", Email: email, DisplayName: displayName}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthContext(e, "/auth/register",
		`{"email":"alice@example.com","password":"hunter2hunter2","display_name":"Alice"}`)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["email"] != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, email, password, displayName string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthContext(e, "/auth/register",
		`{"email":"bob@example.com","password":"hunter2hunter2","display_name":"Bob"}`)
	_ = handler.Register(c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_ShortPasswordRejected(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, email, password, displayName string) (*domain.User, error) {
			t.Fatalf("service must not be called on invalid payload")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthContext(e, "/auth/register",
		`{"email":"bob@example.com","password":"short","display_name":"Bob"}`)
	_ = handler.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "token-123", &domain.User{ID: "u1", Email: email}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthContext(e, "/auth/login",
		`{"email":"alice@example.com","password":"hunter2hunter2"}`)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token-123" {
		t.Fatalf("expected token in response, got %+v", resp)
	}
}

func TestAuthHandler_Login_UnknownUserSameAnswerAsWrongPassword(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	for _, sentinel := range []error{domain.ErrUserNotFound, domain.ErrInvalidCredentials} {
		stub := &stubAuthService{
			loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
				return "", nil, sentinel
			},
		}
		handler := NewAuthHandler(stub)

		c, rec := newAuthContext(e, "/auth/login",
			`{"email":"ghost@example.com","password":"whatever123"}`)
		_ = handler.Login(c)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %v, got %d", sentinel, rec.Code)
		}
		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if resp["error"] != "invalid credentials" {
			t.Fatalf("login failures must be indistinguishable, got %q", resp["error"])
		}
	}
}
