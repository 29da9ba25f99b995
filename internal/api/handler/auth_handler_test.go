package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/afiya/health-system/internal/api"
	"github.com/afiya/health-system/internal/api/handler"
	"github.com/afiya/health-system/internal/core/domain"
	"github.com/afiya/health-system/internal/core/ports"
)

type stubAuthService struct {
	loginFn    func(ctx context.Context, username, password string) (string, *domain.User, error)
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	profileFn  func(ctx context.Context, userID int64) (*domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}
func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}
func (s *stubAuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.profileFn(ctx, userID)
}

func newAuthEcho(stub *stubAuthService) *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())

	h := handler.NewAuthHandler(stub)
	e.POST("/login", h.Login)
	e.POST("/doctors/register", h.Register)
	e.GET("/user/profile", h.Profile)
	return e
}

func drJones() *domain.User {
	return &domain.User{
		ID:        7,
		Username:  "drjones",
		Email:     "jones@example.com",
		FirstName: "Indiana",
		LastName:  "Jones",
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (string, *domain.User, error) {
			if username != "drjones" || password != "secret" {
				t.Fatalf("unexpected credentials: %s %s", username, password)
			}
			return "tok-123", drJones(), nil
		},
	}
	e := newAuthEcho(stub)

	body := strings.NewReader(`{"username":"drjones","password":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "tok-123" || resp["user_id"] != float64(7) || resp["username"] != "drjones" ||
		resp["email"] != "jones@example.com" || resp["first_name"] != "Indiana" || resp["last_name"] != "Jones" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Login_MissingFieldsNamed(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			t.Fatalf("service must not be called with missing fields")
			return "", nil, nil
		},
	}
	e := newAuthEcho(stub)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"drjones"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, ok := resp.Fields["password"]; !ok {
		t.Fatalf("expected password named, got %+v", resp.Fields)
	}
	if _, ok := resp.Fields["username"]; ok {
		t.Fatalf("username was present, must not be named: %+v", resp.Fields)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	e := newAuthEcho(stub)

	body := strings.NewReader(`{"username":"ghost","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "invalid username or password" {
		t.Fatalf("unexpected error message: %q", resp["error"])
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Username != "drjones" || in.Email != "jones@example.com" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return drJones(), nil
		},
	}
	e := newAuthEcho(stub)

	body := strings.NewReader(`{"username":"drjones","password":"secret","email":"jones@example.com","first_name":"Indiana","last_name":"Jones"}`)
	req := httptest.NewRequest(http.MethodPost, "/doctors/register", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "Registration successful. You can now login." {
		t.Fatalf("unexpected message: %q", resp["message"])
	}
}

func TestAuthHandler_Register_MissingPassword(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service must not be called with invalid input")
			return nil, nil
		},
	}
	e := newAuthEcho(stub)

	req := httptest.NewRequest(http.MethodPost, "/doctors/register", strings.NewReader(`{"username":"drjones"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Profile(t *testing.T) {
	stub := &stubAuthService{
		profileFn: func(_ context.Context, userID int64) (*domain.User, error) {
			if userID != 7 {
				t.Fatalf("unexpected user id: %d", userID)
			}
			return drJones(), nil
		},
	}
	e := echo.New()
	h := handler.NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", int64(7))

	if err := h.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	for _, key := range []string{"id", "username", "first_name", "last_name", "email"} {
		if _, ok := resp[key]; !ok {
			t.Fatalf("expected %q in profile payload, got %+v", key, resp)
		}
	}
}

func TestAuthHandler_Profile_NoClaims(t *testing.T) {
	stub := &stubAuthService{
		profileFn: func(context.Context, int64) (*domain.User, error) {
			t.Fatalf("service must not be called without claims")
			return nil, nil
		},
	}
	e := newAuthEcho(stub)

	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
