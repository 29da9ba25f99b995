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

type stubClientService struct {
	listFn   func(ctx context.Context) ([]domain.Client, error)
	getFn    func(ctx context.Context, id int64) (*domain.Client, error)
	createFn func(ctx context.Context, in ports.CreateClientInput) (*domain.Client, error)
	updateFn func(ctx context.Context, id int64, in ports.CreateClientInput) (*domain.Client, error)
	patchFn  func(ctx context.Context, id int64, upd ports.ClientUpdate) (*domain.Client, error)
	deleteFn func(ctx context.Context, id int64) error
	searchFn func(ctx context.Context, q string) ([]domain.Client, error)
	enrollFn func(ctx context.Context, clientID int64, programID *int64) (*domain.Client, bool, error)
}

func (s *stubClientService) List(ctx context.Context) ([]domain.Client, error) {
	return s.listFn(ctx)
}
func (s *stubClientService) Get(ctx context.Context, id int64) (*domain.Client, error) {
	return s.getFn(ctx, id)
}
func (s *stubClientService) Create(ctx context.Context, in ports.CreateClientInput) (*domain.Client, error) {
	return s.createFn(ctx, in)
}
func (s *stubClientService) Update(ctx context.Context, id int64, in ports.CreateClientInput) (*domain.Client, error) {
	return s.updateFn(ctx, id, in)
}
func (s *stubClientService) Patch(ctx context.Context, id int64, upd ports.ClientUpdate) (*domain.Client, error) {
	return s.patchFn(ctx, id, upd)
}
func (s *stubClientService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}
func (s *stubClientService) Search(ctx context.Context, q string) ([]domain.Client, error) {
	return s.searchFn(ctx, q)
}
func (s *stubClientService) Enroll(ctx context.Context, clientID int64, programID *int64) (*domain.Client, bool, error) {
	return s.enrollFn(ctx, clientID, programID)
}

func newClientEcho(stub *stubClientService) *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())

	h := handler.NewClientHandler(stub)
	e.GET("/clients", h.List)
	e.POST("/clients", h.Create)
	e.GET("/clients/search", h.Search)
	e.GET("/clients/:id", h.Get)
	e.PUT("/clients/:id", h.Update)
	e.PATCH("/clients/:id", h.Patch)
	e.DELETE("/clients/:id", h.Delete)
	e.POST("/clients/:id/enroll", h.Enroll)
	return e
}

func annClient() *domain.Client {
	return &domain.Client{
		ID:          1,
		Name:        "Ann",
		DateOfBirth: "1990-05-15",
		EnrolledPrograms: []domain.ProgramRef{
			{ID: 3, Name: "HIV Support"},
		},
	}
}

func TestClientHandler_Create_IgnoresEnrollmentInPayload(t *testing.T) {
	stub := &stubClientService{
		createFn: func(_ context.Context, in ports.CreateClientInput) (*domain.Client, error) {
			if in.Name != "Ann" || in.DateOfBirth != "1990-05-15" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Client{ID: 1, Name: "Ann", DateOfBirth: "1990-05-15", EnrolledPrograms: []domain.ProgramRef{}}, nil
		},
	}
	e := newClientEcho(stub)

	// enrolled_programs in the body is silently dropped, not an error.
	body := `{"name":"Ann","date_of_birth":"1990-05-15","enrolled_programs":[{"id":99}]}`
	req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	programs, ok := resp["enrolled_programs"].([]any)
	if !ok || len(programs) != 0 {
		t.Fatalf("expected empty enrolled_programs array, got %v", resp["enrolled_programs"])
	}
}

func TestClientHandler_Search_MissingQ(t *testing.T) {
	stub := &stubClientService{
		searchFn: func(context.Context, string) ([]domain.Client, error) {
			t.Fatalf("service must not be called without q")
			return nil, nil
		},
	}
	e := newClientEcho(stub)

	req := httptest.NewRequest(http.MethodGet, "/clients/search", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["detail"] != "Query parameter 'q' is required." {
		t.Fatalf("unexpected detail: %q", resp["detail"])
	}
}

func TestClientHandler_Search_EmptyQMatchesAll(t *testing.T) {
	var gotQ *string
	stub := &stubClientService{
		searchFn: func(_ context.Context, q string) ([]domain.Client, error) {
			gotQ = &q
			return []domain.Client{*annClient()}, nil
		},
	}
	e := newClientEcho(stub)

	req := httptest.NewRequest(http.MethodGet, "/clients/search?q=", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotQ == nil || *gotQ != "" {
		t.Fatalf("expected service called with empty q, got %v", gotQ)
	}
}

func TestClientHandler_Enroll_Success(t *testing.T) {
	stub := &stubClientService{
		enrollFn: func(_ context.Context, clientID int64, programID *int64) (*domain.Client, bool, error) {
			if clientID != 1 || programID == nil || *programID != 3 {
				t.Fatalf("unexpected args: %d %v", clientID, programID)
			}
			return annClient(), true, nil
		},
	}
	e := newClientEcho(stub)

	req := httptest.NewRequest(http.MethodPost, "/clients/1/enroll", strings.NewReader(`{"program_id":3}`))
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
	programs, _ := resp["enrolled_programs"].([]any)
	if len(programs) != 1 {
		t.Fatalf("expected the updated membership in the response, got %v", resp)
	}
}

func TestClientHandler_Enroll_MissingProgramID(t *testing.T) {
	// A nil program_id still reaches the service, which resolves the
	// client before reporting the missing field.
	stub := &stubClientService{
		enrollFn: func(_ context.Context, clientID int64, programID *int64) (*domain.Client, bool, error) {
			if clientID != 1 {
				t.Fatalf("unexpected client id: %d", clientID)
			}
			if programID != nil {
				t.Fatalf("expected nil program_id, got %d", *programID)
			}
			return nil, false, domain.NewValidationError("program_id", "This field is required.")
		},
	}
	e := newClientEcho(stub)

	req := httptest.NewRequest(http.MethodPost, "/clients/1/enroll", strings.NewReader(`{}`))
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
	if _, ok := resp.Fields["program_id"]; !ok {
		t.Fatalf("expected program_id in fields, got %+v", resp.Fields)
	}
}

func TestClientHandler_Enroll_UnknownClientEmptyBodyIs404(t *testing.T) {
	// Not-found wins over the missing program_id: an empty body against an
	// unknown client is a 404, never a validation error.
	stub := &stubClientService{
		enrollFn: func(context.Context, int64, *int64) (*domain.Client, bool, error) {
			return nil, false, domain.ErrClientNotFound
		},
	}
	e := newClientEcho(stub)

	req := httptest.NewRequest(http.MethodPost, "/clients/999/enroll", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestClientHandler_Enroll_UnknownClientIs404(t *testing.T) {
	stub := &stubClientService{
		enrollFn: func(context.Context, int64, *int64) (*domain.Client, bool, error) {
			return nil, false, domain.ErrClientNotFound
		},
	}
	e := newClientEcho(stub)

	req := httptest.NewRequest(http.MethodPost, "/clients/999/enroll", strings.NewReader(`{"program_id":3}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestClientHandler_Enroll_UnknownProgramIs400(t *testing.T) {
	stub := &stubClientService{
		enrollFn: func(context.Context, int64, *int64) (*domain.Client, bool, error) {
			return nil, false, domain.NewValidationError("program_id", "Program with ID 9999 not found.")
		},
	}
	e := newClientEcho(stub)

	req := httptest.NewRequest(http.MethodPost, "/clients/1/enroll", strings.NewReader(`{"program_id":9999}`))
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
	if _, ok := resp.Fields["program_id"]; !ok {
		t.Fatalf("expected program_id in fields, got %+v", resp.Fields)
	}
}

func TestClientHandler_List_ResolvedPrograms(t *testing.T) {
	stub := &stubClientService{
		listFn: func(context.Context) ([]domain.Client, error) {
			return []domain.Client{*annClient()}, nil
		},
	}
	e := newClientEcho(stub)

	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp []struct {
		EnrolledPrograms []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"enrolled_programs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || len(resp[0].EnrolledPrograms) != 1 || resp[0].EnrolledPrograms[0].Name != "HIV Support" {
		t.Fatalf("expected resolved program refs, got %s", rec.Body.String())
	}
}
