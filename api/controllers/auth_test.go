package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/aurylabs/aury-backend/api/middleware"
	"github.com/aurylabs/aury-backend/internal/auth"
	"github.com/aurylabs/aury-backend/internal/stores"
	"github.com/aurylabs/aury-backend/internal/users"
	pkgerrors "github.com/aurylabs/aury-backend/pkg/errors"
)

type stubAuthService struct {
	login   *auth.LoginResponse
	session *auth.SessionResponse
	err     error
}

func (s stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.login, nil
}

func (s stubAuthService) Session(context.Context, uuid.UUID) (*auth.SessionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

type stubRegisterService struct {
	resp  *auth.RegisterResponse
	store *stores.StoreDTO
	err   error
}

func (s stubRegisterService) Register(context.Context, auth.RegisterRequest) (*auth.RegisterResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func (s stubRegisterService) SetupStore(context.Context, uuid.UUID, string) (*stores.StoreDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.store, nil
}

func TestAuthLoginSuccess(t *testing.T) {
	svc := stubAuthService{login: &auth.LoginResponse{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User:         &users.UserDTO{ID: uuid.New(), Email: "owner@example.com"},
	}}
	handler := AuthLogin(svc, nil)

	body := []byte(`{"email":"owner@example.com","password":"secret123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "access-token" {
		t.Fatalf("expected access token in payload, got %q", envelope.Data.AccessToken)
	}
	if envelope.Data.Store != nil {
		t.Fatal("expected nil store for owner without one")
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	svc := stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, nil)

	body := []byte(`{"email":"owner@example.com","password":"wrong-pass"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthLoginValidation(t *testing.T) {
	handler := AuthLogin(stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"email":"not-an-email"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthRegisterCreated(t *testing.T) {
	svc := stubRegisterService{resp: &auth.RegisterResponse{
		User:  &users.UserDTO{ID: uuid.New(), Email: "owner@example.com"},
		Store: &stores.StoreDTO{ID: uuid.New(), Name: "Cafe Central", Slug: "cafe-central"},
	}}
	handler := AuthRegister(svc, nil)

	body := []byte(`{"store_name":"Cafe Central","email":"owner@example.com","password":"secret123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
}

func TestAuthRegisterPartialFailure(t *testing.T) {
	userID := uuid.New()
	partial := pkgerrors.New(pkgerrors.CodePartialReg, "account created but store setup failed").
		WithDetails(map[string]string{"user_id": userID.String()})
	handler := AuthRegister(stubRegisterService{err: partial}, nil)

	body := []byte(`{"store_name":"Cafe Central","email":"owner@example.com","password":"secret123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	var envelope struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodePartialReg) {
		t.Fatalf("expected partial registration code got %s", envelope.Error.Code)
	}
	if envelope.Error.Details["user_id"] != userID.String() {
		t.Fatalf("expected user_id detail, got %+v", envelope.Error.Details)
	}
}

func TestAuthSessionRequiresUser(t *testing.T) {
	handler := AuthSession(stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthSetupStoreCreated(t *testing.T) {
	svc := stubRegisterService{store: &stores.StoreDTO{ID: uuid.New(), Name: "Cafe Central", Slug: "cafe-central"}}
	handler := AuthSetupStore(svc, nil)

	body := []byte(`{"store_name":"Cafe Central"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/setup-store", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
}
