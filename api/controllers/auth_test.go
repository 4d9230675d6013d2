package controllers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/mealbridge/mealbridge-backend/api/middleware"
	"github.com/mealbridge/mealbridge-backend/internal/auth"
	"github.com/mealbridge/mealbridge-backend/pkg/db/models"
	"github.com/mealbridge/mealbridge-backend/pkg/enums"
	pkgerrors "github.com/mealbridge/mealbridge-backend/pkg/errors"
)

type stubAuth struct {
	register     func(ctx context.Context, input auth.RegisterInput) (*models.User, string, error)
	login        func(ctx context.Context, email, password string) (*models.User, string, error)
	logout       func(ctx context.Context, tokenID string) error
	shelterLogin func(ctx context.Context, email, password string) (*models.Shelter, string, error)
}

func (s *stubAuth) Register(ctx context.Context, input auth.RegisterInput) (*models.User, string, error) {
	if s.register != nil {
		return s.register(ctx, input)
	}
	return nil, "", fmt.Errorf("not implemented")
}

func (s *stubAuth) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if s.login != nil {
		return s.login(ctx, email, password)
	}
	return nil, "", fmt.Errorf("not implemented")
}

func (s *stubAuth) Logout(ctx context.Context, tokenID string) error {
	if s.logout != nil {
		return s.logout(ctx, tokenID)
	}
	return nil
}

func (s *stubAuth) ShelterLogin(ctx context.Context, email, password string) (*models.Shelter, string, error) {
	if s.shelterLogin != nil {
		return s.shelterLogin(ctx, email, password)
	}
	return nil, "", fmt.Errorf("not implemented")
}

func TestAuthRegisterReturnsTokenAndUser(t *testing.T) {
	userID := uuid.New()
	svc := &stubAuth{
		register: func(ctx context.Context, input auth.RegisterInput) (*models.User, string, error) {
			if input.Email != "ana@example.com" {
				t.Fatalf("unexpected email %q", input.Email)
			}
			return &models.User{
				ID:           userID,
				Name:         input.Name,
				Email:        input.Email,
				Role:         enums.MemberRoleCustomer,
				PasswordHash: "argon2id$secret-material",
			}, "signed-token", nil
		},
	}

	body := `{"name":"Ana","email":"ana@example.com","password":"s3cretpass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthRegister(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", resp.Code, resp.Body.String())
	}
	payload := decodeEnvelope(t, resp)
	data := payload["data"].(map[string]any)
	if data["token"] != "signed-token" {
		t.Fatalf("expected token got %v", data)
	}
	if strings.Contains(resp.Body.String(), "secret-material") {
		t.Fatal("password hash must never serialize")
	}
}

func TestAuthRegisterRejectsShortPassword(t *testing.T) {
	body := `{"name":"Ana","email":"ana@example.com","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthRegister(&stubAuth{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLoginWrongPassword(t *testing.T) {
	svc := &stubAuth{
		login: func(ctx context.Context, email, password string) (*models.User, string, error) {
			return nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		},
	}

	body := `{"email":"ana@example.com","password":"wrong-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthLogin(svc, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	payload := decodeEnvelope(t, resp)
	if payload["success"] != false {
		t.Fatalf("expected failure envelope got %v", payload)
	}
	if payload["message"] != "invalid credentials" {
		t.Fatalf("expected credentials message got %v", payload["message"])
	}
}

func TestAuthLogoutRevokesPresentedToken(t *testing.T) {
	var revoked string
	svc := &stubAuth{
		logout: func(ctx context.Context, tokenID string) error {
			revoked = tokenID
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req = req.WithContext(middleware.WithTokenID(req.Context(), "jti-123"))
	resp := httptest.NewRecorder()
	AuthLogout(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if revoked != "jti-123" {
		t.Fatalf("expected jti-123 revoked got %q", revoked)
	}
	if decodeEnvelope(t, resp)["message"] != "logged out" {
		t.Fatal("expected logged out message")
	}
}

func TestShelterAuthLoginReturnsShelterView(t *testing.T) {
	shelterID := uuid.New()
	svc := &stubAuth{
		shelterLogin: func(ctx context.Context, email, password string) (*models.Shelter, string, error) {
			return &models.Shelter{
				ID:           shelterID,
				Name:         "Hope Kitchen",
				Email:        email,
				PasswordHash: "argon2id$shelter-secret",
			}, "shelter-token", nil
		},
	}

	body := `{"email":"hope@example.com","password":"s3cretpass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/shelter-auth/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	ShelterAuthLogin(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", resp.Code, resp.Body.String())
	}
	data := decodeEnvelope(t, resp)["data"].(map[string]any)
	shelter := data["shelter"].(map[string]any)
	if shelter["name"] != "Hope Kitchen" {
		t.Fatalf("expected shelter view got %v", shelter)
	}
	if strings.Contains(resp.Body.String(), "shelter-secret") {
		t.Fatal("shelter password hash must never serialize")
	}
}
