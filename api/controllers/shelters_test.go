package controllers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mealbridge/mealbridge-backend/api/middleware"
	"github.com/mealbridge/mealbridge-backend/internal/reroutes"
	"github.com/mealbridge/mealbridge-backend/pkg/db/models"
	pkgerrors "github.com/mealbridge/mealbridge-backend/pkg/errors"
)

type stubReroutes struct {
	pending func(ctx context.Context, shelterID uuid.UUID) ([]models.Reroute, error)
	decide  func(ctx context.Context, input reroutes.DecideInput) (*models.Reroute, error)
	stats   func(ctx context.Context, shelterID uuid.UUID) (*reroutes.ShelterStats, error)
}

func (s *stubReroutes) Pending(ctx context.Context, shelterID uuid.UUID) ([]models.Reroute, error) {
	if s.pending != nil {
		return s.pending(ctx, shelterID)
	}
	return nil, nil
}

func (s *stubReroutes) Decide(ctx context.Context, input reroutes.DecideInput) (*models.Reroute, error) {
	if s.decide != nil {
		return s.decide(ctx, input)
	}
	return nil, fmt.Errorf("not implemented")
}

func (s *stubReroutes) History(ctx context.Context, shelterID uuid.UUID) ([]models.Reroute, error) {
	return nil, nil
}

func (s *stubReroutes) Stats(ctx context.Context, shelterID uuid.UUID) (*reroutes.ShelterStats, error) {
	if s.stats != nil {
		return s.stats(ctx, shelterID)
	}
	return &reroutes.ShelterStats{}, nil
}

// shelterRouter mounts the decide handlers under the portal paths with the
// shelter id seeded, so chi's URL params resolve like in production.
func shelterRouter(svc reroutes.Service, shelterID uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithShelterID(req.Context(), shelterID.String())))
		})
	})
	r.Post("/api/shelter/orders/{rerouteId}/accept", ShelterAcceptOrder(svc, testLogger()))
	r.Post("/api/shelter/orders/{rerouteId}/reject", ShelterRejectOrder(svc, testLogger()))
	return r
}

func TestShelterAcceptPassesRouteAndShelterID(t *testing.T) {
	shelterID := uuid.New()
	rerouteID := uuid.New()
	svc := &stubReroutes{
		decide: func(ctx context.Context, input reroutes.DecideInput) (*models.Reroute, error) {
			if input.RerouteID != rerouteID {
				t.Fatalf("expected reroute %s got %s", rerouteID, input.RerouteID)
			}
			if input.ShelterID != shelterID {
				t.Fatalf("expected shelter %s got %s", shelterID, input.ShelterID)
			}
			if !input.Accept {
				t.Fatal("expected accept decision")
			}
			return &models.Reroute{ID: rerouteID}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/shelter/orders/"+rerouteID.String()+"/accept", nil)
	resp := httptest.NewRecorder()
	shelterRouter(svc, shelterID).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", resp.Code, resp.Body.String())
	}
	if decodeEnvelope(t, resp)["success"] != true {
		t.Fatal("expected success envelope")
	}
}

func TestShelterRejectCarriesReason(t *testing.T) {
	shelterID := uuid.New()
	rerouteID := uuid.New()
	svc := &stubReroutes{
		decide: func(ctx context.Context, input reroutes.DecideInput) (*models.Reroute, error) {
			if input.Accept {
				t.Fatal("expected reject decision")
			}
			if input.Reason != "freezer is full" {
				t.Fatalf("expected reason got %q", input.Reason)
			}
			return &models.Reroute{ID: rerouteID}, nil
		},
	}

	body := strings.NewReader(`{"reason":"freezer is full"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/shelter/orders/"+rerouteID.String()+"/reject", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	shelterRouter(svc, shelterID).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", resp.Code, resp.Body.String())
	}
}

func TestShelterDecideRejectsForeignReroute(t *testing.T) {
	shelterID := uuid.New()
	rerouteID := uuid.New()
	svc := &stubReroutes{
		decide: func(ctx context.Context, input reroutes.DecideInput) (*models.Reroute, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/shelter/orders/"+rerouteID.String()+"/accept", nil)
	resp := httptest.NewRecorder()
	shelterRouter(svc, shelterID).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestShelterStatsRequiresShelterContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/shelter/stats", nil)
	resp := httptest.NewRecorder()
	ShelterStats(&stubReroutes{}, testLogger())(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without shelter context got %d", resp.Code)
	}
}

func TestShelterStatsReturnsSummary(t *testing.T) {
	shelterID := uuid.New()
	svc := &stubReroutes{
		stats: func(ctx context.Context, id uuid.UUID) (*reroutes.ShelterStats, error) {
			if id != shelterID {
				t.Fatalf("expected shelter %s got %s", shelterID, id)
			}
			return &reroutes.ShelterStats{Accepted: 4, MealsReceived: 11}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/shelter/stats", nil)
	req = req.WithContext(middleware.WithShelterID(req.Context(), shelterID.String()))
	resp := httptest.NewRecorder()
	ShelterStats(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	data := decodeEnvelope(t, resp)["data"].(map[string]any)
	if data["accepted"] != float64(4) {
		t.Fatalf("expected accepted=4 got %v", data)
	}
}
