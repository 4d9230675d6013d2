package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mealbridge/mealbridge-backend/api/middleware"
	"github.com/mealbridge/mealbridge-backend/api/responses"
	"github.com/mealbridge/mealbridge-backend/api/validators"
	"github.com/mealbridge/mealbridge-backend/internal/reroutes"
	"github.com/mealbridge/mealbridge-backend/internal/shelters"
	pkgerrors "github.com/mealbridge/mealbridge-backend/pkg/errors"
	"github.com/mealbridge/mealbridge-backend/pkg/logger"
)

type decideRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

// shelterID resolves the authenticated shelter's id from the request context.
func shelterID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.ShelterIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "shelter context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "invalid shelter context")
	}
	return id, nil
}

// ShelterMe returns the authenticated shelter's profile.
func ShelterMe(repo shelters.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := shelterID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shelter, err := repo.FindByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "shelter not found"))
			return
		}
		responses.WriteSuccess(w, viewShelter(shelter))
	}
}

// ShelterPendingOrders lists donations awaiting the shelter's decision.
func ShelterPendingOrders(svc reroutes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := shelterID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pending, err := svc.Pending(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pending)
	}
}

// ShelterAcceptOrder accepts a pending donation.
func ShelterAcceptOrder(svc reroutes.Service, logg *logger.Logger) http.HandlerFunc {
	return decideHandler(svc, logg, true)
}

// ShelterRejectOrder rejects a pending donation, optionally with a reason.
func ShelterRejectOrder(svc reroutes.Service, logg *logger.Logger) http.HandlerFunc {
	return decideHandler(svc, logg, false)
}

func decideHandler(svc reroutes.Service, logg *logger.Logger, accept bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := shelterID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rerouteID, err := validators.ParsePathUUID(r, "rerouteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// The reject body is optional; an empty body means no reason.
		var body decideRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		decided, err := svc.Decide(r.Context(), reroutes.DecideInput{
			RerouteID: rerouteID,
			ShelterID: id,
			Accept:    accept,
			Reason:    body.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, decided)
	}
}

// ShelterHistory lists the shelter's decided donations.
func ShelterHistory(svc reroutes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := shelterID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.History(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

// ShelterStats summarizes the shelter's donation history.
func ShelterStats(svc reroutes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := shelterID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Stats(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
