package controllers

import (
	"net/http"

	"github.com/mealbridge/mealbridge-backend/api/responses"
	"github.com/mealbridge/mealbridge-backend/api/validators"
	"github.com/mealbridge/mealbridge-backend/internal/orders"
	"github.com/mealbridge/mealbridge-backend/pkg/enums"
	pkgerrors "github.com/mealbridge/mealbridge-backend/pkg/errors"
	"github.com/mealbridge/mealbridge-backend/pkg/logger"
	"github.com/mealbridge/mealbridge-backend/pkg/types"
)

type placeOrderRequest struct {
	Items   types.OrderItems `json:"items" validate:"required,min=1"`
	Address types.Address    `json:"address" validate:"required"`
	Amount  int64            `json:"amount" validate:"required,gt=0"`
}

type orderIDRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
}

type statusUpdateRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
	Status  string `json:"status" validate:"required"`
}

type verifyPaymentRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
	Success bool   `json:"success"`
}

type assignShelterRequest struct {
	OrderID   string `json:"orderId" validate:"required,uuid"`
	ShelterID string `json:"shelterId" validate:"required,uuid"`
}

type rateOrderRequest struct {
	OrderID  string `json:"orderId" validate:"required,uuid"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Feedback string `json:"feedback,omitempty" validate:"max=500"`
}

// OrderPlace starts the card flow: the order is created unpaid and the
// response carries the payment confirmation URL to redirect to.
func OrderPlace(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return placeHandler(svc, logg, false)
}

// OrderPlaceCOD is the cash-on-delivery flow: the order is paid on the spot.
func OrderPlaceCOD(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return placeHandler(svc, logg, true)
}

func placeHandler(svc orders.Service, logg *logger.Logger, cashOnDelivery bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body placeOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, sessionURL, err := svc.Place(r.Context(), orders.PlaceInput{
			UserID:         userID,
			Items:          body.Items,
			Address:        body.Address,
			Amount:         body.Amount,
			CashOnDelivery: cashOnDelivery,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		data := map[string]any{"order": order}
		if sessionURL != "" {
			data["session_url"] = sessionURL
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, data)
	}
}

// OrderVerify settles the payment gateway callback. Verification is lenient:
// any failure reports "not verified" instead of an error, since the gateway
// is the source of truth and retrying is safe.
func OrderVerify(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body verifyPaymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParseUUID(body.OrderID, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		verified, err := svc.VerifyPayment(r.Context(), orderID, body.Success)
		if err != nil || !verified {
			if err != nil && logg != nil {
				logg.Warn(logg.WithOrderID(r.Context(), orderID.String()), "payment verification failed")
			}
			responses.WriteSuccessMessage(w, "payment not verified", map[string]any{"verified": false})
			return
		}
		responses.WriteSuccess(w, map[string]any{"verified": true})
	}
}

// OrderStatusUpdate moves an order along the lifecycle. Re-asserting the
// current status succeeds with an "unchanged" note.
func OrderStatusUpdate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body statusUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParseUUID(body.OrderID, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		order, changed, err := svc.UpdateStatus(r.Context(), orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !changed {
			responses.WriteSuccessMessage(w, "unchanged", order)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderCancel releases the caller's order for redistribution.
func OrderCancel(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orderIDRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParseUUID(body.OrderID, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Cancel(r.Context(), orderID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderClaim hands a redistributing order to the caller at the discount.
func OrderClaim(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orderIDRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParseUUID(body.OrderID, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Claim(r.Context(), orderID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// assignShelterEnvelope extends the standard envelope with the idempotency
// flag the donation flow reports.
type assignShelterEnvelope struct {
	Success         bool `json:"success"`
	AlreadyAssigned bool `json:"alreadyAssigned"`
	Data            any  `json:"data,omitempty"`
}

// OrderAssignShelter donates an order to a shelter. Re-assigning an already
// donated order succeeds and reports alreadyAssigned.
func OrderAssignShelter(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body assignShelterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParseUUID(body.OrderID, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shelterID, err := validators.ParseUUID(body.ShelterID, "shelterId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, alreadyAssigned, err := svc.AssignShelter(r.Context(), orderID, shelterID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, assignShelterEnvelope{
			Success:         true,
			AlreadyAssigned: alreadyAssigned,
			Data:            order,
		})
	}
}

// OrderRate records the owner's rating for a delivered order.
func OrderRate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body rateOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParseUUID(body.OrderID, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Rate(r.Context(), orders.RateInput{
			OrderID:  orderID,
			ActorID:  userID,
			Rating:   body.Rating,
			Feedback: validators.SanitizeString(body.Feedback, 500),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderUserOrders lists the caller's orders, placed or claimed.
func OrderUserOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.UserOrders(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OrderList returns every order, newest first.
func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OrderImpact reports the caller's redistribution footprint.
func OrderImpact(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Impact(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
